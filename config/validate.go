package config

import (
	"fmt"

	"github.com/Klingon-tech/mnemonic-sharder/internal/log"
)

// MaxBitShift bounds wordlist.bitshift.
const MaxBitShift = 32

// Validate checks config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	switch cfg.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("output must be %q, %q or %q", OutputText, OutputJSON, OutputYAML)
	}
	if cfg.Wordlist.BitShift < 0 || cfg.Wordlist.BitShift > MaxBitShift {
		return fmt.Errorf("wordlist.bitshift must be in range [0, %d]", MaxBitShift)
	}
	if cfg.Shares.Threshold < 2 {
		return fmt.Errorf("shares.threshold must be at least 2")
	}
	if cfg.Shares.Total < cfg.Shares.Threshold {
		return fmt.Errorf("shares.total (%d) must be at least shares.threshold (%d)",
			cfg.Shares.Total, cfg.Shares.Threshold)
	}
	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	return nil
}
