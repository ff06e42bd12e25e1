package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Core
	Config  string
	DataDir string
	Output  string
	Verbose bool

	// Wordlist
	Wordlist string
	BitShift int

	// Shares
	Total     int
	Threshold int

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool
}

// RegisterFlags declares the global flags on fs.
func RegisterFlags(fs *pflag.FlagSet, f *Flags) {
	fs.StringVarP(&f.Config, "config", "c", "", "Config file path (default: <datadir>/"+ConfigFileName+")")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory (default: ~/.mnemonic-sharder)")
	fs.StringVarP(&f.Output, "output", "o", "", "Output format: text, json or yaml")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Show raw hex values and debug logs")

	fs.StringVarP(&f.Wordlist, "wordlist", "w", "", "Wordlist file (default: built-in BIP-39 English)")
	fs.IntVarP(&f.BitShift, "bitshift", "b", 0, "Bits per word (default: log2 of wordlist size)")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path (JSON lines)")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")
}

// RegisterShareFlags declares the split parameter flags on fs.
func RegisterShareFlags(fs *pflag.FlagSet, f *Flags) {
	fs.IntVarP(&f.Total, "shares", "n", 0, fmt.Sprintf("Number of shares to create (default %d)", DefaultTotal))
	fs.IntVarP(&f.Threshold, "threshold", "t", 0, fmt.Sprintf("Shares needed to recombine (default %d)", DefaultThreshold))
}

// ApplyFlags applies explicitly set flags in fs to cfg.
func ApplyFlags(cfg *Config, f *Flags, fs *pflag.FlagSet) {
	if fs.Changed("datadir") {
		cfg.DataDir = f.DataDir
	}
	if fs.Changed("output") {
		cfg.Output = OutputFormat(f.Output)
	}
	if fs.Changed("verbose") {
		cfg.Verbose = f.Verbose
	}

	// Wordlist
	if fs.Changed("wordlist") {
		cfg.Wordlist.File = f.Wordlist
	}
	if fs.Changed("bitshift") {
		cfg.Wordlist.BitShift = f.BitShift
	}

	// Shares
	if fs.Changed("shares") {
		cfg.Shares.Total = f.Total
	}
	if fs.Changed("threshold") {
		cfg.Shares.Threshold = f.Threshold
	}

	// Logging
	if fs.Changed("log-level") {
		cfg.Log.Level = f.LogLevel
	}
	if fs.Changed("log-file") {
		cfg.Log.File = f.LogFile
	}
	if fs.Changed("log-json") {
		cfg.Log.JSON = f.LogJSON
	}
	if cfg.Verbose {
		cfg.Log.Level = "debug"
	}
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Config file
// 3. Command-line flags
func Load(f *Flags, fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	// Override datadir if specified
	if fs.Changed("datadir") {
		cfg.DataDir = f.DataDir
	}

	configPath := f.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	// Flags take precedence over the file.
	ApplyFlags(cfg, f, fs)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadFlags resolves configuration from defaults and flags alone, ignoring
// any config file. Used by commands that rewrite the file.
func LoadFlags(f *Flags, fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()
	if fs.Changed("datadir") {
		cfg.DataDir = f.DataDir
	}
	ApplyFlags(cfg, f, fs)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
