// Package config handles application configuration.
//
// Settings are layered: built-in defaults, then the key = value config
// file in the data directory, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ConfigFileName is the config file name inside the data directory.
const ConfigFileName = "sharder.conf"

// Config holds runtime configuration.
type Config struct {
	DataDir string       `conf:"datadir"`
	Output  OutputFormat `conf:"output"`

	// Wordlist
	Wordlist WordlistConfig

	// Default split parameters
	Shares SharesConfig

	// Logging
	Log LogConfig

	// Verbose shows raw hex values in output and enables debug logging
	// (not persisted in config file).
	Verbose bool
}

// WordlistConfig selects the wordlist and the bits packed per word.
type WordlistConfig struct {
	File     string `conf:"wordlist.file"`     // Empty = built-in BIP-39 English
	BitShift int    `conf:"wordlist.bitshift"` // 0 = log2 of the wordlist size
}

// SharesConfig holds the default split parameters.
type SharesConfig struct {
	Total     int `conf:"shares.total"`
	Threshold int `conf:"shares.threshold"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.mnemonic-sharder
//	macOS:   ~/Library/Application Support/MnemonicSharder
//	Windows: %APPDATA%\MnemonicSharder
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mnemonic-sharder"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "MnemonicSharder")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "MnemonicSharder")
		}
		return filepath.Join(home, "AppData", "Roaming", "MnemonicSharder")
	default:
		return filepath.Join(home, ".mnemonic-sharder")
	}
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, ConfigFileName)
}
