package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile reads a sharder.conf file into raw key/value pairs.
//
// Each non-blank line is "key = value"; lines starting with # are comments.
// Keys are dotted section names such as shares.threshold or wordlist.file,
// and a value may be wrapped in single or double quotes. A missing file
// yields an empty map so that a fresh data directory needs no setup.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%s line %d: want \"key = value\", e.g. \"shares.threshold = 3\"", path, lineNum)
		}
		values[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// unquote strips one pair of matching single or double quotes.
func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	if q := v[0]; (q == '"' || q == '\'') && v[len(v)-1] == q {
		return v[1 : len(v)-1]
	}
	return v
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "datadir":
		cfg.DataDir = value
	case "output":
		cfg.Output = OutputFormat(strings.ToLower(value))

	// Wordlist
	case "wordlist.file", "wordlist":
		cfg.Wordlist.File = value
	case "wordlist.bitshift", "bitshift":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Wordlist.BitShift = n

	// Shares
	case "shares.total":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Shares.Total = n
	case "shares.threshold":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Shares.Threshold = n

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string) error {
	content := `# mnemonic-sharder configuration
#
# Command-line flags override every value in this file.

# ============================================================================
# Wordlist
# ============================================================================

# Wordlist file, one word per line. Its length must be a power of two.
# Empty uses the built-in BIP-39 English list.
# wordlist.file = /path/to/wordlist.txt

# Bits packed per word. 0 uses log2 of the wordlist length.
wordlist.bitshift = 0

# ============================================================================
# Shares
# ============================================================================

shares.total = ` + strconv.Itoa(DefaultTotal) + `
shares.threshold = ` + strconv.Itoa(DefaultThreshold) + `

# ============================================================================
# Output
# ============================================================================

# text, json or yaml
output = text

# ============================================================================
# Logging
# ============================================================================

log.level = warn
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0600)
}
