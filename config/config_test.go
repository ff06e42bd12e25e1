package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeConf(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func parseFlags(t *testing.T, args ...string) (*Flags, *pflag.FlagSet) {
	t.Helper()
	f := &Flags{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs, f)
	RegisterShareFlags(fs, f)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return f, fs
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConf(t, dir, `
# comment
wordlist.file = "/tmp/words.txt"
wordlist.bitshift = 12
shares.total=7
  shares.threshold = '4'
unknown.key = whatever
`)

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if values["wordlist.file"] != "/tmp/words.txt" {
		t.Errorf("wordlist.file = %q, want quotes stripped", values["wordlist.file"])
	}
	if values["shares.threshold"] != "4" {
		t.Errorf("shares.threshold = %q, want 4", values["shares.threshold"])
	}

	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Wordlist.File != "/tmp/words.txt" || cfg.Wordlist.BitShift != 12 {
		t.Errorf("wordlist = %+v", cfg.Wordlist)
	}
	if cfg.Shares.Total != 7 || cfg.Shares.Threshold != 4 {
		t.Errorf("shares = %+v, want 7/4", cfg.Shares)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("got %d values from a missing file", len(values))
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := writeConf(t, t.TempDir(), "output = json\njust a line\n")
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("LoadFile() error = %v, want line 2 error", err)
	}
}

func TestLoadFile_EmptyKey(t *testing.T) {
	path := writeConf(t, t.TempDir(), "# shares\n = 5\n")
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), path+" line 2") {
		t.Errorf("LoadFile() error = %v, want %s line 2 error", err, path)
	}
}

func TestUnquote(t *testing.T) {
	tests := map[string]string{
		`"words.txt"`: "words.txt",
		`'json'`:      "json",
		`"mixed'`:     `"mixed'`,
		`"`:           `"`,
		`plain`:       "plain",
		`""`:          "",
	}
	for in, want := range tests {
		if got := unquote(in); got != want {
			t.Errorf("unquote(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApplyFileConfig_BadNumber(t *testing.T) {
	err := ApplyFileConfig(Default(), map[string]string{"shares.total": "five"})
	if err == nil || !strings.Contains(err.Error(), "shares.total") {
		t.Errorf("ApplyFileConfig() error = %v, want shares.total error", err)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeConf(t, dir, "shares.total = 7\nshares.threshold = 4\noutput = yaml\nlog.level = info\n")

	f, fs := parseFlags(t, "--datadir", dir, "-t", "2", "--output", "json")
	cfg, err := Load(f, fs)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Shares.Total != 7 {
		t.Errorf("Total = %d, want 7 from file", cfg.Shares.Total)
	}
	if cfg.Shares.Threshold != 2 {
		t.Errorf("Threshold = %d, want 2 from flag", cfg.Shares.Threshold)
	}
	if cfg.Output != OutputJSON {
		t.Errorf("Output = %q, want json from flag", cfg.Output)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info from file", cfg.Log.Level)
	}
}

func TestLoad_Defaults(t *testing.T) {
	f, fs := parseFlags(t, "--datadir", t.TempDir())
	cfg, err := Load(f, fs)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Shares.Total != DefaultTotal || cfg.Shares.Threshold != DefaultThreshold {
		t.Errorf("shares = %+v, want %d/%d", cfg.Shares, DefaultTotal, DefaultThreshold)
	}
	if cfg.Output != OutputText {
		t.Errorf("Output = %q, want text", cfg.Output)
	}
	if cfg.Wordlist.File != "" || cfg.Wordlist.BitShift != 0 {
		t.Errorf("wordlist = %+v, want built-in", cfg.Wordlist)
	}
}

func TestLoad_ExplicitConfigPath(t *testing.T) {
	path := writeConf(t, t.TempDir(), "wordlist.bitshift = 16\n")
	f, fs := parseFlags(t, "--datadir", t.TempDir(), "-c", path)
	cfg, err := Load(f, fs)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Wordlist.BitShift != 16 {
		t.Errorf("BitShift = %d, want 16", cfg.Wordlist.BitShift)
	}
}

func TestLoadFlags_IgnoresFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConf(t, dir, "this line is broken\nshares.total = many\n")
	f, fs := parseFlags(t, "--datadir", dir, "-c", path, "-o", "json")

	if _, err := Load(f, fs); err == nil {
		t.Fatal("Load() accepted a broken config file")
	}
	cfg, err := LoadFlags(f, fs)
	if err != nil {
		t.Fatalf("LoadFlags() error: %v", err)
	}
	if cfg.Output != OutputJSON || cfg.DataDir != dir {
		t.Errorf("cfg = %+v, want json output in %s", cfg, dir)
	}
	if cfg.Shares.Total != DefaultTotal {
		t.Errorf("Shares.Total = %d, want default %d", cfg.Shares.Total, DefaultTotal)
	}
}

func TestLoad_Verbose(t *testing.T) {
	f, fs := parseFlags(t, "--datadir", t.TempDir(), "-v", "--log-level", "error")
	cfg, err := Load(f, fs)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Verbose || cfg.Log.Level != "debug" {
		t.Errorf("verbose = %v, level = %q, want true/debug", cfg.Verbose, cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad output", func(c *Config) { c.Output = "xml" }, "output"},
		{"negative bitshift", func(c *Config) { c.Wordlist.BitShift = -1 }, "bitshift"},
		{"huge bitshift", func(c *Config) { c.Wordlist.BitShift = MaxBitShift + 1 }, "bitshift"},
		{"threshold one", func(c *Config) { c.Shares.Threshold = 1 }, "threshold"},
		{"total below threshold", func(c *Config) { c.Shares.Total = 2 }, "shares.total"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig() error: %v", err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("default file does not validate: %v", err)
	}
	if cfg.Shares.Total != DefaultTotal || cfg.Output != OutputText {
		t.Errorf("cfg = %+v", cfg)
	}
}
