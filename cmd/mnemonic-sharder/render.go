package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Klingon-tech/mnemonic-sharder/config"
	"github.com/Klingon-tech/mnemonic-sharder/internal/sharder"
	"github.com/Klingon-tech/mnemonic-sharder/internal/ssss"
)

// result is command output that can also render itself as text.
type result interface {
	writeText(w io.Writer, verbose bool)
}

func (a *app) render(w io.Writer, r result) error {
	switch a.cfg.Output {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		r.writeText(w, a.cfg.Verbose)
		return nil
	}
}

type condenseResult struct {
	Words int    `json:"words" yaml:"words"`
	Hex   string `json:"hex" yaml:"hex"`
}

func (r condenseResult) writeText(w io.Writer, _ bool) {
	fmt.Fprintf(w, "Condensed mnemonic (hex): %s\n", r.Hex)
}

type expandResult struct {
	Words    int    `json:"words" yaml:"words"`
	Mnemonic string `json:"mnemonic" yaml:"mnemonic"`
	Hex      string `json:"hex,omitempty" yaml:"hex,omitempty"`
}

func (r expandResult) writeText(w io.Writer, _ bool) {
	fmt.Fprintf(w, "Expanded mnemonic: %s\n", r.Mnemonic)
}

type combineResult expandResult

func (r combineResult) writeText(w io.Writer, verbose bool) {
	fmt.Fprintln(w, "################")
	fmt.Fprintln(w, "Recovered Secret")
	fmt.Fprintln(w, "################")
	if verbose && r.Hex != "" {
		fmt.Fprintf(w, "(hex): %s\n", r.Hex)
	}
	fmt.Fprintf(w, "(mnemonic): %s\n", r.Mnemonic)
}

type splitResult struct {
	sharder.ShareSet `yaml:",inline"`

	Mnemonic string `json:"mnemonic,omitempty" yaml:"mnemonic,omitempty"`
	Secret   string `json:"secret,omitempty" yaml:"secret,omitempty"`
	Verified *bool  `json:"verified,omitempty" yaml:"verified,omitempty"`
}

// newSplitResult copies set, keeping hex values and the input phrase only
// in verbose mode.
func (a *app) newSplitResult(words []string, set *sharder.ShareSet, verified *bool) splitResult {
	r := splitResult{ShareSet: *set, Verified: verified}
	r.Shares = make([]sharder.Share, len(set.Shares))
	copy(r.Shares, set.Shares)

	if a.cfg.Verbose {
		r.Mnemonic = strings.Join(words, " ")
		if hex, err := a.sharder.Condense(words); err == nil {
			r.Secret = hex
		}
		return r
	}
	for i := range r.Shares {
		r.Shares[i].Hex = ""
	}
	return r
}

func (r splitResult) writeText(w io.Writer, verbose bool) {
	if verbose {
		fmt.Fprintln(w, "###############")
		fmt.Fprintln(w, "Original Secret")
		fmt.Fprintln(w, "###############")
		fmt.Fprintf(w, "(mnemonic): %s\n", r.Mnemonic)
		fmt.Fprintf(w, "(hex): %s\n", r.Secret)
		fmt.Fprintf(w, "(security bits): %d\n", r.SecurityBits)

		fmt.Fprintln(w, "\nSplit Secret - Raw Shares:")
		for _, s := range r.Shares {
			raw := ssss.Share{Index: s.Index, Value: s.Hex}
			fmt.Fprintf(w, "Share %d (hex length: %d): %s\n", s.Index, len(s.Hex), raw)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Split Secret - Mnemonic Shares (%d of %d needed):\n", r.Threshold, r.Total)
	for _, s := range r.Shares {
		fmt.Fprintf(w, "Share %d (word length: %d): %s\n", s.Index, len(s.Words), strings.Join(s.Words, " "))
	}

	if r.Verified != nil && *r.Verified {
		fmt.Fprintf(w, "\nSuccess! The first %d and the last %d shares both recover the original secret.\n",
			r.Threshold, r.Threshold)
	}
}

type wordlistResult struct {
	Source      string `json:"source" yaml:"source"`
	Length      int    `json:"length" yaml:"length"`
	BitShift    int    `json:"bitshift" yaml:"bitshift"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

func (r wordlistResult) writeText(w io.Writer, _ bool) {
	fmt.Fprintf(w, "Wordlist:    %s\n", r.Source)
	fmt.Fprintf(w, "Length:      %d\n", r.Length)
	fmt.Fprintf(w, "Bitshift:    %d\n", r.BitShift)
	fmt.Fprintf(w, "Fingerprint: %s\n", r.Fingerprint)
}
