package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/mnemonic-sharder/config"
	"github.com/Klingon-tech/mnemonic-sharder/internal/log"
	"github.com/Klingon-tech/mnemonic-sharder/internal/sharder"
)

func (a *app) runCondense(cmd *cobra.Command, args []string) error {
	if err := a.setup(); err != nil {
		return err
	}
	words, err := a.mnemonicArg(args, "Enter mnemonic to condense to hex string: ")
	if err != nil {
		return err
	}
	a.checkBIP39(words, "Input mnemonic")

	hex, err := a.sharder.Condense(words)
	if err != nil {
		return err
	}
	return a.render(cmd.OutOrStdout(), condenseResult{Words: len(words), Hex: hex})
}

func (a *app) runExpand(cmd *cobra.Command, args []string) error {
	if err := a.setup(); err != nil {
		return err
	}
	var hex string
	if len(args) == 1 {
		hex = args[0]
	} else {
		s, err := a.prompt.secret("Enter hex string to expand to mnemonic: ")
		if err != nil {
			return err
		}
		hex = s
	}
	wordCount, err := cmd.Flags().GetInt("words")
	if err != nil {
		return err
	}
	if wordCount < 0 {
		return fmt.Errorf("--words must not be negative")
	}

	words, err := a.sharder.Expand(hex, wordCount)
	if err != nil {
		return err
	}
	return a.render(cmd.OutOrStdout(), expandResult{Words: len(words), Mnemonic: strings.Join(words, " ")})
}

func (a *app) runSplit(cmd *cobra.Command, args []string) error {
	words, set, err := a.split(cmd, args)
	if err != nil {
		return err
	}
	return a.render(cmd.OutOrStdout(), a.newSplitResult(words, set, nil))
}

func (a *app) runFull(cmd *cobra.Command, args []string) error {
	words, set, err := a.split(cmd, args)
	if err != nil {
		return err
	}
	if err := a.sharder.Verify(words, set); err != nil {
		return err
	}
	verified := true
	return a.render(cmd.OutOrStdout(), a.newSplitResult(words, set, &verified))
}

// split reads the phrase and parameters, prompting on a terminal for what
// the command line left out, and splits.
func (a *app) split(cmd *cobra.Command, args []string) ([]string, *sharder.ShareSet, error) {
	if err := a.setup(); err != nil {
		return nil, nil, err
	}
	words, err := a.mnemonicArg(args, "Enter mnemonic to split: ")
	if err != nil {
		return nil, nil, err
	}
	a.checkBIP39(words, "Input mnemonic")

	total, threshold := a.cfg.Shares.Total, a.cfg.Shares.Threshold
	if a.prompt.tty && len(args) == 0 {
		if !cmd.Flags().Changed("shares") {
			if total, err = a.prompt.number("Enter number of shares to generate", total); err != nil {
				return nil, nil, err
			}
		}
		if !cmd.Flags().Changed("threshold") {
			if threshold, err = a.prompt.number("Enter minimum shares needed to recover", threshold); err != nil {
				return nil, nil, err
			}
		}
	}

	set, err := a.sharder.Split(words, threshold, total)
	if err != nil {
		return nil, nil, err
	}
	log.CLI.Info().
		Int("threshold", set.Threshold).
		Int("total", set.Total).
		Int("words", set.WordCount).
		Msg("Mnemonic split")
	return words, set, nil
}

func (a *app) runCombine(cmd *cobra.Command, args []string) error {
	if err := a.setup(); err != nil {
		return err
	}
	flags, err := cmd.Flags().GetStringArray("share")
	if err != nil {
		return err
	}

	var shares []sharder.Share
	switch {
	case len(flags) > 0:
		for _, f := range flags {
			sh, err := parseShare(f)
			if err != nil {
				return err
			}
			shares = append(shares, sh)
		}
	case a.prompt.tty:
		if shares, err = a.prompt.shares(a.cfg.Shares.Threshold); err != nil {
			return err
		}
	default:
		if shares, err = a.prompt.shareLines(); err != nil {
			return err
		}
	}

	for i, sh := range shares {
		if sh.Words != nil {
			continue
		}
		if shares[i].Words, err = a.sharder.Expand(sh.Hex, 0); err != nil {
			return fmt.Errorf("share %d: %w", sh.Index, err)
		}
	}

	words, err := a.sharder.Combine(shares)
	if err != nil {
		return err
	}
	a.checkBIP39(words, "Recovered mnemonic")
	log.CLI.Info().Int("shares", len(shares)).Int("words", len(words)).Msg("Mnemonic recovered")

	res := expandResult{Words: len(words), Mnemonic: strings.Join(words, " ")}
	if a.cfg.Verbose {
		if res.Hex, err = a.sharder.Condense(words); err != nil {
			return err
		}
	}
	return a.render(cmd.OutOrStdout(), combineResult(res))
}

func (a *app) runWordlist(cmd *cobra.Command, args []string) error {
	if err := a.setup(); err != nil {
		return err
	}
	source := "built-in BIP-39 English"
	if a.cfg.Wordlist.File != "" {
		source = a.cfg.Wordlist.File
	}
	return a.render(cmd.OutOrStdout(), wordlistResult{
		Source:      source,
		Length:      a.wl.Len(),
		BitShift:    a.sharder.Codec().BitWidth(),
		Fingerprint: a.wl.Fingerprint(),
	})
}

func (a *app) runConfigInit(cmd *cobra.Command, args []string) error {
	path := a.flags.Config
	if path == "" {
		path = a.cfg.ConfigFile()
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}
