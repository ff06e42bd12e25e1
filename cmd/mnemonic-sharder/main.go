// mnemonic-sharder splits mnemonic phrases into T-of-N mnemonic shares and
// recombines them.
//
// Usage:
//
//	mnemonic-sharder condense [words...]
//	mnemonic-sharder expand [hex] [--words N]
//	mnemonic-sharder split [words...] [--shares N] [--threshold T]
//	mnemonic-sharder combine [--share "i: word word ..."]...
//	mnemonic-sharder full [words...]
//	mnemonic-sharder wordlist
//	mnemonic-sharder config init
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"

	"github.com/Klingon-tech/mnemonic-sharder/config"
	"github.com/Klingon-tech/mnemonic-sharder/internal/log"
	"github.com/Klingon-tech/mnemonic-sharder/internal/sharder"
	"github.com/Klingon-tech/mnemonic-sharder/internal/ssss"
	"github.com/Klingon-tech/mnemonic-sharder/pkg/mnemonic"
	"github.com/Klingon-tech/mnemonic-sharder/pkg/wordlist"
)

const version = "0.1.0"

// skipConfigFile marks commands that must run without reading the config file.
const skipConfigFile = "skip-config-file"

// app carries state shared by all commands of one invocation.
type app struct {
	flags   config.Flags
	cfg     *config.Config
	wl      *wordlist.Wordlist
	sharder *sharder.Sharder
	prompt  *prompter
}

func main() {
	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute()
	log.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "mnemonic-sharder",
		Short: "Split mnemonic phrases into threshold mnemonic shares",
		Long: `mnemonic-sharder packs a mnemonic phrase into an integer, splits it with
Shamir's secret sharing over GF(2^n), and renders every share as a mnemonic
of the same length drawn from the same wordlist.

Any threshold of the shares recovers the phrase; fewer reveal nothing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	config.RegisterFlags(rootCmd.PersistentFlags(), &a.flags)

	condenseCmd := &cobra.Command{
		Use:   "condense [words...]",
		Short: "Pack a mnemonic into fixed-width hex",
		RunE:  a.runCondense,
	}

	expandCmd := &cobra.Command{
		Use:   "expand [hex]",
		Short: "Unpack fixed-width hex into a mnemonic",
		Long: `Unpacks hex into words. Without --words the word count is derived from
the number of hex digits, which must be the canonical width for exactly one
word count.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runExpand,
	}
	expandCmd.Flags().Int("words", 0, "Number of words to expand to (default: derived from hex width)")

	splitCmd := &cobra.Command{
		Use:   "split [words...]",
		Short: "Split a mnemonic into mnemonic shares",
		Long: `Splits a mnemonic into --shares mnemonic shares, any --threshold of which
recover it. Each share has as many words as the input.

Share indices are nonzero values of the secret's width, so a secret of b
bits (words x bitshift) allows at most 2^b - 1 shares. This only limits
very short phrases: a single word from a 4-word list allows 3 shares.`,
		RunE: a.runSplit,
	}
	config.RegisterShareFlags(splitCmd.Flags(), &a.flags)

	combineCmd := &cobra.Command{
		Use:   "combine",
		Short: "Recover a mnemonic from mnemonic shares",
		Long: `Recovers a mnemonic from shares given with --share "index: word word ...".

Without --share flags the shares are prompted for. When stdin is not a
terminal, one share per line is read until EOF, as "index word word ...".`,
		Args: cobra.NoArgs,
		RunE: a.runCombine,
	}
	combineCmd.Flags().StringArray("share", nil, `Share as "index: word word ..." (repeatable)`)

	fullCmd := &cobra.Command{
		Use:   "full [words...]",
		Short: "Split a mnemonic and verify the shares recombine",
		RunE:  a.runFull,
	}
	config.RegisterShareFlags(fullCmd.Flags(), &a.flags)

	wordlistCmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Show the active wordlist",
		Args:  cobra.NoArgs,
		RunE:  a.runWordlist,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE:  a.runConfigInit,

		Annotations: map[string]string{skipConfigFile: "true"},
	}
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mnemonic-sharder version %s\n", version)
		},
	}

	rootCmd.AddCommand(condenseCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(fullCmd)
	rootCmd.AddCommand(wordlistCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// loadConfig resolves configuration and initializes logging.
func (a *app) loadConfig(cmd *cobra.Command) error {
	load := config.Load
	if cmd.Annotations[skipConfigFile] != "" {
		load = config.LoadFlags
	}
	cfg, err := load(&a.flags, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := log.Init(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	a.prompt = newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())

	log.CLI.Debug().
		Str("datadir", cfg.DataDir).
		Str("output", string(cfg.Output)).
		Msg("Configuration loaded")
	return nil
}

// setup loads the wordlist and builds the sharder.
func (a *app) setup() error {
	if a.cfg.Wordlist.File == "" {
		a.wl = wordlist.English()
	} else {
		wl, err := wordlist.LoadFile(a.cfg.Wordlist.File)
		if err != nil {
			return err
		}
		a.wl = wl
	}

	codec := mnemonic.NewCodec(a.wl)
	if a.cfg.Wordlist.BitShift != 0 {
		c, err := mnemonic.NewCodecWithBitWidth(a.wl, a.cfg.Wordlist.BitShift)
		if err != nil {
			return err
		}
		codec = c
	}
	a.sharder = sharder.New(codec, ssss.New())

	log.CLI.Debug().
		Int("words", a.wl.Len()).
		Int("bitshift", codec.BitWidth()).
		Str("fingerprint", a.wl.Short()).
		Msg("Wordlist ready")
	return nil
}

// mnemonicArg returns the phrase from args, prompting when there are none.
func (a *app) mnemonicArg(args []string, prompt string) ([]string, error) {
	if len(args) > 0 {
		return strings.Fields(strings.Join(args, " ")), nil
	}
	line, err := a.prompt.secret(prompt)
	if err != nil {
		return nil, err
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return nil, fmt.Errorf("no mnemonic given")
	}
	return words, nil
}

// checkBIP39 warns when an English phrase fails the BIP-39 checksum. Phrases
// that are not BIP-39 mnemonics still split and combine.
func (a *app) checkBIP39(words []string, what string) {
	if !a.wl.IsEnglish() || a.sharder.Codec().BitWidth() != a.wl.BitWidth() {
		return
	}
	if !bip39.IsMnemonicValid(strings.Join(words, " ")) {
		log.CLI.Warn().Int("words", len(words)).Msgf("%s is not a valid BIP-39 mnemonic (checksum or length)", what)
	}
}
