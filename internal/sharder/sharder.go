// Package sharder splits mnemonic phrases into mnemonic shares and combines
// shares back into the phrase.
//
// A phrase is packed into an integer with the mnemonic codec, rendered as
// fixed-width hex, and handed to a threshold sharing engine. Every value that
// crosses the engine boundary, in either direction, is rendered at the
// canonical width of the phrase, so the word count survives the round trip
// even when the leading words have index zero.
package sharder

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Klingon-tech/mnemonic-sharder/internal/log"
	"github.com/Klingon-tech/mnemonic-sharder/internal/ssss"
	"github.com/Klingon-tech/mnemonic-sharder/pkg/hexwidth"
	"github.com/Klingon-tech/mnemonic-sharder/pkg/mnemonic"
)

// Sharder errors.
var (
	ErrInvalidThreshold      = errors.New("threshold must be at least 2 and at most the share count")
	ErrTooManyShares         = errors.New("more shares than the secret's width allows")
	ErrNotEnoughShares       = errors.New("need at least two shares")
	ErrMismatchedShareLength = errors.New("shares have different word counts")
	ErrInvalidShareIndex     = errors.New("share index must be positive")
	ErrDuplicateShareIndex   = errors.New("duplicate share index")
	ErrWidthMismatch         = errors.New("engine returned a share of unexpected width")
	ErrCombinationFailed     = errors.New("share combination failed")
	ErrVerificationFailed    = errors.New("shares do not recombine to the mnemonic")
)

// Engine is a threshold secret sharing primitive operating on fixed-width
// hex values. *ssss.Engine implements it.
type Engine interface {
	Split(secretHex string, threshold, total, securityBits int) ([]ssss.Share, error)
	Combine(shares []ssss.Share, securityBits int) (string, error)
}

// Share is one mnemonic share.
type Share struct {
	Index int      `json:"index" yaml:"index"`
	Words []string `json:"words" yaml:"words"`
	Hex   string   `json:"hex,omitempty" yaml:"hex,omitempty"`
}

// ShareSet is the result of a split.
type ShareSet struct {
	Threshold    int     `json:"threshold" yaml:"threshold"`
	Total        int     `json:"total" yaml:"total"`
	WordCount    int     `json:"word_count" yaml:"word_count"`
	BitWidth     int     `json:"bit_width" yaml:"bit_width"`
	SecurityBits int     `json:"security_bits" yaml:"security_bits"`
	Shares       []Share `json:"shares" yaml:"shares"`
}

// Sharder ties a codec to an engine. Engine calls are serialized.
type Sharder struct {
	codec  *mnemonic.Codec
	engine Engine
	mu     sync.Mutex
}

// New creates a sharder.
func New(codec *mnemonic.Codec, engine Engine) *Sharder {
	return &Sharder{codec: codec, engine: engine}
}

// Codec returns the sharder's codec.
func (s *Sharder) Codec() *mnemonic.Codec {
	return s.codec
}

// SecurityBits returns the field width used for a phrase of wordCount words.
func (s *Sharder) SecurityBits(wordCount int) int {
	return s.codec.SecretBits(wordCount)
}

// Condense packs words and renders the result at canonical width.
func (s *Sharder) Condense(words []string) (string, error) {
	secret, err := s.codec.Encode(words)
	if err != nil {
		return "", fmt.Errorf("encode mnemonic: %w", err)
	}
	return hexwidth.ToPaddedHex(secret, s.width(len(words)))
}

// Expand unpacks hex into words. With wordCount 0 the count is derived from
// the digit count, which must then be canonical for exactly one word count.
func (s *Sharder) Expand(hex string, wordCount int) ([]string, error) {
	value, digits, err := hexwidth.FromPaddedHex(hex)
	if err != nil {
		return nil, err
	}
	if wordCount == 0 {
		wordCount, err = hexwidth.WordCount(digits, s.codec.BitWidth())
		if err != nil {
			return nil, err
		}
	}
	words, err := s.codec.Decode(value, wordCount)
	if err != nil {
		return nil, fmt.Errorf("decode mnemonic: %w", err)
	}
	return words, nil
}

// Split shares words among total holders, any threshold of whom can
// recover them.
func (s *Sharder) Split(words []string, threshold, total int) (*ShareSet, error) {
	defer log.Benchmark("split")()

	// Encoding
	secret, err := s.codec.Encode(words)
	if err != nil {
		return nil, fmt.Errorf("encode mnemonic: %w", err)
	}
	wordCount := len(words)
	log.Sharder.Debug().Int("words", wordCount).Msg("Mnemonic encoded")

	// Splitting
	if threshold < 2 || total < threshold {
		return nil, fmt.Errorf("%w: threshold %d, shares %d", ErrInvalidThreshold, threshold, total)
	}
	bits := s.SecurityBits(wordCount)
	if limit := ssss.MaxShares(bits); total > limit {
		return nil, fmt.Errorf("%w: %d shares, a %d-word mnemonic (%d bits) allows at most %d",
			ErrTooManyShares, total, wordCount, bits, limit)
	}
	width := s.width(wordCount)
	secretHex, err := hexwidth.ToPaddedHex(secret, width)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	raw, err := s.engine.Split(secretHex, threshold, total, bits)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("split secret: %w", err)
	}
	log.Sharder.Debug().
		Int("threshold", threshold).
		Int("total", total).
		Int("bits", bits).
		Msg("Secret split")

	// Formatting
	set := &ShareSet{
		Threshold:    threshold,
		Total:        total,
		WordCount:    wordCount,
		BitWidth:     s.codec.BitWidth(),
		SecurityBits: bits,
		Shares:       make([]Share, 0, len(raw)),
	}
	for _, r := range raw {
		value, digits, err := hexwidth.FromPaddedHex(r.Value)
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", r.Index, err)
		}
		if digits != width {
			return nil, fmt.Errorf("%w: share %d has %d digits, want %d",
				ErrWidthMismatch, r.Index, digits, width)
		}
		shareWords, err := s.codec.Decode(value, wordCount)
		if err != nil {
			return nil, fmt.Errorf("decode share %d: %w", r.Index, err)
		}
		set.Shares = append(set.Shares, Share{Index: r.Index, Words: shareWords, Hex: r.Value})
	}
	log.Sharder.Debug().Int("shares", len(set.Shares)).Msg("Shares formatted")
	return set, nil
}

// Combine recovers the phrase from shares. Supplying fewer shares than the
// split threshold produces a wrong phrase, not an error.
func (s *Sharder) Combine(shares []Share) ([]string, error) {
	defer log.Benchmark("combine")()

	// Encoding
	if len(shares) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrNotEnoughShares, len(shares))
	}
	wordCount := len(shares[0].Words)
	for _, sh := range shares[1:] {
		if len(sh.Words) != wordCount {
			return nil, fmt.Errorf("%w: share %d has %d words, share %d has %d",
				ErrMismatchedShareLength, shares[0].Index, wordCount, sh.Index, len(sh.Words))
		}
	}
	seen := make(map[int]bool, len(shares))
	for _, sh := range shares {
		if sh.Index < 1 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidShareIndex, sh.Index)
		}
		if seen[sh.Index] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateShareIndex, sh.Index)
		}
		seen[sh.Index] = true
	}

	bits := s.SecurityBits(wordCount)
	width := s.width(wordCount)
	raw := make([]ssss.Share, len(shares))
	for i, sh := range shares {
		value, err := s.codec.Encode(sh.Words)
		if err != nil {
			return nil, fmt.Errorf("encode share %d: %w", sh.Index, err)
		}
		// Normalizing
		v, err := hexwidth.ToPaddedHex(value, width)
		if err != nil {
			return nil, fmt.Errorf("share %d: %w", sh.Index, err)
		}
		raw[i] = ssss.Share{Index: sh.Index, Value: v}
	}
	log.Sharder.Debug().Int("shares", len(raw)).Int("words", wordCount).Msg("Shares normalized")

	// Combining
	s.mu.Lock()
	result, err := s.engine.Combine(raw, bits)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCombinationFailed, err)
	}

	// Decoding
	secret, _, err := hexwidth.FromPaddedHex(result)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCombinationFailed, err)
	}
	words, err := s.codec.Decode(secret, wordCount)
	if err != nil {
		return nil, fmt.Errorf("decode secret: %w", err)
	}
	log.Sharder.Debug().Int("words", len(words)).Msg("Mnemonic recovered")
	return words, nil
}

// Verify recombines the first and the last Threshold shares of set and
// checks that both yield words.
func (s *Sharder) Verify(words []string, set *ShareSet) error {
	t := set.Threshold
	if t < 2 || len(set.Shares) < t {
		return fmt.Errorf("%w: threshold %d, %d shares", ErrInvalidThreshold, t, len(set.Shares))
	}

	subsets := map[string][]Share{
		"first": set.Shares[:t],
		"last":  set.Shares[len(set.Shares)-t:],
	}
	for _, name := range []string{"first", "last"} {
		got, err := s.Combine(subsets[name])
		if err != nil {
			return fmt.Errorf("combine %s %d shares: %w", name, t, err)
		}
		if !slices.Equal(got, words) {
			return fmt.Errorf("%w: %s %d shares", ErrVerificationFailed, name, t)
		}
	}
	log.Sharder.Debug().Int("threshold", t).Msg("Share set verified")
	return nil
}

func (s *Sharder) width(wordCount int) int {
	return hexwidth.CanonicalWidth(wordCount, s.codec.BitWidth())
}
