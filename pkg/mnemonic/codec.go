// Package mnemonic packs mnemonic phrases into arbitrary-precision integers
// and unpacks them again.
//
// Each word contributes its wordlist index as a fixed number of bits, most
// significant word first. Because leading index-0 words add no bits to the
// integer, a secret alone does not determine the phrase length: Decode
// always takes the word count explicitly.
package mnemonic

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Klingon-tech/mnemonic-sharder/pkg/wordlist"
)

// Codec errors.
var (
	ErrEmptyMnemonic    = errors.New("mnemonic has no words")
	ErrInvalidWordCount = errors.New("word count must be positive")
	ErrInvalidBitWidth  = errors.New("bit width too small for wordlist")
	ErrNegativeSecret   = errors.New("secret is negative")
	ErrSecretTooWide    = errors.New("secret does not fit in word count")
)

// Codec maps between word sequences and integers for one wordlist.
// It is immutable and safe for concurrent use.
type Codec struct {
	wl       *wordlist.Wordlist
	bitWidth int
	mask     *big.Int
}

// NewCodec returns a codec using log2 of the wordlist size per word.
func NewCodec(wl *wordlist.Wordlist) *Codec {
	c, _ := NewCodecWithBitWidth(wl, wl.BitWidth())
	return c
}

// NewCodecWithBitWidth returns a codec packing each word into bitWidth bits.
// bitWidth may exceed the wordlist's natural width but not fall short of it.
func NewCodecWithBitWidth(wl *wordlist.Wordlist, bitWidth int) (*Codec, error) {
	if bitWidth < wl.BitWidth() {
		return nil, fmt.Errorf("%w: %d bits, wordlist of %d words needs %d",
			ErrInvalidBitWidth, bitWidth, wl.Len(), wl.BitWidth())
	}
	mask := new(big.Int).Lsh(big.NewInt(1), uint(bitWidth))
	mask.Sub(mask, big.NewInt(1))
	return &Codec{wl: wl, bitWidth: bitWidth, mask: mask}, nil
}

// Wordlist returns the codec's wordlist.
func (c *Codec) Wordlist() *wordlist.Wordlist {
	return c.wl
}

// BitWidth returns the number of bits per word.
func (c *Codec) BitWidth() int {
	return c.bitWidth
}

// SecretBits returns the intended width of a secret of wordCount words.
func (c *Codec) SecretBits(wordCount int) int {
	return wordCount * c.bitWidth
}

// Encode packs words into an integer, first word most significant.
func (c *Codec) Encode(words []string) (*big.Int, error) {
	if len(words) == 0 {
		return nil, ErrEmptyMnemonic
	}

	secret := new(big.Int)
	idx := new(big.Int)
	for i, w := range words {
		n, err := c.wl.IndexOf(w)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i+1, err)
		}
		secret.Lsh(secret, uint(c.bitWidth))
		secret.Or(secret, idx.SetInt64(int64(n)))
	}
	return secret, nil
}

// Decode unpacks exactly wordCount words from secret. High positions whose
// bits are zero decode to the wordlist's index-0 word.
func (c *Codec) Decode(secret *big.Int, wordCount int) ([]string, error) {
	if wordCount < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWordCount, wordCount)
	}
	if secret.Sign() < 0 {
		return nil, ErrNegativeSecret
	}
	if bits := secret.BitLen(); bits > c.SecretBits(wordCount) {
		return nil, fmt.Errorf("%w: %d bits, %d words hold %d",
			ErrSecretTooWide, bits, wordCount, c.SecretBits(wordCount))
	}

	rest := new(big.Int).Set(secret)
	idx := new(big.Int)
	words := make([]string, wordCount)
	for i := wordCount - 1; i >= 0; i-- {
		idx.And(rest, c.mask)
		n := -1
		if idx.IsInt64() && idx.Int64() < int64(c.wl.Len()) {
			n = int(idx.Int64())
		}
		w, err := c.wl.WordAt(n)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i+1, err)
		}
		words[i] = w
		rest.Rsh(rest, uint(c.bitWidth))
	}
	return words, nil
}
