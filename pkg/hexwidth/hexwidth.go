// Package hexwidth renders secrets and shares as fixed-width hexadecimal.
//
// Every value in a share family (the secret and all shares derived from it)
// is rendered to the same digit count, derived from the word count and the
// bits per word. The digit count of a rendered value, not its magnitude, is
// what carries the word count across the sharing engine.
package hexwidth

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Width errors.
var (
	ErrValueTooWide      = errors.New("value wider than canonical width")
	ErrNegativeValue     = errors.New("value is negative")
	ErrMalformedHex      = errors.New("malformed hex")
	ErrAmbiguousWidth    = errors.New("hex width matches more than one word count")
	ErrNonCanonicalWidth = errors.New("hex width is not canonical for any word count")
)

// CanonicalWidth returns ceil(wordCount*bitWidth/4), the number of hex
// digits every value of the family is rendered to.
func CanonicalWidth(wordCount, bitWidth int) int {
	return (wordCount*bitWidth + 3) / 4
}

// ToPaddedHex renders value as lowercase hex left-padded with zeros to width.
func ToPaddedHex(value *big.Int, width int) (string, error) {
	if value.Sign() < 0 {
		return "", ErrNegativeValue
	}
	s := value.Text(16)
	if value.Sign() == 0 {
		s = ""
	}
	if len(s) > width {
		return "", fmt.Errorf("%w: %d digits, width %d", ErrValueTooWide, len(s), width)
	}
	return strings.Repeat("0", width-len(s)) + s, nil
}

// FromPaddedHex parses text and returns the value with its digit count.
func FromPaddedHex(text string) (*big.Int, int, error) {
	if text == "" {
		return nil, 0, fmt.Errorf("%w: empty", ErrMalformedHex)
	}
	for i := 0; i < len(text); i++ {
		if !isHexDigit(text[i]) {
			return nil, 0, fmt.Errorf("%w: invalid digit %q at %d", ErrMalformedHex, text[i], i)
		}
	}
	v, ok := new(big.Int).SetString(text, 16)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrMalformedHex, text)
	}
	return v, len(text), nil
}

// WordCount inverts CanonicalWidth for a given bit width. With fewer than
// four bits per word several word counts can share one width; that case is
// reported as ErrAmbiguousWidth rather than guessed.
func WordCount(digits, bitWidth int) (int, error) {
	if digits < 1 || bitWidth < 1 {
		return 0, fmt.Errorf("%w: %d digits at %d bits per word", ErrNonCanonicalWidth, digits, bitWidth)
	}

	found := 0
	count := 0
	for w := (digits*4 - 3 + bitWidth - 1) / bitWidth; w*bitWidth <= digits*4; w++ {
		if w < 1 || CanonicalWidth(w, bitWidth) != digits {
			continue
		}
		found = w
		count++
	}

	switch count {
	case 0:
		return 0, fmt.Errorf("%w: %d digits at %d bits per word", ErrNonCanonicalWidth, digits, bitWidth)
	case 1:
		return found, nil
	default:
		return 0, fmt.Errorf("%w: %d digits at %d bits per word", ErrAmbiguousWidth, digits, bitWidth)
	}
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
