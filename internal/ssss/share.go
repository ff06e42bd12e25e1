package ssss

import (
	"fmt"
	"strconv"
	"strings"
)

// Share is one point of the sharing polynomial: its index and the value
// there as fixed-width hex.
type Share struct {
	Index int
	Value string
}

// String returns the share in "index-hex" form.
func (s Share) String() string {
	return strconv.Itoa(s.Index) + "-" + s.Value
}

// ParseShare parses the "index-hex" form produced by String.
func ParseShare(text string) (Share, error) {
	idx, value, ok := strings.Cut(strings.TrimSpace(text), "-")
	if !ok || value == "" {
		return Share{}, fmt.Errorf("%w: %q", ErrMalformedShare, text)
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 1 {
		return Share{}, fmt.Errorf("%w: bad index in %q", ErrMalformedShare, text)
	}
	return Share{Index: i, Value: value}, nil
}
