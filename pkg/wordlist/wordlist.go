// Package wordlist provides the fixed, power-of-two sized vocabularies that
// mnemonic phrases are drawn from.
package wordlist

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Klingon-tech/mnemonic-sharder/internal/log"
	"github.com/tyler-smith/go-bip39/wordlists"
	"github.com/zeebo/blake3"
)

// Wordlist errors.
var (
	ErrInvalidWordlist = errors.New("invalid wordlist")
	ErrWordNotFound    = errors.New("word not found in wordlist")
	ErrIndexOutOfRange = errors.New("word index out of range")
)

// MinSize is the smallest usable wordlist (one bit per word).
const MinSize = 2

// Wordlist is an immutable ordered alphabet. A word's index is its position.
type Wordlist struct {
	words    []string
	index    map[string]int
	bitWidth int
	digest   [32]byte
}

// New validates words and builds a Wordlist from a copy of them.
func New(words []string) (*Wordlist, error) {
	n := len(words)
	if n < MinSize {
		return nil, fmt.Errorf("%w: need at least %d words, got %d", ErrInvalidWordlist, MinSize, n)
	}
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: length %d must be a power of 2", ErrInvalidWordlist, n)
	}

	wl := &Wordlist{
		words:    make([]string, n),
		index:    make(map[string]int, n),
		bitWidth: bits.Len(uint(n - 1)),
	}
	copy(wl.words, words)

	for i, w := range wl.words {
		if w == "" {
			return nil, fmt.Errorf("%w: word %d is empty", ErrInvalidWordlist, i)
		}
		if prev, ok := wl.index[w]; ok {
			return nil, fmt.Errorf("%w: duplicate word %q at %d and %d", ErrInvalidWordlist, w, prev, i)
		}
		wl.index[w] = i
	}

	wl.digest = blake3.Sum256([]byte(strings.Join(wl.words, "\n")))
	return wl, nil
}

// Read parses one word per line. Surrounding whitespace and blank lines are
// dropped, as is a leading UTF-8 byte order mark.
func Read(r io.Reader) (*Wordlist, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrInvalidWordlist)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var words []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan wordlist: %w", err)
	}
	return New(words)
}

// LoadFile reads a wordlist file.
func LoadFile(path string) (*Wordlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	wl, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Wordlist.Debug().
		Str("path", path).
		Int("words", wl.Len()).
		Str("fingerprint", wl.Short()).
		Msg("Wordlist loaded")
	return wl, nil
}

var (
	englishOnce sync.Once
	english     *Wordlist
)

// English returns the 2048-word BIP-39 English wordlist.
func English() *Wordlist {
	englishOnce.Do(func() {
		wl, err := New(wordlists.English)
		if err != nil {
			panic(fmt.Sprintf("bip39 english wordlist: %v", err))
		}
		english = wl
	})
	return english
}

// Len returns the number of words.
func (wl *Wordlist) Len() int {
	return len(wl.words)
}

// BitWidth returns log2(Len()), the number of bits one word encodes.
func (wl *Wordlist) BitWidth() int {
	return wl.bitWidth
}

// IndexOf returns the position of word.
func (wl *Wordlist) IndexOf(word string) (int, error) {
	i, ok := wl.index[word]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrWordNotFound, word)
	}
	return i, nil
}

// WordAt returns the word at index.
func (wl *Wordlist) WordAt(index int) (string, error) {
	if index < 0 || index >= len(wl.words) {
		return "", fmt.Errorf("%w: %d not in [0, %d]", ErrIndexOutOfRange, index, len(wl.words)-1)
	}
	return wl.words[index], nil
}

// Contains reports whether word is in the list.
func (wl *Wordlist) Contains(word string) bool {
	_, ok := wl.index[word]
	return ok
}

// Words returns a copy of the words in index order.
func (wl *Wordlist) Words() []string {
	out := make([]string, len(wl.words))
	copy(out, wl.words)
	return out
}

// Fingerprint is the hex BLAKE3-256 digest of the newline-joined words.
func (wl *Wordlist) Fingerprint() string {
	return hex.EncodeToString(wl.digest[:])
}

// Short returns the first 8 hex digits of the fingerprint.
func (wl *Wordlist) Short() string {
	return wl.Fingerprint()[:8]
}

// IsEnglish reports whether wl holds exactly the BIP-39 English list.
func (wl *Wordlist) IsEnglish() bool {
	return wl.digest == English().digest
}
