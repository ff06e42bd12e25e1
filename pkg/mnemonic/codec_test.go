package mnemonic

import (
	"errors"
	"math/big"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Klingon-tech/mnemonic-sharder/pkg/wordlist"
)

func smallCodec(t *testing.T) *Codec {
	t.Helper()
	wl, err := wordlist.New([]string{"abandon", "ability", "able", "about"})
	if err != nil {
		t.Fatalf("wordlist.New() error: %v", err)
	}
	return NewCodec(wl)
}

// naiveDecode is the magnitude-only decoding loop that drops leading
// index-0 words. Kept here to pin down why Decode takes a word count.
func naiveDecode(c *Codec, s *big.Int) []string {
	var words []string
	rest := new(big.Int).Set(s)
	idx := new(big.Int)
	for rest.Sign() > 0 {
		idx.And(rest, c.mask)
		w, _ := c.wl.WordAt(int(idx.Int64()))
		words = append([]string{w}, words...)
		rest.Rsh(rest, uint(c.bitWidth))
	}
	return words
}

func TestEncode_Scenario(t *testing.T) {
	c := smallCodec(t)

	got, err := c.Encode([]string{"about", "ability"})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if got.Int64() != 13 {
		t.Errorf("Encode(about ability) = %d, want 13 (0b1101)", got.Int64())
	}

	words, err := c.Decode(got, 2)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff([]string{"about", "ability"}, words); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_LeadingZeroWord(t *testing.T) {
	c := smallCodec(t)
	m := []string{"abandon", "about"}

	secret, err := c.Encode(m)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if secret.Int64() != 3 {
		t.Fatalf("Encode(abandon about) = %d, want 3", secret.Int64())
	}

	if naive := naiveDecode(c, secret); len(naive) != 1 {
		t.Fatalf("magnitude-only decode gave %v, expected it to lose the leading word", naive)
	}

	words, err := c.Decode(secret, 2)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(m, words); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_AllZero(t *testing.T) {
	c := smallCodec(t)

	words, err := c.Decode(new(big.Int), 3)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff([]string{"abandon", "abandon", "abandon"}, words); diff != "" {
		t.Errorf("Decode(0, 3) mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_English(t *testing.T) {
	c := NewCodec(wordlist.English())
	r := rand.New(rand.NewPCG(1, 2))
	all := wordlist.English().Words()

	for _, n := range []int{1, 2, 12, 15, 18, 24, 48} {
		for trial := 0; trial < 20; trial++ {
			m := make([]string, n)
			for i := range m {
				m[i] = all[r.IntN(len(all))]
			}
			// Force leading index-0 words on some trials.
			if trial%3 == 0 {
				m[0] = "abandon"
				if n > 1 {
					m[1] = "abandon"
				}
			}

			secret, err := c.Encode(m)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if secret.BitLen() > c.SecretBits(n) {
				t.Fatalf("secret has %d bits, want <= %d", secret.BitLen(), c.SecretBits(n))
			}
			got, err := c.Decode(secret, n)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if diff := cmp.Diff(m, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		}
	}
}

func TestEncode_WordNotFound(t *testing.T) {
	c := smallCodec(t)

	_, err := c.Encode([]string{"about", "zebra", "able"})
	if !errors.Is(err, wordlist.ErrWordNotFound) {
		t.Fatalf("Encode() error = %v, want ErrWordNotFound", err)
	}
	if !strings.Contains(err.Error(), "zebra") || !strings.Contains(err.Error(), "word 2") {
		t.Errorf("error %q should name the word and its position", err)
	}
}

func TestEncode_Empty(t *testing.T) {
	c := smallCodec(t)
	if _, err := c.Encode(nil); !errors.Is(err, ErrEmptyMnemonic) {
		t.Errorf("Encode(nil) error = %v, want ErrEmptyMnemonic", err)
	}
}

func TestDecode_Errors(t *testing.T) {
	c := smallCodec(t)

	tests := []struct {
		name   string
		secret *big.Int
		count  int
		want   error
	}{
		{"zero words", big.NewInt(1), 0, ErrInvalidWordCount},
		{"negative count", big.NewInt(1), -2, ErrInvalidWordCount},
		{"negative secret", big.NewInt(-1), 2, ErrNegativeSecret},
		{"too wide", big.NewInt(16), 2, ErrSecretTooWide},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Decode(tt.secret, tt.count); !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewCodecWithBitWidth(t *testing.T) {
	wl, _ := wordlist.New([]string{"abandon", "ability", "able", "about"})

	if _, err := NewCodecWithBitWidth(wl, 1); !errors.Is(err, ErrInvalidBitWidth) {
		t.Errorf("NewCodecWithBitWidth(1) error = %v, want ErrInvalidBitWidth", err)
	}

	c, err := NewCodecWithBitWidth(wl, 4)
	if err != nil {
		t.Fatalf("NewCodecWithBitWidth(4) error: %v", err)
	}
	m := []string{"about", "abandon", "ability"}
	secret, err := c.Encode(m)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if secret.Int64() != 0x301 {
		t.Errorf("Encode() = %#x, want 0x301", secret.Int64())
	}
	got, err := c.Decode(secret, 3)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	// 0b0111 extracts index 7 from a 4-word list.
	if _, err := c.Decode(big.NewInt(7), 1); !errors.Is(err, wordlist.ErrIndexOutOfRange) {
		t.Errorf("Decode(7) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestDecode_DoesNotMutateSecret(t *testing.T) {
	c := smallCodec(t)
	secret := big.NewInt(13)
	if _, err := c.Decode(secret, 2); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if secret.Int64() != 13 {
		t.Errorf("secret mutated to %d", secret.Int64())
	}
}
