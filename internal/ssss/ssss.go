// Package ssss implements Shamir's threshold secret sharing over GF(2^n).
//
// The field degree n is the secret's width in bits, so every share is
// exactly as wide as the secret. Secrets and shares cross the API as
// fixed-width hex: ceil(n/4) digits, zero-padded.
package ssss

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/Klingon-tech/mnemonic-sharder/internal/log"
	"github.com/Klingon-tech/mnemonic-sharder/pkg/hexwidth"
)

// MaxSecurityBits is the largest supported field degree.
const MaxSecurityBits = 1024

// Engine errors.
var (
	ErrInvalidSecurityBits = errors.New("invalid security bits")
	ErrInvalidParams       = errors.New("invalid threshold parameters")
	ErrWidthMismatch       = errors.New("hex width does not match security bits")
	ErrSecretTooLarge      = errors.New("secret exceeds security bits")
	ErrNotEnoughShares     = errors.New("need at least two shares")
	ErrMalformedShare      = errors.New("malformed share")
	ErrDuplicateIndex      = errors.New("duplicate share index")
	ErrInvalidIndex        = errors.New("invalid share index")
)

// Engine splits and combines secrets. It holds no per-call state and is
// safe for concurrent use as long as its random source is.
type Engine struct {
	rand io.Reader
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom sets the source of polynomial coefficients.
func WithRandom(r io.Reader) Option {
	return func(e *Engine) { e.rand = r }
}

// New creates an engine reading coefficients from crypto/rand by default.
func New(opts ...Option) *Engine {
	e := &Engine{rand: rand.Reader}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HexWidth returns the fixed hex width for a field of the given degree.
func HexWidth(securityBits int) int {
	return (securityBits + 3) / 4
}

// MaxShares returns the largest share count a field of securityBits bits
// supports: share indices are the nonzero field elements, 1..2^bits-1.
func MaxShares(securityBits int) int {
	if securityBits >= 62 {
		return math.MaxInt
	}
	return 1<<securityBits - 1
}

// Split shares secretHex among total holders, any threshold of whom can
// recover it. Share i carries f(i) for i = 1..total.
func (e *Engine) Split(secretHex string, threshold, total, securityBits int) ([]Share, error) {
	if err := checkSecurityBits(securityBits); err != nil {
		return nil, err
	}
	if threshold < 2 || threshold > total {
		return nil, fmt.Errorf("%w: threshold %d, total %d, %d bits",
			ErrInvalidParams, threshold, total, securityBits)
	}
	if !indexFits(total, securityBits) {
		return nil, fmt.Errorf("%w: total %d exceeds %d, the most shares a %d-bit secret allows",
			ErrInvalidParams, total, MaxShares(securityBits), securityBits)
	}
	width := HexWidth(securityBits)
	if len(secretHex) != width {
		return nil, fmt.Errorf("%w: %d digits, want %d", ErrWidthMismatch, len(secretHex), width)
	}
	secret, _, err := hexwidth.FromPaddedHex(secretHex)
	if err != nil {
		return nil, err
	}
	if secret.BitLen() > securityBits {
		return nil, fmt.Errorf("%w: %d bits, field has %d", ErrSecretTooLarge, secret.BitLen(), securityBits)
	}

	fl, err := fieldFor(securityBits)
	if err != nil {
		return nil, err
	}

	coeffs := make([]*big.Int, threshold)
	coeffs[0] = secret
	for i := 1; i < threshold; i++ {
		c, err := e.randomElement(securityBits)
		if err != nil {
			return nil, fmt.Errorf("random coefficient: %w", err)
		}
		coeffs[i] = c
	}

	shares := make([]Share, total)
	for i := 1; i <= total; i++ {
		y := evaluate(fl, coeffs, big.NewInt(int64(i)))
		v, err := hexwidth.ToPaddedHex(y, width)
		if err != nil {
			return nil, err
		}
		shares[i-1] = Share{Index: i, Value: v}
	}

	log.Engine.Debug().
		Int("threshold", threshold).
		Int("total", total).
		Int("bits", securityBits).
		Msg("Secret split")
	return shares, nil
}

// Combine interpolates the shares at zero and returns the secret as
// fixed-width hex. Passing fewer shares than the split threshold yields a
// wrong secret, not an error.
func (e *Engine) Combine(shares []Share, securityBits int) (string, error) {
	if err := checkSecurityBits(securityBits); err != nil {
		return "", err
	}
	if len(shares) < 2 {
		return "", fmt.Errorf("%w: got %d", ErrNotEnoughShares, len(shares))
	}

	width := HexWidth(securityBits)
	xs := make([]*big.Int, len(shares))
	ys := make([]*big.Int, len(shares))
	seen := make(map[int]bool, len(shares))
	for i, s := range shares {
		if s.Index < 1 || !indexFits(s.Index, securityBits) {
			return "", fmt.Errorf("%w: %d", ErrInvalidIndex, s.Index)
		}
		if seen[s.Index] {
			return "", fmt.Errorf("%w: %d", ErrDuplicateIndex, s.Index)
		}
		seen[s.Index] = true

		if len(s.Value) != width {
			return "", fmt.Errorf("%w: share %d has %d digits, want %d",
				ErrMalformedShare, s.Index, len(s.Value), width)
		}
		y, _, err := hexwidth.FromPaddedHex(s.Value)
		if err != nil {
			return "", fmt.Errorf("%w: share %d: %w", ErrMalformedShare, s.Index, err)
		}
		if y.BitLen() > securityBits {
			return "", fmt.Errorf("%w: share %d exceeds %d bits", ErrMalformedShare, s.Index, securityBits)
		}
		xs[i] = big.NewInt(int64(s.Index))
		ys[i] = y
	}

	fl, err := fieldFor(securityBits)
	if err != nil {
		return "", err
	}
	secret, err := interpolateZero(fl, xs, ys)
	if err != nil {
		return "", err
	}

	log.Engine.Debug().Int("shares", len(shares)).Int("bits", securityBits).Msg("Shares combined")
	return hexwidth.ToPaddedHex(secret, width)
}

// randomElement draws a uniform element of GF(2^bits).
func (e *Engine) randomElement(bits int) (*big.Int, error) {
	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(e.rand, buf); err != nil {
		return nil, err
	}
	if extra := len(buf)*8 - bits; extra > 0 {
		buf[0] &= byte(0xff >> extra)
	}
	return new(big.Int).SetBytes(buf), nil
}

// evaluate computes f(x) by Horner's rule; coeffs[0] is the constant term.
func evaluate(fl *field, coeffs []*big.Int, x *big.Int) *big.Int {
	y := new(big.Int)
	for i := len(coeffs) - 1; i >= 0; i-- {
		y = fl.add(fl.mul(y, x), coeffs[i])
	}
	return y
}

// interpolateZero returns f(0) for the polynomial through (xs[j], ys[j]).
// In characteristic 2, subtraction is addition, so each Lagrange basis
// value at zero is the product of x_m / (x_m + x_j) over m != j.
func interpolateZero(fl *field, xs, ys []*big.Int) (*big.Int, error) {
	sum := new(big.Int)
	for j := range xs {
		num := big.NewInt(1)
		den := big.NewInt(1)
		for m := range xs {
			if m == j {
				continue
			}
			num = fl.mul(num, xs[m])
			den = fl.mul(den, fl.add(xs[m], xs[j]))
		}
		inv, err := fl.inv(den)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDuplicateIndex, err)
		}
		sum = fl.add(sum, fl.mul(ys[j], fl.mul(num, inv)))
	}
	return sum, nil
}

func checkSecurityBits(bits int) error {
	if bits < 1 || bits > MaxSecurityBits {
		return fmt.Errorf("%w: %d, want 1..%d", ErrInvalidSecurityBits, bits, MaxSecurityBits)
	}
	return nil
}

// indexFits reports whether index is below 2^bits, i.e. a field element.
func indexFits(index, bits int) bool {
	if bits >= 62 {
		return true
	}
	return int64(index) < int64(1)<<bits
}
