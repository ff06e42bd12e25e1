package ssss

import (
	"fmt"
	"math/big"
	"sync"
)

var (
	moduliMu sync.Mutex
	moduli   = make(map[int]*big.Int)
)

// fieldFor returns GF(2^degree), finding and caching its modulus on first use.
func fieldFor(degree int) (*field, error) {
	moduliMu.Lock()
	defer moduliMu.Unlock()

	if m, ok := moduli[degree]; ok {
		return newField(degree, m), nil
	}
	m, err := findModulus(degree)
	if err != nil {
		return nil, err
	}
	moduli[degree] = m
	return newField(degree, m), nil
}

// findModulus returns the first irreducible trinomial x^n + x^k + 1 in
// ascending k, or failing that the first irreducible pentanomial
// x^n + x^a + x^b + x^c + 1 in ascending (a, b, c).
func findModulus(n int) (*big.Int, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: degree %d", ErrInvalidSecurityBits, n)
	}
	if n == 1 {
		return big.NewInt(0b11), nil
	}

	for k := 1; k < n; k++ {
		f := sparse(n, k, 0)
		if irreducible(f, n) {
			return f, nil
		}
	}
	for a := 3; a < n; a++ {
		for b := 2; b < a; b++ {
			for c := 1; c < b; c++ {
				f := sparse(n, a, b, c, 0)
				if irreducible(f, n) {
					return f, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("no irreducible trinomial or pentanomial of degree %d", n)
}

func sparse(n int, exps ...int) *big.Int {
	f := new(big.Int).SetBit(new(big.Int), n, 1)
	for _, e := range exps {
		f.SetBit(f, e, 1)
	}
	return f
}

// irreducible applies Ben-Or's test: f of degree n is irreducible iff
// gcd(f, x^(2^i) - x mod f) = 1 for every i in 1..n/2.
func irreducible(f *big.Int, n int) bool {
	if f.Bit(0) == 0 {
		return false
	}
	fl := newField(n, f)
	x := big.NewInt(0b10)
	h := big.NewInt(0b10)
	for i := 1; i <= n/2; i++ {
		h = fl.mul(h, h)
		g := polyGCD(f, new(big.Int).Xor(h, x))
		if g.Cmp(big.NewInt(1)) != 0 {
			return false
		}
	}
	return true
}
