package ssss

import (
	"errors"
	"math/big"
)

var errZeroInverse = errors.New("zero has no inverse")

// Polynomials over GF(2) are held in big.Int values, bit i being the
// coefficient of x^i.

// field is GF(2^n) as GF(2)[x] modulo an irreducible polynomial of degree n.
type field struct {
	degree  int
	modulus *big.Int
}

func newField(degree int, modulus *big.Int) *field {
	return &field{degree: degree, modulus: modulus}
}

// contains reports whether v is a field element (0 <= v < 2^n).
func (f *field) contains(v *big.Int) bool {
	return v.Sign() >= 0 && v.BitLen() <= f.degree
}

func (f *field) add(a, b *big.Int) *big.Int {
	return new(big.Int).Xor(a, b)
}

// mul multiplies two reduced elements, reducing as it goes.
func (f *field) mul(a, b *big.Int) *big.Int {
	acc := new(big.Int)
	for i := b.BitLen() - 1; i >= 0; i-- {
		acc.Lsh(acc, 1)
		if acc.Bit(f.degree) == 1 {
			acc.Xor(acc, f.modulus)
		}
		if b.Bit(i) == 1 {
			acc.Xor(acc, a)
		}
	}
	return acc
}

// inv returns a^-1 using the extended Euclidean algorithm in GF(2)[x].
func (f *field) inv(a *big.Int) (*big.Int, error) {
	if a.Sign() == 0 {
		return nil, errZeroInverse
	}
	r0, r1 := new(big.Int).Set(f.modulus), new(big.Int).Set(a)
	t0, t1 := new(big.Int), big.NewInt(1)
	for r1.Sign() != 0 {
		q, r := polyDivMod(r0, r1)
		r0, r1 = r1, r
		t0, t1 = t1, new(big.Int).Xor(t0, polyMul(q, t1))
	}
	// r0 is the gcd; it is 1 because the modulus is irreducible.
	return polyMod(t0, f.modulus), nil
}

// polyMul is carry-less multiplication without reduction.
func polyMul(a, b *big.Int) *big.Int {
	acc := new(big.Int)
	shifted := new(big.Int)
	for i := 0; i < b.BitLen(); i++ {
		if b.Bit(i) == 1 {
			acc.Xor(acc, shifted.Lsh(a, uint(i)))
		}
	}
	return acc
}

// polyDivMod divides a by b (b != 0) in GF(2)[x].
func polyDivMod(a, b *big.Int) (q, r *big.Int) {
	q = new(big.Int)
	r = new(big.Int).Set(a)
	db := b.BitLen() - 1
	shifted := new(big.Int)
	for r.BitLen()-1 >= db {
		shift := r.BitLen() - 1 - db
		q.SetBit(q, shift, 1)
		r.Xor(r, shifted.Lsh(b, uint(shift)))
	}
	return q, r
}

func polyMod(a, b *big.Int) *big.Int {
	_, r := polyDivMod(a, b)
	return r
}

func polyGCD(a, b *big.Int) *big.Int {
	x, y := new(big.Int).Set(a), new(big.Int).Set(b)
	for y.Sign() != 0 {
		x, y = y, polyMod(x, y)
	}
	return x
}
