package ntru

import "fmt"

// Poly is an element of Z[X]/(X^N - 1) stored as N coefficients, lowest
// degree first. Depending on context the coefficients are canonical (in
// [0, Q)), centered (in (-Q/2, Q/2]) or plain integers.
type Poly []int64

// NewPoly allocates the zero polynomial of size n.
func NewPoly(n int) Poly { return make(Poly, n) }

// Clone returns a deep copy of p.
func (p Poly) Clone() Poly { return append(Poly(nil), p...) }

// Equal reports whether p and q hold the same coefficients.
func (p Poly) Equal(q Poly) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// NormSquared returns the squared l2 norm of the coefficients as given.
func (p Poly) NormSquared() int64 {
	var s int64
	for _, c := range p {
		s += c * c
	}
	return s
}

// MaxAbs returns the l-infinity norm of the coefficients as given.
func (p Poly) MaxAbs() int64 {
	var m int64
	for _, c := range p {
		if c < 0 {
			c = -c
		}
		if c > m {
			m = c
		}
	}
	return m
}

// ReduceQ maps x into the canonical range [0, Q).
func (p Params) ReduceQ(x int64) int64 {
	x %= p.Q
	if x < 0 {
		x += p.Q
	}
	return x
}

// Center maps a coefficient to its representative in (-Q/2, Q/2].
func (p Params) Center(a int64) int64 {
	v := p.ReduceQ(a)
	if v > p.Q/2 {
		v -= p.Q
	}
	return v
}

// ReducePoly returns the canonical form of a.
func (p Params) ReducePoly(a Poly) Poly {
	out := make(Poly, len(a))
	for i, c := range a {
		out[i] = p.ReduceQ(c)
	}
	return out
}

// CenterPoly returns the centered form of a.
func (p Params) CenterPoly(a Poly) Poly {
	out := make(Poly, len(a))
	for i, c := range a {
		out[i] = p.Center(c)
	}
	return out
}

// Sub returns A - B reduced modulo Q.
func (p Params) Sub(a, b Poly) Poly {
	mustSameSize(a, b)
	out := make(Poly, len(a))
	for i := range a {
		out[i] = p.ReduceQ(a[i] - b[i])
	}
	return out
}

// Mul returns the cyclic convolution A*B mod (X^N - 1, Q). Operands are
// expected in canonical or centered form.
func (p Params) Mul(a, b Poly) Poly {
	acc := convolve(a, b)
	for i, c := range acc {
		acc[i] = p.ReduceQ(c)
	}
	return acc
}

// MulMaskedPow2 returns A*B mod (X^N - 1, m) for m a power of two. The
// accumulator may wrap around in int64; the low bits kept by the mask are
// unaffected.
func MulMaskedPow2(a, b Poly, m int64) Poly {
	if !isPow2(m) {
		panic(fmt.Sprintf("ntru: MulMaskedPow2 modulus %d is not a power of two", m))
	}
	mustSameSize(a, b)
	mask := m - 1
	n := len(a)
	acc := make(Poly, n)
	for i := 0; i < n; i++ {
		ai := a[i] & mask
		if ai == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			bj := b[j] & mask
			if bj == 0 {
				continue
			}
			k := i + j
			if k >= n {
				k -= n
			}
			acc[k] += ai * bj
		}
	}
	for i := range acc {
		acc[i] &= mask
	}
	return acc
}

// convolve is the exact integer cyclic convolution over Z[X]/(X^N - 1).
// Zero coefficients of a are skipped, which makes sparse ternary operands
// cheap.
func convolve(a, b Poly) Poly {
	mustSameSize(a, b)
	n := len(a)
	acc := make(Poly, n)
	for i := 0; i < n; i++ {
		ai := a[i]
		if ai == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if b[j] == 0 {
				continue
			}
			k := i + j
			if k >= n {
				k -= n
			}
			acc[k] += ai * b[j]
		}
	}
	return acc
}

func mustSameSize(a, b Poly) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("ntru: ring size mismatch %d != %d", len(a), len(b)))
	}
}
