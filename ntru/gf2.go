package ntru

// GF2Poly is a polynomial over GF(2) held in a fixed-capacity coefficient
// buffer with an explicitly tracked degree. The degree of the zero
// polynomial is -1. Operations never grow the buffer; callers size it for
// the largest degree they will produce.
type GF2Poly struct {
	c   []uint8
	deg int
}

// NewGF2Poly allocates the zero polynomial with room for degrees < capacity.
func NewGF2Poly(capacity int) GF2Poly {
	return GF2Poly{c: make([]uint8, capacity), deg: -1}
}

// GF2FromBits builds a polynomial from 0/1 coefficients, lowest degree first.
func GF2FromBits(bits []uint8, capacity int) GF2Poly {
	p := NewGF2Poly(capacity)
	for i, b := range bits {
		p.c[i] = b & 1
	}
	p.trim(len(bits) - 1)
	return p
}

// Deg returns the degree, or -1 for the zero polynomial.
func (p GF2Poly) Deg() int { return p.deg }

// Coeff returns the coefficient of X^i.
func (p GF2Poly) Coeff(i int) uint8 {
	if i < 0 || i > p.deg {
		return 0
	}
	return p.c[i]
}

// Bits returns the coefficients up to the degree.
func (p GF2Poly) Bits() []uint8 {
	return append([]uint8(nil), p.c[:p.deg+1]...)
}

func (p *GF2Poly) trim(from int) {
	if from >= len(p.c) {
		from = len(p.c) - 1
	}
	for from >= 0 && p.c[from] == 0 {
		from--
	}
	p.deg = from
}

func (p *GF2Poly) reset() {
	clear(p.c)
	p.deg = -1
}

func (p *GF2Poly) set(src GF2Poly) {
	clear(p.c)
	copy(p.c, src.c[:src.deg+1])
	p.deg = src.deg
}

// DivGF2 performs schoolbook long division a = q*b + r over GF(2). When b is
// zero the quotient is zero and a is returned unchanged as the remainder.
func DivGF2(a, b GF2Poly) (q, r GF2Poly) {
	capacity := len(a.c)
	if len(b.c) > capacity {
		capacity = len(b.c)
	}
	q = NewGF2Poly(capacity)
	r = NewGF2Poly(capacity)
	divInto(&q, &r, a, b)
	return q, r
}

// divInto writes the quotient and remainder of a/b into q and r without
// allocating. r must not alias a or b.
func divInto(q, r *GF2Poly, a, b GF2Poly) {
	r.set(a)
	q.reset()
	if b.deg < 0 {
		return
	}
	for r.deg >= b.deg {
		s := r.deg - b.deg
		q.c[s] = 1
		if s > q.deg {
			q.deg = s
		}
		for j := 0; j <= b.deg; j++ {
			r.c[j+s] ^= b.c[j]
		}
		r.trim(r.deg)
	}
}

// mulAddInto computes dst += x*y over GF(2).
func mulAddInto(dst *GF2Poly, x, y GF2Poly) {
	if x.deg < 0 || y.deg < 0 {
		return
	}
	for i := 0; i <= x.deg; i++ {
		if x.c[i] == 0 {
			continue
		}
		for j := 0; j <= y.deg; j++ {
			dst.c[i+j] ^= y.c[j]
		}
	}
	top := x.deg + y.deg
	if dst.deg > top {
		top = dst.deg
	}
	dst.trim(top)
}

// InvertMod2 computes the inverse of f mod 2 modulo X^N + 1 with the
// extended Euclidean algorithm, N = len(f). It returns false when
// gcd(f mod 2, X^N + 1) != 1.
//
// Over GF(2) the polynomials X^N + 1 and X^N - 1 coincide, so the result is
// also the inverse of f mod 2 in the cyclic ring used everywhere else.
func InvertMod2(f Poly) (Poly, bool) {
	n := len(f)
	if n == 0 {
		return nil, false
	}
	capacity := 2*n + 2

	modulus := NewGF2Poly(capacity)
	modulus.c[0], modulus.c[n] = 1, 1
	modulus.deg = n

	// Invariant: a = ua*P + va*F and b = ub*P + vb*F; only the F cofactors
	// are tracked.
	a := NewGF2Poly(capacity)
	a.set(modulus)
	b := NewGF2Poly(capacity)
	for i, c := range f {
		b.c[i] = uint8(c & 1)
	}
	b.trim(n - 1)
	va := NewGF2Poly(capacity)
	vb := NewGF2Poly(capacity)
	vb.c[0], vb.deg = 1, 0

	q := NewGF2Poly(capacity)
	r := NewGF2Poly(capacity)
	for b.deg >= 0 {
		divInto(&q, &r, a, b)
		mulAddInto(&va, q, vb)
		va, vb = vb, va
		a, b, r = b, r, a
	}
	if a.deg != 0 {
		return nil, false
	}

	divInto(&q, &r, va, modulus)
	inv := NewPoly(n)
	for i := 0; i <= r.deg; i++ {
		inv[i] = int64(r.c[i])
	}
	return inv, true
}
