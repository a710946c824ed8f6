package ntru

import (
	"fmt"
	"os"
)

// PrivateKey is the signer's trapdoor (F, G) in canonical form together with
// the public H it induces. Keep it scoped to the signer.
type PrivateKey struct {
	F Poly
	G Poly
	H Poly
}

// PublicKey is H = G * F^{-1} mod Q in canonical form.
type PublicKey struct {
	H Poly
}

// KeyPair bundles the two halves produced by GenerateKeyPair. Regenerating
// keys replaces the whole value.
type KeyPair struct {
	Private PrivateKey
	Public  PublicKey
}

// TernaryWeights returns the number of +1 and -1 coefficients of a trapdoor
// polynomial of nominal weight d: floor(d/2) positive and the rest negative.
// An even d would split evenly; instead of moving one +1 over to the -1
// side, which keeps weight d, one extra -1 is added, so an even d yields
// d+1 nonzero coefficients. The total weight is then always odd, which is
// required for f to be a unit mod 2 since X + 1 divides X^N - 1 over GF(2).
func TernaryWeights(d int) (plus, minus int) {
	plus = d / 2
	minus = d - plus
	if plus == minus {
		minus++
	}
	return plus, minus
}

// SampleTernary draws a ternary polynomial in canonical form (entries
// 0, 1, Q-1) with the weights of TernaryWeights(par.D), placing them with a
// Fisher-Yates shuffle of the index positions.
func SampleTernary(par Params, rng RandomSource) Poly {
	idx := make([]int, par.N)
	for i := range idx {
		idx[i] = i
	}
	for i := par.N - 1; i > 0; i-- {
		j := Intn(rng, i+1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	plus, minus := TernaryWeights(par.D)
	a := NewPoly(par.N)
	for _, k := range idx[:plus] {
		a[k] = 1
	}
	for _, k := range idx[plus : plus+minus] {
		a[k] = par.Q - 1
	}
	return a
}

// GenerateKeyPair samples (F, G) until F is invertible mod 2, lifts the
// inverse to Q and sets H = F^{-1} * G. It fails with ErrKeygenFailure after
// par.MaxKeygenAttempts tries.
func GenerateKeyPair(par Params, rng RandomSource) (KeyPair, error) {
	if !par.Valid() {
		return KeyPair{}, fmt.Errorf("%w: parameters were not built with NewParams", ErrInvalidParams)
	}
	for attempt := 1; attempt <= par.MaxKeygenAttempts; attempt++ {
		f := SampleTernary(par, rng)
		g := SampleTernary(par, rng)
		inv2, ok := InvertMod2(f)
		if !ok {
			dbg(os.Stderr, "[Keygen] attempt %d: f singular mod 2\n", attempt)
			continue
		}
		fInv, err := HenselLift(par, f, inv2)
		if err != nil {
			return KeyPair{}, err
		}
		h := par.Mul(fInv, g)
		dbg(os.Stderr, "[Keygen] done after %d attempts\n", attempt)
		return KeyPair{
			Private: PrivateKey{F: f, G: g, H: h},
			Public:  PublicKey{H: h.Clone()},
		}, nil
	}
	return KeyPair{}, fmt.Errorf("%w: no invertible f in %d attempts", ErrKeygenFailure, par.MaxKeygenAttempts)
}
