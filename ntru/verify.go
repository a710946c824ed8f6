package ntru

import (
	"fmt"
	"math"
)

// CheckPublicKey verifies h = g * f^{-1} (mod q) by testing f*h == g (mod q).
func CheckPublicKey(par Params, f, g, h Poly) bool {
	if len(f) != par.N || len(g) != par.N || len(h) != par.N {
		return false
	}
	return par.Mul(par.ReducePoly(f), par.ReducePoly(h)).Equal(par.ReducePoly(g))
}

// CheckSignature recomputes the challenge from z = x2 - H*x1 and msg and
// checks it against sig.E, then checks the l2 norm of the centered (x1, x2)
// against SignatureBound. Hostile input only ever produces an error.
func CheckSignature(par Params, pk PublicKey, msg []byte, sig Signature) error {
	if !par.Valid() {
		return fmt.Errorf("%w: parameters were not built with NewParams", ErrInvalidParams)
	}
	if len(pk.H) != par.N {
		return fmt.Errorf("%w: public key has %d coefficients, want %d", ErrInvalidParams, len(pk.H), par.N)
	}
	for name, p := range map[string]Poly{"x1": sig.X1, "x2": sig.X2, "e": sig.E} {
		if len(p) != par.N {
			return fmt.Errorf("%w: %s has %d coefficients, want %d", ErrMalformedSignature, name, len(p), par.N)
		}
		for i, c := range p {
			if c < 0 || c >= par.Q {
				return fmt.Errorf("%w: %s[%d]=%d is not canonical", ErrMalformedSignature, name, i, c)
			}
		}
	}

	hx1 := par.Mul(par.ReducePoly(pk.H), sig.X1)
	z := par.Sub(sig.X2, hx1)
	e, err := HashToPoly(par, z, msg)
	if err != nil {
		return err
	}
	if !e.Canonical.Equal(sig.E) {
		return ErrChallengeMismatch
	}

	var xnorm2 int64
	for i := 0; i < par.N; i++ {
		a, b := par.Center(sig.X1[i]), par.Center(sig.X2[i])
		xnorm2 += a*a + b*b
	}
	if math.Sqrt(float64(xnorm2)) > par.SignatureBound() {
		return ErrNormBound
	}
	return nil
}

// Verify reports whether sig is a valid signature of msg under pk.
func Verify(par Params, pk PublicKey, msg []byte, sig Signature) bool {
	return CheckSignature(par, pk, msg, sig) == nil
}
