package ntru

import (
	"fmt"
	"os"
)

// HenselLift lifts inv2, an inverse of f modulo 2, to an inverse of f
// modulo Q by Newton iteration. Each step doubles the working modulus M:
// with t = f*inv (mod 2M), inv <- inv*(2 - t) (mod 2M), where 2 - t is the
// ring element, so only the constant coefficient gains the 2. Q must be a
// power of two.
func HenselLift(par Params, f, inv2 Poly) (Poly, error) {
	if !isPow2(par.Q) || par.Q < 2 {
		return nil, fmt.Errorf("%w: Hensel lift needs a power-of-two Q, got %d", ErrInvalidParams, par.Q)
	}
	if len(f) != par.N || len(inv2) != par.N {
		return nil, fmt.Errorf("%w: lift operands must have N=%d coefficients", ErrInvalidParams, par.N)
	}
	inv := make(Poly, par.N)
	for i, c := range inv2 {
		inv[i] = c & 1
	}
	corr := make(Poly, par.N)
	steps := 0
	for m := int64(2); m < par.Q; m <<= 1 {
		next := m << 1
		t := MulMaskedPow2(f, inv, next)
		corr[0] = (2 - t[0]) & (next - 1)
		for i := 1; i < len(corr); i++ {
			corr[i] = -t[i] & (next - 1)
		}
		inv = MulMaskedPow2(inv, corr, next)
		steps++
	}
	dbg(os.Stderr, "[Inv] HenselLift Q=%d steps=%d\n", par.Q, steps)
	for i := range inv {
		inv[i] &= par.Q - 1
	}
	return inv, nil
}

// InvertModQ returns the inverse of f in Z_Q[X]/(X^N - 1) if f is
// invertible modulo 2.
func InvertModQ(par Params, f Poly) (Poly, bool) {
	inv2, ok := InvertMod2(f)
	if !ok {
		return nil, false
	}
	inv, err := HenselLift(par, par.ReducePoly(f), inv2)
	if err != nil {
		return nil, false
	}
	return inv, true
}

// IsUnitModQ reports whether f is invertible in R_q. With Q a power of two
// that holds exactly when f is invertible modulo 2.
func IsUnitModQ(par Params, f Poly) bool {
	_, ok := InvertMod2(f)
	return ok
}
