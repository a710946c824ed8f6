package ntru

import (
	"fmt"
	"os"
)

// PublicKeyH computes h = g * f^{-1} (mod q) in R_q.
func PublicKeyH(par Params, f, g Poly) (Poly, error) {
	dbg(os.Stderr, "[H] PublicKeyH begin N=%d Q=%d\n", par.N, par.Q)
	fInv, ok := InvertModQ(par, f)
	if !ok {
		return nil, fmt.Errorf("%w: f is not invertible in R_q", ErrKeygenFailure)
	}
	h := par.Mul(fInv, par.ReducePoly(g))
	dbg(os.Stderr, "[H] PublicKeyH done\n")
	return h, nil
}
