package ntru

import (
	"fmt"
	"math"
	"os"
)

// Signature is the published triple (x1, x2, e) in canonical form. It only
// has meaning together with the signed message and the issuing public key.
type Signature struct {
	X1 Poly
	X2 Poly
	E  Poly
}

// SignOpts customises SignWithOpts. The zero value uses SampleGaussInt.
type SignOpts struct {
	Sampler GaussianSampler
}

// SignStats reports how a signature was obtained.
type SignStats struct {
	Attempts         int
	BabaiRejects     int
	AcceptRejects    int
	NormRejects      int
	AcceptProbLatest float64
}

// SignOnce performs Babai rounding of the challenge m against the private
// basis {F, G}. It returns the integer vector s and reports false when
// ||s||^2 + NU^2*||t||^2 exceeds NORM_BOUND^2, t = center(s*H - m).
func SignOnce(par Params, sk PrivateKey, m Poly) (Poly, bool) {
	fI := par.CenterPoly(sk.F)
	gI := par.CenterPoly(sk.G)
	mI := par.CenterPoly(m)

	// x = -m*g/Q, y = m*f/Q
	x := convolve(mI, gI)
	for i := range x {
		x[i] = -x[i]
	}
	kx := RoundQuotient(x, par.Q)
	ky := RoundQuotient(convolve(mI, fI), par.Q)

	s := convolve(kx, fI)
	sg := convolve(ky, gI)
	for i := range s {
		s[i] += sg[i]
	}

	t := residual(par, s, sk.H, m)
	norm2 := float64(s.NormSquared()) + par.Nu*par.Nu*float64(t.NormSquared())
	return s, norm2 <= par.NormBound*par.NormBound
}

// residual returns center(s*H - m) for integer s and canonical m.
func residual(par Params, s, h, m Poly) Poly {
	sh := par.Mul(par.ReducePoly(s), h)
	t := NewPoly(par.N)
	for i := range t {
		t[i] = par.Center(sh[i] - m[i])
	}
	return t
}

// Sign produces a signature of msg with the default Gaussian sampler.
func Sign(par Params, sk PrivateKey, pk PublicKey, msg []byte, rng RandomSource) (Signature, error) {
	sig, _, err := SignWithOpts(par, sk, pk, msg, rng, SignOpts{})
	return sig, err
}

// SignWithOpts runs the rejection-sampling loop: mask y ~ D_sigma^2N, bind
// the challenge e to z = y2 - H*y1 and msg, reduce e with SignOnce, then
// accept the candidate x = y + v, v = (-s, -t - e), with probability
// min(1, exp((<x,v> - ||v||^2/2)/SIGMA^2) / MACC) and only if ||x|| is
// within SignatureBound. Exhausting par.MaxSignAttempts yields
// ErrSignFailure.
func SignWithOpts(par Params, sk PrivateKey, pk PublicKey, msg []byte, rng RandomSource, opts SignOpts) (Signature, SignStats, error) {
	var st SignStats
	if err := checkSigningKeys(par, sk, pk); err != nil {
		return Signature{}, st, err
	}
	sample := opts.Sampler
	if sample == nil {
		sample = SampleGaussInt
	}
	sigma2 := par.Sigma * par.Sigma
	bound := par.SignatureBound()

	for st.Attempts < par.MaxSignAttempts {
		st.Attempts++

		y1I, y1 := SampleGaussPoly(par, rng, sample)
		y2I, y2 := SampleGaussPoly(par, rng, sample)

		z := par.Sub(y2, par.Mul(pk.H, y1))
		e, err := HashToPoly(par, z, msg)
		if err != nil {
			return Signature{}, st, err
		}

		s, ok := SignOnce(par, sk, e.Canonical)
		if !ok {
			st.BabaiRejects++
			continue
		}
		t := residual(par, s, pk.H, e.Canonical)

		x1 := NewPoly(par.N)
		x2 := NewPoly(par.N)
		var dot, v2, xnorm2 int64
		for i := 0; i < par.N; i++ {
			x1[i] = par.ReduceQ(y1I[i] - s[i])
			x2[i] = par.ReduceQ(y2I[i] - t[i] - e.Small[i])

			xv1, xv2 := par.Center(x1[i]), par.Center(x2[i])
			vv1, vv2 := -s[i], -t[i]-e.Small[i]
			dot += xv1*vv1 + xv2*vv2
			v2 += vv1*vv1 + vv2*vv2
			xnorm2 += xv1*xv1 + xv2*xv2
		}

		p := acceptProbability(float64(dot), float64(v2), sigma2, par.MACC())
		st.AcceptProbLatest = p
		if !accepts(Float64(rng), p) {
			st.AcceptRejects++
			continue
		}
		if math.Sqrt(float64(xnorm2)) > bound {
			st.NormRejects++
			continue
		}

		dbg(os.Stderr, "[Sign] accepted after %d attempts (babai=%d accept=%d norm=%d)\n",
			st.Attempts, st.BabaiRejects, st.AcceptRejects, st.NormRejects)
		return Signature{X1: x1, X2: x2, E: e.Canonical}, st, nil
	}
	return Signature{}, st, fmt.Errorf("%w: %d attempts", ErrSignFailure, st.Attempts)
}

// acceptProbability evaluates exp((dot - v2/2)/sigma2)/macc with the
// exponent clamped to [-700, 700] and the result clamped to [0, 1];
// non-finite values count as 0.
func acceptProbability(dot, v2, sigma2, macc float64) float64 {
	exponent := (dot - 0.5*v2) / sigma2
	if exponent > 700 {
		exponent = 700
	}
	if exponent < -700 {
		exponent = -700
	}
	p := math.Exp(exponent) / macc
	if p > 1 {
		p = 1
	}
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		p = 0
	}
	return p
}

// accepts keeps a candidate unless the uniform draw u exceeds p.
func accepts(u, p float64) bool { return u <= p }

func checkSigningKeys(par Params, sk PrivateKey, pk PublicKey) error {
	if !par.Valid() {
		return fmt.Errorf("%w: parameters were not built with NewParams", ErrInvalidParams)
	}
	for name, p := range map[string]Poly{"F": sk.F, "G": sk.G, "private H": sk.H, "public H": pk.H} {
		if len(p) != par.N {
			return fmt.Errorf("%w: %s has %d coefficients, want %d", ErrInvalidParams, name, len(p), par.N)
		}
	}
	if !par.ReducePoly(sk.H).Equal(par.ReducePoly(pk.H)) {
		return fmt.Errorf("%w: public key does not belong to the private key", ErrInvalidParams)
	}
	return nil
}
