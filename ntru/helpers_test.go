package ntru

import "testing"

func testParams(t *testing.T, n int, q int64, d int) Params {
	t.Helper()
	par, err := NewParams(ParamsLiteral{
		N:         n,
		Q:         q,
		D:         d,
		Alpha:     3,
		Sigma:     8,
		Eta:       2.0,
		NormBound: 40,
	})
	if err != nil {
		t.Fatalf("NewParams(N=%d,Q=%d,D=%d): %v", n, q, d, err)
	}
	return par
}

func toyParams(t *testing.T) Params {
	t.Helper()
	par, err := ToyParams()
	if err != nil {
		t.Fatalf("ToyParams: %v", err)
	}
	return par
}

func randCanonical(par Params, rng RandomSource) Poly {
	p := NewPoly(par.N)
	for i := range p {
		p[i] = int64(Intn(rng, int(par.Q)))
	}
	return p
}

func one(n int) Poly {
	p := NewPoly(n)
	p[0] = 1
	return p
}

// constSource always returns the same word.
type constSource uint32

func (c constSource) Uint32() uint32 { return uint32(c) }
