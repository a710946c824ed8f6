package ntru

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func hashParams(t *testing.T, kind HashKind) Params {
	t.Helper()
	lit := ParamsLiteral{N: 256, Q: 2048, D: 77, Alpha: 3, Sigma: 64, Eta: 1.3, NormBound: 400, Hash: kind}
	par, err := NewParams(lit)
	if err != nil {
		t.Fatal(err)
	}
	return par
}

func TestHashToPolyDeterministic(t *testing.T) {
	for _, kind := range []HashKind{HashSHAKE256, HashBLAKE3} {
		par := hashParams(t, kind)
		z := randCanonical(par, NewRNG(12))
		a, err := HashToPoly(par, z, []byte("test"))
		if err != nil {
			t.Fatal(err)
		}
		b, err := HashToPoly(par, z.Clone(), []byte("test"))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(a, b); diff != "" {
			t.Fatalf("%s: non deterministic:\n%s", kind, diff)
		}
		for i, c := range a.Small {
			if c < -int64(par.Alpha) || c > int64(par.Alpha) {
				t.Fatalf("%s: small[%d]=%d out of range", kind, i, c)
			}
			if a.Canonical[i] != par.ReduceQ(c) {
				t.Fatalf("%s: canonical[%d] inconsistent", kind, i)
			}
		}
	}
}

func TestHashToPolySensitivity(t *testing.T) {
	par := hashParams(t, HashSHAKE256)
	z := randCanonical(par, NewRNG(13))
	base, _ := HashToPoly(par, z, []byte("test"))

	other, _ := HashToPoly(par, z, []byte("tesu"))
	if base.Canonical.Equal(other.Canonical) {
		t.Fatalf("message change did not change the challenge")
	}

	z2 := z.Clone()
	z2[17] = par.ReduceQ(z2[17] + 1)
	other, _ = HashToPoly(par, z2, []byte("test"))
	if base.Canonical.Equal(other.Canonical) {
		t.Fatalf("z change did not change the challenge")
	}

	// z is absorbed in canonical form.
	z3 := z.Clone()
	z3[0] -= par.Q
	other, _ = HashToPoly(par, z3, []byte("test"))
	if !base.Canonical.Equal(other.Canonical) {
		t.Fatalf("congruent z gave a different challenge")
	}

	b3 := hashParams(t, HashBLAKE3)
	other, _ = HashToPoly(b3, z, []byte("test"))
	if base.Canonical.Equal(other.Canonical) {
		t.Fatalf("shake256 and blake3 agree")
	}
}

func TestHashToPolyEmptyMessage(t *testing.T) {
	par := hashParams(t, HashSHAKE256)
	z := NewPoly(par.N)
	a, err := HashToPoly(par, z, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashToPoly(par, z, []byte{})
	if !a.Canonical.Equal(b.Canonical) {
		t.Fatalf("nil and empty message differ")
	}
}

func TestHashToPolyAlphaZero(t *testing.T) {
	par, err := NewParams(ParamsLiteral{N: 8, Q: 64, D: 4, Alpha: 0, Sigma: 8, Eta: 2, NormBound: 40})
	if err != nil {
		t.Fatal(err)
	}
	c, err := HashToPoly(par, NewPoly(8), []byte("x"))
	if err != nil {
		t.Fatal(err)
	}
	if !c.Canonical.Equal(NewPoly(8)) {
		t.Fatalf("ALPHA=0 must give the zero challenge, got %v", c.Canonical)
	}
}

func TestHashToPolyWrongSize(t *testing.T) {
	par := toyParams(t)
	if _, err := HashToPoly(par, NewPoly(7), nil); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("got %v", err)
	}
}
