package ntru

import (
	"math"
	"testing"
)

func TestRoundAwayFromZero(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0.5, 1},
		{-0.5, -1},
		{1.5, 2},
		{-1.5, -2},
		{2.5, 3},
		{-2.5, -3},
		{0.49999, 0},
		{123456789.5, 123456790},
		{-123456789.5, -123456790},
		{1e-308, 0},
		{-1e-308, 0},
	}
	for _, tc := range cases {
		got := RoundAwayFromZero(tc.in)
		if got != tc.want {
			t.Fatalf("round(%f)=%d want %d", tc.in, got, tc.want)
		}
	}
	// randomized around half-integers
	rng := NewRNG(1)
	for i := 0; i < 1000; i++ {
		k := int64(Intn(rng, 1000)) - 500
		v := float64(k) + 0.5 + (Float64(rng)-0.5)*1e-9
		var want int64
		if v >= 0 {
			want = int64(math.Floor(v + 0.5))
		} else {
			want = -int64(math.Floor(-v + 0.5))
		}
		if got := RoundAwayFromZero(v); got != want {
			t.Fatalf("round(%f)=%d want %d", v, got, want)
		}
	}
}

func TestRoundQuotient(t *testing.T) {
	got := RoundQuotient(Poly{32, -32, 31, -31, 96, 0, -97}, 64)
	want := Poly{1, -1, 0, 0, 2, 0, -2}
	if !got.Equal(want) {
		t.Fatalf("RoundQuotient = %v, want %v", got, want)
	}
}
