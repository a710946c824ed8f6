package ntru

import "math"

// RoundAwayFromZero rounds x to the nearest integer with halves rounded
// away from zero (C llround).
func RoundAwayFromZero(x float64) int64 {
	return int64(math.Round(x))
}

// RoundQuotient returns round(a[i]/q) coefficient-wise, halves away from
// zero. Babai rounding of a target against the private basis uses it.
func RoundQuotient(a Poly, q int64) Poly {
	out := NewPoly(len(a))
	fq := float64(q)
	for i, v := range a {
		out[i] = RoundAwayFromZero(float64(v) / fq)
	}
	return out
}
