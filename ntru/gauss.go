package ntru

import "math"

// GaussianSampler draws an integer from an approximately centered discrete
// Gaussian of width sigma. SampleGaussInt is the default; an exact sampler
// can be dropped in through SignOpts.
type GaussianSampler func(rng RandomSource, sigma float64) int32

// SampleGaussInt uses the central-limit approximation: the sum of twelve
// uniforms in [0,1) minus 6 has unit variance. The scaled value is rounded
// to the nearest integer (ties away from zero) and clamped to +-(2^31 - 1).
func SampleGaussInt(rng RandomSource, sigma float64) int32 {
	var s float64
	for i := 0; i < 12; i++ {
		s += Float64(rng)
	}
	z := (s - 6.0) * sigma
	switch {
	case math.IsNaN(z):
		return 0
	case z >= math.MaxInt32:
		return math.MaxInt32
	case z <= -math.MaxInt32:
		return -math.MaxInt32
	}
	return int32(RoundAwayFromZero(z))
}

// SampleGaussPoly fills a polynomial with independent samples and returns
// both the integer form and its canonical reduction mod Q.
func SampleGaussPoly(par Params, rng RandomSource, sample GaussianSampler) (integer, canonical Poly) {
	integer = NewPoly(par.N)
	for i := range integer {
		integer[i] = int64(sample(rng, par.Sigma))
	}
	return integer, par.ReducePoly(integer)
}
