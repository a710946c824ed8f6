package ntru

// ToyParams returns the small N=8, Q=64 set used by the test-suite. It is
// fast and deterministic under a fixed seed but offers no security.
func ToyParams() (Params, error) {
	return NewParams(ParamsLiteral{
		N:               8,
		Q:               64,
		D:               4,
		Alpha:           3,
		Sigma:           8,
		Eta:             2.0,
		NormBound:       40,
		MaxSignAttempts: 5000,
	})
}

// DefaultParams returns the N=256, Q=2048 demonstration set used by the CLI
// when no parameter file is given.
func DefaultParams() (Params, error) {
	return NewParams(ParamsLiteral{
		N:               256,
		Q:               2048,
		D:               77,
		Alpha:           3,
		Sigma:           64,
		Eta:             1.3,
		Nu:              1.0,
		NormBound:       400,
		MaxSignAttempts: 1000,
	})
}
