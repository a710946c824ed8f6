package ntru

import (
	"fmt"
	"math"
)

// HashKind selects the XOF used to expand challenges.
type HashKind string

const (
	HashSHAKE256 HashKind = "shake256"
	HashBLAKE3   HashKind = "blake3"
)

const (
	// MaxQ bounds the modulus so that coefficients persist as uint16 and
	// dense convolutions accumulate in int64 without overflow.
	MaxQ = 1 << 16

	DefaultNu                = 1.0
	DefaultMaxSignAttempts   = 1000
	DefaultMaxKeygenAttempts = 2000
)

// ParamsLiteral is the user facing description of a parameter set. Zero
// values of the optional fields (Nu, attempt ceilings, Hash) are replaced by
// defaults in NewParams.
type ParamsLiteral struct {
	N                 int      `json:"N" toml:"N"`
	Q                 int64    `json:"Q" toml:"Q"`
	D                 int      `json:"D" toml:"D"`
	Alpha             int      `json:"ALPHA" toml:"ALPHA"`
	Sigma             float64  `json:"SIGMA" toml:"SIGMA"`
	Eta               float64  `json:"ETA" toml:"ETA"`
	Nu                float64  `json:"NU,omitempty" toml:"NU,omitempty"`
	NormBound         float64  `json:"NORM_BOUND" toml:"NORM_BOUND"`
	MaxSignAttempts   int      `json:"MAX_SIGN_ATTEMPTS,omitempty" toml:"MAX_SIGN_ATTEMPTS,omitempty"`
	MaxKeygenAttempts int      `json:"MAX_KEYGEN_ATTEMPTS,omitempty" toml:"MAX_KEYGEN_ATTEMPTS,omitempty"`
	Hash              HashKind `json:"HASH,omitempty" toml:"HASH,omitempty"`
}

// Params is an immutable, validated parameter set. Build it with NewParams;
// the zero value is not usable.
type Params struct {
	N                 int
	Q                 int64
	D                 int
	Alpha             int
	Sigma             float64
	Eta               float64
	Nu                float64
	NormBound         float64
	MaxSignAttempts   int
	MaxKeygenAttempts int
	Hash              HashKind

	macc float64
}

// NewParams validates lit, fills defaults and derives MACC.
func NewParams(lit ParamsLiteral) (Params, error) {
	if lit.Nu == 0 {
		lit.Nu = DefaultNu
	}
	if lit.MaxSignAttempts == 0 {
		lit.MaxSignAttempts = DefaultMaxSignAttempts
	}
	if lit.MaxKeygenAttempts == 0 {
		lit.MaxKeygenAttempts = DefaultMaxKeygenAttempts
	}
	if lit.Hash == "" {
		lit.Hash = HashSHAKE256
	}
	if err := lit.validate(); err != nil {
		return Params{}, err
	}
	a := float64(lit.Alpha)
	return Params{
		N:                 lit.N,
		Q:                 lit.Q,
		D:                 lit.D,
		Alpha:             lit.Alpha,
		Sigma:             lit.Sigma,
		Eta:               lit.Eta,
		Nu:                lit.Nu,
		NormBound:         lit.NormBound,
		MaxSignAttempts:   lit.MaxSignAttempts,
		MaxKeygenAttempts: lit.MaxKeygenAttempts,
		Hash:              lit.Hash,
		macc:              math.Exp(1.0 + 1.0/(2.0*a*a)),
	}, nil
}

func (lit ParamsLiteral) validate() error {
	switch {
	case lit.N <= 0:
		return fmt.Errorf("%w: N must be positive, got %d", ErrInvalidParams, lit.N)
	case lit.Q < 4 || lit.Q > MaxQ || !isPow2(lit.Q):
		return fmt.Errorf("%w: Q must be a power of two in [4, %d], got %d", ErrInvalidParams, MaxQ, lit.Q)
	case lit.D < 0:
		return fmt.Errorf("%w: D must be non-negative, got %d", ErrInvalidParams, lit.D)
	case lit.Alpha < 0:
		return fmt.Errorf("%w: ALPHA must be non-negative, got %d", ErrInvalidParams, lit.Alpha)
	case int64(2*lit.Alpha+1) >= lit.Q:
		return fmt.Errorf("%w: challenge range 2*ALPHA+1=%d does not fit below Q", ErrInvalidParams, 2*lit.Alpha+1)
	case !(lit.Sigma > 0) || math.IsInf(lit.Sigma, 0):
		return fmt.Errorf("%w: SIGMA must be positive and finite, got %g", ErrInvalidParams, lit.Sigma)
	case !(lit.Eta > 0) || math.IsInf(lit.Eta, 0):
		return fmt.Errorf("%w: ETA must be positive and finite, got %g", ErrInvalidParams, lit.Eta)
	case lit.Nu < 0 || math.IsNaN(lit.Nu):
		return fmt.Errorf("%w: NU must be non-negative, got %g", ErrInvalidParams, lit.Nu)
	case lit.NormBound < 0 || math.IsNaN(lit.NormBound):
		return fmt.Errorf("%w: NORM_BOUND must be non-negative, got %g", ErrInvalidParams, lit.NormBound)
	case lit.MaxSignAttempts < 0 || lit.MaxKeygenAttempts < 0:
		return fmt.Errorf("%w: attempt ceilings must be non-negative", ErrInvalidParams)
	case lit.Hash != HashSHAKE256 && lit.Hash != HashBLAKE3:
		return fmt.Errorf("%w: unknown hash %q", ErrInvalidParams, lit.Hash)
	}
	plus, minus := TernaryWeights(lit.D)
	if plus+minus > lit.N {
		return fmt.Errorf("%w: ternary weight %d exceeds N=%d", ErrInvalidParams, plus+minus, lit.N)
	}
	return nil
}

// Literal returns the literal that reproduces p.
func (p Params) Literal() ParamsLiteral {
	return ParamsLiteral{
		N:                 p.N,
		Q:                 p.Q,
		D:                 p.D,
		Alpha:             p.Alpha,
		Sigma:             p.Sigma,
		Eta:               p.Eta,
		Nu:                p.Nu,
		NormBound:         p.NormBound,
		MaxSignAttempts:   p.MaxSignAttempts,
		MaxKeygenAttempts: p.MaxKeygenAttempts,
		Hash:              p.Hash,
	}
}

// MACC is the rejection-sampling normalisation exp(1 + 1/(2*ALPHA^2)).
func (p Params) MACC() float64 { return p.macc }

// SignatureBound is the l2 bound ETA*SIGMA*sqrt(2N) on published (x1, x2).
func (p Params) SignatureBound() float64 {
	return p.Eta * p.Sigma * math.Sqrt(2*float64(p.N))
}

// HalfQ returns Q/2, the upper end of the centered range.
func (p Params) HalfQ() int64 { return p.Q / 2 }

// Valid reports whether p went through NewParams.
func (p Params) Valid() bool { return p.N > 0 && isPow2(p.Q) && p.macc != 0 }

func isPow2(q int64) bool { return q > 0 && q&(q-1) == 0 }
