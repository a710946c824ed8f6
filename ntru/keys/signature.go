package keys

import (
	"encoding/base64"
	"fmt"
	"math"
	"time"

	ntru "ntrusign/ntru"
)

// Signature holds the signature bundle persisted to JSON: the signature
// itself, the public key and parameters it verifies under, and optionally
// the signed message.
type Signature struct {
	Version   string             `json:"version"`
	Timestamp string             `json:"timestamp"`
	Params    ntru.ParamsLiteral `json:"params"`
	Message   string             `json:"message,omitempty"`
	PublicKey struct {
		HCoeffs []int64 `json:"h_coeffs"`
	} `json:"public_key"`
	Signature struct {
		X1   []int64 `json:"x1"`
		X2   []int64 `json:"x2"`
		E    []int64 `json:"e"`
		Norm struct {
			Passed bool    `json:"passed"`
			L2     float64 `json:"l2"`
			Bound  float64 `json:"bound"`
		} `json:"norm"`
		TrialsUsed int `json:"trials_used"`
		MaxTrials  int `json:"max_trials"`
	} `json:"signature"`
}

// NewSignature creates a timestamped bundle for sig.
func NewSignature(par ntru.Params, pk ntru.PublicKey, sig ntru.Signature, st ntru.SignStats) *Signature {
	s := &Signature{Version: SignatureVersion, Params: par.Literal()}
	s.Timestamp = time.Now().UTC().Format(time.RFC3339)
	s.PublicKey.HCoeffs = centered(par, pk.H)
	s.Signature.X1 = append([]int64(nil), sig.X1...)
	s.Signature.X2 = append([]int64(nil), sig.X2...)
	s.Signature.E = append([]int64(nil), sig.E...)
	s.Signature.Norm.L2 = L2Norm(par, sig)
	s.Signature.Norm.Bound = par.SignatureBound()
	s.Signature.Norm.Passed = s.Signature.Norm.L2 <= s.Signature.Norm.Bound
	s.Signature.TrialsUsed = st.Attempts
	s.Signature.MaxTrials = par.MaxSignAttempts
	return s
}

// L2Norm is the euclidean norm of the centered (x1, x2).
func L2Norm(par ntru.Params, sig ntru.Signature) float64 {
	var acc float64
	for _, p := range []ntru.Poly{sig.X1, sig.X2} {
		for _, c := range ntru.CenterModQ(p, par.Q) {
			acc += float64(c * c)
		}
	}
	return math.Sqrt(acc)
}

// SetMessage embeds msg in the bundle.
func (s *Signature) SetMessage(msg []byte) { s.Message = EncodeMessage(msg) }

// Msg returns the embedded message, nil when none was stored.
func (s *Signature) Msg() ([]byte, error) {
	if s.Message == "" {
		return nil, nil
	}
	m, err := DecodeMessage(s.Message)
	if err != nil {
		return nil, fmt.Errorf("%w: message: %v", ErrFormat, err)
	}
	return m, nil
}

// Decode validates the bundle and returns its parameters, public key and
// signature.
func (s *Signature) Decode() (ntru.Params, ntru.PublicKey, ntru.Signature, error) {
	fail := func(err error) (ntru.Params, ntru.PublicKey, ntru.Signature, error) {
		return ntru.Params{}, ntru.PublicKey{}, ntru.Signature{}, err
	}
	if err := checkVersion(s.Version, SignatureVersion); err != nil {
		return fail(err)
	}
	par, err := ntru.NewParams(s.Params)
	if err != nil {
		return fail(err)
	}
	h, err := decodeCentered(par, "h", s.PublicKey.HCoeffs)
	if err != nil {
		return fail(err)
	}
	var sig ntru.Signature
	if sig.X1, err = decodeCanonical(par, "x1", s.Signature.X1); err != nil {
		return fail(err)
	}
	if sig.X2, err = decodeCanonical(par, "x2", s.Signature.X2); err != nil {
		return fail(err)
	}
	if sig.E, err = decodeCanonical(par, "e", s.Signature.E); err != nil {
		return fail(err)
	}
	return par, ntru.PublicKey{H: h}, sig, nil
}

// Save writes signature to dir/signature.json.
func Save(dir string, sig *Signature) error {
	if sig == nil {
		return nil
	}
	return writeJSON(dir, "signature.json", sig)
}

// Load reads signature from dir/signature.json.
func Load(dir string) (*Signature, error) {
	var sig Signature
	if err := readJSON(dir, "signature.json", &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}

// DecodeMessage converts a base64 message string to bytes.
func DecodeMessage(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// EncodeMessage returns the base64 representation of msg.
func EncodeMessage(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
