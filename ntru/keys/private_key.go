package keys

import (
	"fmt"

	ntru "ntrusign/ntru"
)

// PrivateKey represents an NTRU private key persisted to JSON.
type PrivateKey struct {
	Version string             `json:"version"`
	Params  ntru.ParamsLiteral `json:"params"`
	F       []int64            `json:"F"`
	G       []int64            `json:"G"`
	HCoeffs []int64            `json:"h_coeffs"`
	Policy  *Policy            `json:"policy,omitempty"`
}

// Policy records the ternary weights F and G were drawn with.
type Policy struct {
	Plus  int `json:"plus"`
	Minus int `json:"minus"`
}

// NewPrivateKey wraps sk for persistence.
func NewPrivateKey(par ntru.Params, sk ntru.PrivateKey) *PrivateKey {
	out := &PrivateKey{
		Version: KeyVersion,
		Params:  par.Literal(),
		F:       centered(par, sk.F),
		G:       centered(par, sk.G),
		HCoeffs: centered(par, sk.H),
	}
	plus, minus := ntru.TernaryWeights(par.D)
	out.Policy = &Policy{Plus: plus, Minus: minus}
	return out
}

// Decode validates the file, including that F is a unit and that
// F*H == G, and returns
// the parameters and key it holds.
func (sk *PrivateKey) Decode() (ntru.Params, ntru.PrivateKey, error) {
	if err := checkVersion(sk.Version, KeyVersion); err != nil {
		return ntru.Params{}, ntru.PrivateKey{}, err
	}
	par, err := ntru.NewParams(sk.Params)
	if err != nil {
		return ntru.Params{}, ntru.PrivateKey{}, err
	}
	var out ntru.PrivateKey
	if out.F, err = decodeCentered(par, "F", sk.F); err != nil {
		return ntru.Params{}, ntru.PrivateKey{}, err
	}
	if out.G, err = decodeCentered(par, "G", sk.G); err != nil {
		return ntru.Params{}, ntru.PrivateKey{}, err
	}
	if !ntru.IsUnitModQ(par, out.F) {
		return ntru.Params{}, ntru.PrivateKey{}, fmt.Errorf("%w: F is not invertible mod Q", ErrFormat)
	}
	if len(sk.HCoeffs) == 0 {
		// Files converted from the PRIV1 text format carry no H.
		if out.H, err = ntru.PublicKeyH(par, out.F, out.G); err != nil {
			return ntru.Params{}, ntru.PrivateKey{}, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	} else if out.H, err = decodeCentered(par, "h", sk.HCoeffs); err != nil {
		return ntru.Params{}, ntru.PrivateKey{}, err
	}
	if !ntru.CheckPublicKey(par, out.F, out.G, out.H) {
		return ntru.Params{}, ntru.PrivateKey{}, fmt.Errorf("%w: F*H != G", ErrFormat)
	}
	return par, out, nil
}

// SavePrivate writes the private key to dir/private.json.
func SavePrivate(dir string, sk *PrivateKey) error {
	if sk == nil {
		return nil
	}
	return writeJSON(dir, "private.json", sk)
}

// LoadPrivate reads the private key from dir/private.json.
func LoadPrivate(dir string) (*PrivateKey, error) {
	var sk PrivateKey
	if err := readJSON(dir, "private.json", &sk); err != nil {
		return nil, err
	}
	return &sk, nil
}
