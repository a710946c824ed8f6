package keys

import (
	ntru "ntrusign/ntru"
)

// PublicKey represents an NTRU public key persisted to JSON.
type PublicKey struct {
	Version string             `json:"version"`
	Params  ntru.ParamsLiteral `json:"params"`
	HCoeffs []int64            `json:"h_coeffs"`
}

// NewPublicKey wraps pk for persistence.
func NewPublicKey(par ntru.Params, pk ntru.PublicKey) *PublicKey {
	return &PublicKey{
		Version: KeyVersion,
		Params:  par.Literal(),
		HCoeffs: centered(par, pk.H),
	}
}

// Decode validates the file and returns the parameters and key it holds.
func (pk *PublicKey) Decode() (ntru.Params, ntru.PublicKey, error) {
	if err := checkVersion(pk.Version, KeyVersion); err != nil {
		return ntru.Params{}, ntru.PublicKey{}, err
	}
	par, err := ntru.NewParams(pk.Params)
	if err != nil {
		return ntru.Params{}, ntru.PublicKey{}, err
	}
	h, err := decodeCentered(par, "h", pk.HCoeffs)
	if err != nil {
		return ntru.Params{}, ntru.PublicKey{}, err
	}
	return par, ntru.PublicKey{H: h}, nil
}

// SavePublic writes the public key to dir/public.json.
func SavePublic(dir string, pk *PublicKey) error {
	if pk == nil {
		return nil
	}
	return writeJSON(dir, "public.json", pk)
}

// LoadPublic reads the public key from dir/public.json.
func LoadPublic(dir string) (*PublicKey, error) {
	var pk PublicKey
	if err := readJSON(dir, "public.json", &pk); err != nil {
		return nil, err
	}
	return &pk, nil
}
