// Package keys persists key pairs and signatures. Coefficients of F, G and
// H are stored centered; signature coefficients are stored canonical.
package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	ntru "ntrusign/ntru"
)

const (
	KeyVersion       = "ntru-key-v1"
	SignatureVersion = "ntru-signature-v1"

	// DefaultDir is where the CLIs keep their key material.
	DefaultDir = "ntru_keys"
)

// ErrFormat reports persisted material that cannot be turned back into
// core values: wrong version, wrong lengths or out-of-range coefficients.
var ErrFormat = errors.New("keys: malformed file")

func writeJSON(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func readJSON(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFormat, name, err)
	}
	return nil
}

// centered converts canonical coefficients to the stored form.
func centered(par ntru.Params, p ntru.Poly) []int64 {
	return ntru.CenterModQ(p, par.Q)
}

// decodeCentered checks length and range of stored centered coefficients
// and returns them in canonical form.
func decodeCentered(par ntru.Params, name string, c []int64) (ntru.Poly, error) {
	if len(c) != par.N {
		return nil, fmt.Errorf("%w: %s has %d coefficients, want %d", ErrFormat, name, len(c), par.N)
	}
	half := par.HalfQ()
	for i, v := range c {
		if v <= -half || v > half {
			return nil, fmt.Errorf("%w: %s[%d]=%d outside (-%d, %d]", ErrFormat, name, i, v, half, half)
		}
	}
	return ntru.DecenterToModQ(c, par.Q), nil
}

// decodeCanonical checks length and range of stored canonical coefficients.
func decodeCanonical(par ntru.Params, name string, c []int64) (ntru.Poly, error) {
	if len(c) != par.N {
		return nil, fmt.Errorf("%w: %s has %d coefficients, want %d", ErrFormat, name, len(c), par.N)
	}
	for i, v := range c {
		if v < 0 || v >= par.Q {
			return nil, fmt.Errorf("%w: %s[%d]=%d outside [0, %d)", ErrFormat, name, i, v, par.Q)
		}
	}
	return append(ntru.Poly(nil), c...), nil
}

func checkVersion(got, want string) error {
	if got != want {
		return fmt.Errorf("%w: version %q, want %q", ErrFormat, got, want)
	}
	return nil
}
