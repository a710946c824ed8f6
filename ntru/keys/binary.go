package keys

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	ntru "ntrusign/ntru"
)

// binaryMagic opens the compact signature encoding: the magic followed by
// x1, x2 and e, each as N little-endian uint16 coefficients.
const binaryMagic = "SGN2"

// MarshalSignature encodes sig in the compact binary form.
func MarshalSignature(par ntru.Params, sig ntru.Signature) ([]byte, error) {
	out := make([]byte, len(binaryMagic), len(binaryMagic)+6*par.N)
	copy(out, binaryMagic)
	for _, p := range []ntru.Poly{sig.X1, sig.X2, sig.E} {
		if len(p) != par.N {
			return nil, fmt.Errorf("%w: signature has %d coefficients, want %d", ntru.ErrMalformedSignature, len(p), par.N)
		}
		for _, c := range p {
			if c < 0 || c >= par.Q {
				return nil, fmt.Errorf("%w: coefficient %d is not canonical", ntru.ErrMalformedSignature, c)
			}
			out = binary.LittleEndian.AppendUint16(out, uint16(c))
		}
	}
	return out, nil
}

// UnmarshalSignature decodes the compact binary form. The length must be
// exactly 4 + 6N bytes and every coefficient must lie in [0, Q).
func UnmarshalSignature(par ntru.Params, data []byte) (ntru.Signature, error) {
	want := len(binaryMagic) + 6*par.N
	if len(data) < len(binaryMagic) || string(data[:len(binaryMagic)]) != binaryMagic {
		return ntru.Signature{}, fmt.Errorf("%w: bad magic", ErrFormat)
	}
	if len(data) != want {
		return ntru.Signature{}, fmt.Errorf("%w: %d bytes, want %d", ErrFormat, len(data), want)
	}
	rest := data[len(binaryMagic):]
	read := func(name string) (ntru.Poly, error) {
		p := ntru.NewPoly(par.N)
		for i := range p {
			p[i] = int64(binary.LittleEndian.Uint16(rest))
			rest = rest[2:]
			if p[i] >= par.Q {
				return nil, fmt.Errorf("%w: %s[%d]=%d outside [0, %d)", ErrFormat, name, i, p[i], par.Q)
			}
		}
		return p, nil
	}
	var sig ntru.Signature
	var err error
	if sig.X1, err = read("x1"); err != nil {
		return ntru.Signature{}, err
	}
	if sig.X2, err = read("x2"); err != nil {
		return ntru.Signature{}, err
	}
	if sig.E, err = read("e"); err != nil {
		return ntru.Signature{}, err
	}
	return sig, nil
}

// WriteSignatureFile stores sig in the binary form at path.
func WriteSignatureFile(path string, par ntru.Params, sig ntru.Signature) error {
	data, err := MarshalSignature(par, sig)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSignatureFile loads a binary signature from path.
func ReadSignatureFile(path string, par ntru.Params) (ntru.Signature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ntru.Signature{}, err
	}
	return UnmarshalSignature(par, data)
}
