// Package io loads and stores parameter files. Files ending in .json use
// the JSON form; anything else is read as TOML, which also covers plain
// KEY = value parameter files.
package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	ntru "ntrusign/ntru"
)

// ErrParamFile reports a parameter file that is unreadable as a whole:
// syntax errors, missing required keys or unknown keys.
var ErrParamFile = errors.New("io: bad parameter file")

// requiredKeys must be present in every parameter file; the remaining
// fields of ntru.ParamsLiteral fall back to their defaults.
var requiredKeys = []string{"N", "Q", "D", "ALPHA", "SIGMA", "ETA", "NORM_BOUND"}

// fileParams is the on-disk shape. MAX_SIGN_ATTEMPTS_MASK is the historic
// spelling of MAX_SIGN_ATTEMPTS.
type fileParams struct {
	ntru.ParamsLiteral
	MaxSignAttemptsMask int `json:"MAX_SIGN_ATTEMPTS_MASK,omitempty" toml:"MAX_SIGN_ATTEMPTS_MASK,omitempty"`
}

func (fp fileParams) literal() ntru.ParamsLiteral {
	lit := fp.ParamsLiteral
	if lit.MaxSignAttempts == 0 && fp.MaxSignAttemptsMask > 0 {
		lit.MaxSignAttempts = fp.MaxSignAttemptsMask
	}
	return lit
}

// LoadParams reads and validates the parameter file at path.
func LoadParams(path string) (ntru.Params, error) {
	var (
		fp  fileParams
		err error
	)
	if isJSON(path) {
		fp, err = decodeJSON(path)
	} else {
		fp, err = decodeTOML(path)
	}
	if err != nil {
		return ntru.Params{}, err
	}
	par, err := ntru.NewParams(fp.literal())
	if err != nil {
		return ntru.Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return par, nil
}

// LoadParamsOrDefault loads path, or returns ntru.DefaultParams when path
// is empty.
func LoadParamsOrDefault(path string) (ntru.Params, error) {
	if path == "" {
		return ntru.DefaultParams()
	}
	return LoadParams(path)
}

func decodeTOML(path string) (fileParams, error) {
	var fp fileParams
	md, err := toml.DecodeFile(path, &fp)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fp, err
		}
		return fp, fmt.Errorf("%w: %s: %v", ErrParamFile, path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return fp, fmt.Errorf("%w: %s: unknown keys %s", ErrParamFile, path, strings.Join(keys, ", "))
	}
	var missing []string
	for _, k := range requiredKeys {
		if !md.IsDefined(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fp, fmt.Errorf("%w: %s: missing %s", ErrParamFile, path, strings.Join(missing, ", "))
	}
	return fp, nil
}

func decodeJSON(path string) (fileParams, error) {
	var fp fileParams
	data, err := os.ReadFile(path)
	if err != nil {
		return fp, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fp, fmt.Errorf("%w: %s: %v", ErrParamFile, path, err)
	}
	var missing []string
	for _, k := range requiredKeys {
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fp, fmt.Errorf("%w: %s: missing %s", ErrParamFile, path, strings.Join(missing, ", "))
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fp); err != nil {
		return fp, fmt.Errorf("%w: %s: %v", ErrParamFile, path, err)
	}
	return fp, nil
}

// SaveParams writes par to path, as JSON for a .json path and TOML
// otherwise.
func SaveParams(path string, par ntru.Params) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if isJSON(path) {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(par.Literal())
	} else {
		err = toml.NewEncoder(f).Encode(par.Literal())
	}
	if err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
