// Package signverify ties the core scheme to persisted key material. It is
// the layer the command line tools call into.
package signverify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	ntru "ntrusign/ntru"
	"ntrusign/ntru/keys"
	"ntrusign/prof"
)

var (
	// ErrKeyMismatch reports a bundle whose embedded public key differs
	// from the trusted key it is checked against.
	ErrKeyMismatch = errors.New("signverify: public key mismatch")
	// ErrNoMessage reports a bundle verified without a message.
	ErrNoMessage = errors.New("signverify: no message to verify")
)

func systemRNG(rng ntru.RandomSource) (ntru.RandomSource, error) {
	if rng != nil {
		return rng, nil
	}
	r, err := ntru.NewSystemRNG()
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GenerateKeypair creates a key pair for par and persists it under dir.
// A nil rng draws from the operating system.
func GenerateKeypair(dir string, par ntru.Params, rng ntru.RandomSource) (*keys.PublicKey, *keys.PrivateKey, error) {
	defer prof.Track(time.Now(), "signverify/keygen")
	rng, err := systemRNG(rng)
	if err != nil {
		return nil, nil, err
	}
	kp, err := ntru.GenerateKeyPair(par, rng)
	if err != nil {
		return nil, nil, err
	}
	pk := keys.NewPublicKey(par, kp.Public)
	sk := keys.NewPrivateKey(par, kp.Private)
	if err := keys.SavePublic(dir, pk); err != nil {
		return nil, nil, err
	}
	if err := keys.SavePrivate(dir, sk); err != nil {
		return nil, nil, err
	}
	return pk, sk, nil
}

// LoadKeyPair reads and validates the key pair persisted under dir.
func LoadKeyPair(dir string) (ntru.Params, ntru.KeyPair, error) {
	skFile, err := keys.LoadPrivate(dir)
	if err != nil {
		return ntru.Params{}, ntru.KeyPair{}, err
	}
	par, sk, err := skFile.Decode()
	if err != nil {
		return ntru.Params{}, ntru.KeyPair{}, err
	}
	pkFile, err := keys.LoadPublic(dir)
	if err != nil {
		return ntru.Params{}, ntru.KeyPair{}, err
	}
	pkPar, pk, err := pkFile.Decode()
	if err != nil {
		return ntru.Params{}, ntru.KeyPair{}, err
	}
	if pkPar != par || !pk.H.Equal(sk.H) {
		return ntru.Params{}, ntru.KeyPair{}, fmt.Errorf("%w: public.json does not match private.json", ErrKeyMismatch)
	}
	return par, ntru.KeyPair{Private: sk, Public: pk}, nil
}

// Sign signs message with the key pair persisted under dir, embeds the
// message in the resulting bundle and saves it as dir/signature.json.
func Sign(dir string, message []byte, rng ntru.RandomSource) (*keys.Signature, error) {
	return SignWithOpts(dir, message, rng, ntru.SignOpts{})
}

// SignWithOpts mirrors Sign but allows callers to override signer options.
func SignWithOpts(dir string, message []byte, rng ntru.RandomSource, opts ntru.SignOpts) (*keys.Signature, error) {
	par, kp, err := LoadKeyPair(dir)
	if err != nil {
		return nil, err
	}
	sig, err := SignMessage(par, kp, message, rng, opts)
	if err != nil {
		return nil, err
	}
	if err := keys.Save(dir, sig); err != nil {
		return nil, err
	}
	return sig, nil
}

// SignMessage signs message with kp and returns the bundle without
// persisting it.
func SignMessage(par ntru.Params, kp ntru.KeyPair, message []byte, rng ntru.RandomSource, opts ntru.SignOpts) (*keys.Signature, error) {
	defer prof.Track(time.Now(), "signverify/sign")
	rng, err := systemRNG(rng)
	if err != nil {
		return nil, err
	}
	sig, st, err := ntru.SignWithOpts(par, kp.Private, kp.Public, message, rng, opts)
	if err != nil {
		return nil, err
	}
	bundle := keys.NewSignature(par, kp.Public, sig, st)
	bundle.SetMessage(message)
	return bundle, nil
}

// Verify checks a bundle. A nil message verifies the message embedded in
// the bundle.
func Verify(sig *keys.Signature, message []byte) error {
	defer prof.Track(time.Now(), "signverify/verify")
	if sig == nil {
		return errors.New("nil signature")
	}
	par, pk, s, err := sig.Decode()
	if err != nil {
		return err
	}
	if message == nil {
		if message, err = sig.Msg(); err != nil {
			return err
		}
		if message == nil {
			return ErrNoMessage
		}
	}
	return ntru.CheckSignature(par, pk, message, s)
}

// VerifyWithKey checks a bundle against a trusted public key instead of
// the key embedded in the bundle.
func VerifyWithKey(trusted *keys.PublicKey, sig *keys.Signature, message []byte) error {
	if trusted == nil || sig == nil {
		return errors.New("nil key or signature")
	}
	tPar, tPk, err := trusted.Decode()
	if err != nil {
		return err
	}
	par, pk, _, err := sig.Decode()
	if err != nil {
		return err
	}
	if tPar != par || !tPk.H.Equal(pk.H) {
		return ErrKeyMismatch
	}
	return Verify(sig, message)
}

// Document is one entry of a batch verification.
type Document struct {
	Name      string
	Message   []byte
	Signature *keys.Signature
}

// VerifyBatch verifies docs concurrently with at most limit workers
// (limit <= 0 uses one per document) and returns one result per document,
// nil meaning valid. Documents not started before ctx is done report the
// context error.
func VerifyBatch(ctx context.Context, docs []Document, limit int) []error {
	defer prof.Track(time.Now(), "signverify/verify_batch")
	results := make([]error, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range docs {
		i := i // per-iteration copy (go 1.22+ loopvar semantics on go 1.21 toolchain)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = err
				return nil
			}
			results[i] = Verify(docs[i].Signature, docs[i].Message)
			ntru.Debugf("[VerifyBatch] %s: %v\n", docs[i].Name, results[i])
			return nil
		})
	}
	_ = g.Wait()
	return results
}
