package signverify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	ntru "ntrusign/ntru"
	"ntrusign/ntru/keys"
	"ntrusign/prof"
)

func toyParams(t *testing.T) ntru.Params {
	t.Helper()
	par, err := ntru.ToyParams()
	require.NoError(t, err)
	return par
}

func TestGenerateSignVerify(t *testing.T) {
	dir := t.TempDir()
	par := toyParams(t)
	rng := ntru.NewRNG(1)

	pk, sk, err := GenerateKeypair(dir, par, rng)
	require.NoError(t, err)
	require.Equal(t, keys.KeyVersion, pk.Version)
	require.Equal(t, pk.HCoeffs, sk.HCoeffs)

	sig, err := Sign(dir, []byte("test"), rng)
	require.NoError(t, err)
	require.NoError(t, Verify(sig, nil))
	require.NoError(t, Verify(sig, []byte("test")))
	require.ErrorIs(t, Verify(sig, []byte("tesT")), ntru.ErrChallengeMismatch)

	stored, err := keys.Load(dir)
	require.NoError(t, err)
	require.NoError(t, Verify(stored, nil))
	require.NoError(t, VerifyWithKey(pk, stored, nil))

	entries := prof.SnapshotAndReset()
	require.NotEmpty(t, entries)
}

func TestSignWithSystemRNG(t *testing.T) {
	dir := t.TempDir()
	_, _, err := GenerateKeypair(dir, toyParams(t), nil)
	require.NoError(t, err)
	sig, err := Sign(dir, []byte("system"), nil)
	require.NoError(t, err)
	require.NoError(t, Verify(sig, nil))
}

func TestLoadKeyPairMismatch(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	par := toyParams(t)
	_, _, err := GenerateKeypair(a, par, ntru.NewRNG(2))
	require.NoError(t, err)
	otherPk, _, err := GenerateKeypair(b, par, ntru.NewRNG(3))
	require.NoError(t, err)

	// Overwrite a's public key with b's.
	require.NoError(t, keys.SavePublic(a, otherPk))
	_, _, err = LoadKeyPair(a)
	require.ErrorIs(t, err, ErrKeyMismatch)

	_, err = Sign(t.TempDir(), []byte("x"), nil)
	require.Error(t, err)
}

func TestVerifyWithForeignKey(t *testing.T) {
	par := toyParams(t)
	dir := t.TempDir()
	_, _, err := GenerateKeypair(dir, par, ntru.NewRNG(4))
	require.NoError(t, err)
	sig, err := Sign(dir, []byte("m"), ntru.NewRNG(5))
	require.NoError(t, err)

	foreign, _, err := GenerateKeypair(t.TempDir(), par, ntru.NewRNG(6))
	require.NoError(t, err)
	require.ErrorIs(t, VerifyWithKey(foreign, sig, nil), ErrKeyMismatch)
}

func TestVerifyNoMessage(t *testing.T) {
	par := toyParams(t)
	dir := t.TempDir()
	_, _, err := GenerateKeypair(dir, par, ntru.NewRNG(7))
	require.NoError(t, err)
	sig, err := Sign(dir, []byte("m"), ntru.NewRNG(8))
	require.NoError(t, err)
	sig.Message = ""
	require.ErrorIs(t, Verify(sig, nil), ErrNoMessage)
	require.Error(t, Verify(nil, nil))
}

func TestVerifyBatch(t *testing.T) {
	par := toyParams(t)
	rng := ntru.NewRNG(9)
	kp, err := ntru.GenerateKeyPair(par, rng)
	require.NoError(t, err)

	var docs []Document
	for i := 0; i < 12; i++ {
		msg := []byte{byte(i), 'd', 'o', 'c'}
		sig, err := SignMessage(par, kp, msg, rng, ntru.SignOpts{})
		require.NoError(t, err)
		docs = append(docs, Document{Name: string(rune('a' + i)), Message: msg, Signature: sig})
	}
	docs[3].Message = []byte("forged")
	docs[7].Signature = nil

	results := VerifyBatch(context.Background(), docs, 4)
	require.Len(t, results, len(docs))
	for i, err := range results {
		switch i {
		case 3:
			require.ErrorIs(t, err, ntru.ErrChallengeMismatch)
		case 7:
			require.Error(t, err)
		default:
			require.NoError(t, err, "doc %d", i)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, err := range VerifyBatch(ctx, docs, 0) {
		require.True(t, errors.Is(err, context.Canceled), "got %v", err)
	}
}
