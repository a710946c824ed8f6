package keys

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	ntru "ntrusign/ntru"
)

func fixture(t *testing.T) (ntru.Params, ntru.KeyPair, ntru.Signature, ntru.SignStats) {
	t.Helper()
	par, err := ntru.ToyParams()
	require.NoError(t, err)
	rng := ntru.NewRNG(1)
	kp, err := ntru.GenerateKeyPair(par, rng)
	require.NoError(t, err)
	sig, st, err := ntru.SignWithOpts(par, kp.Private, kp.Public, []byte("test"), rng, ntru.SignOpts{})
	require.NoError(t, err)
	return par, kp, sig, st
}

func TestKeyFilesRoundTrip(t *testing.T) {
	par, kp, _, _ := fixture(t)
	dir := t.TempDir()

	require.NoError(t, SavePublic(dir, NewPublicKey(par, kp.Public)))
	require.NoError(t, SavePrivate(dir, NewPrivateKey(par, kp.Private)))

	pkFile, err := LoadPublic(dir)
	require.NoError(t, err)
	gotPar, pk, err := pkFile.Decode()
	require.NoError(t, err)
	require.Equal(t, par, gotPar)
	if diff := cmp.Diff(kp.Public, pk); diff != "" {
		t.Fatalf("public key changed (-want +got):\n%s", diff)
	}

	skFile, err := LoadPrivate(dir)
	require.NoError(t, err)
	require.Equal(t, 2, skFile.Policy.Plus)
	require.Equal(t, 3, skFile.Policy.Minus)
	_, sk, err := skFile.Decode()
	require.NoError(t, err)
	if diff := cmp.Diff(kp.Private, sk); diff != "" {
		t.Fatalf("private key changed (-want +got):\n%s", diff)
	}
	for _, c := range skFile.F {
		require.True(t, c >= -1 && c <= 1, "F stored centered, got %d", c)
	}
}

func TestPrivateKeyDecodeRejectsMismatch(t *testing.T) {
	par, kp, _, _ := fixture(t)
	sk := NewPrivateKey(par, kp.Private)
	sk.HCoeffs[0]++
	if sk.HCoeffs[0] > par.HalfQ() {
		sk.HCoeffs[0] -= par.Q
	}
	_, _, err := sk.Decode()
	require.ErrorIs(t, err, ErrFormat)

	sk = NewPrivateKey(par, kp.Private)
	sk.HCoeffs = nil
	_, got, err := sk.Decode()
	require.NoError(t, err)
	require.True(t, got.H.Equal(kp.Private.H))
}

func TestPrivateKeyDecodeRejectsSingularF(t *testing.T) {
	par, kp, _, _ := fixture(t)
	sk := NewPrivateKey(par, kp.Private)
	// all-zero F, G and H satisfy F*H == G but F has no inverse
	for i := range sk.F {
		sk.F[i], sk.G[i], sk.HCoeffs[i] = 0, 0, 0
	}
	_, _, err := sk.Decode()
	require.ErrorIs(t, err, ErrFormat)
	require.Contains(t, err.Error(), "not invertible")
}

func TestDecodeErrors(t *testing.T) {
	par, kp, _, _ := fixture(t)

	pk := NewPublicKey(par, kp.Public)
	pk.Version = "ntru-key-v0"
	_, _, err := pk.Decode()
	require.ErrorIs(t, err, ErrFormat)

	pk = NewPublicKey(par, kp.Public)
	pk.HCoeffs = pk.HCoeffs[:3]
	_, _, err = pk.Decode()
	require.ErrorIs(t, err, ErrFormat)

	pk = NewPublicKey(par, kp.Public)
	pk.HCoeffs[1] = par.Q
	_, _, err = pk.Decode()
	require.ErrorIs(t, err, ErrFormat)

	pk = NewPublicKey(par, kp.Public)
	pk.Params.Q = 100
	_, _, err = pk.Decode()
	require.ErrorIs(t, err, ntru.ErrInvalidParams)
}

func TestLoadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.json"), []byte("{"), 0o644))
	_, err := LoadPublic(dir)
	require.ErrorIs(t, err, ErrFormat)

	_, err = LoadPrivate(dir)
	require.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestSignatureBundleRoundTrip(t *testing.T) {
	par, kp, sig, st := fixture(t)
	dir := t.TempDir()

	bundle := NewSignature(par, kp.Public, sig, st)
	bundle.SetMessage([]byte("test"))
	require.True(t, bundle.Signature.Norm.Passed)
	require.Equal(t, st.Attempts, bundle.Signature.TrialsUsed)
	require.NoError(t, Save(dir, bundle))

	loaded, err := Load(dir)
	require.NoError(t, err)
	msg, err := loaded.Msg()
	require.NoError(t, err)
	require.Equal(t, []byte("test"), msg)

	gotPar, pk, gotSig, err := loaded.Decode()
	require.NoError(t, err)
	require.Equal(t, par, gotPar)
	require.True(t, pk.H.Equal(kp.Public.H))
	if diff := cmp.Diff(sig, gotSig); diff != "" {
		t.Fatalf("signature changed (-want +got):\n%s", diff)
	}
	require.True(t, ntru.Verify(gotPar, pk, msg, gotSig))
}

func TestSignatureBundleRejectsNonCanonical(t *testing.T) {
	par, kp, sig, st := fixture(t)
	bundle := NewSignature(par, kp.Public, sig, st)
	bundle.Signature.E[0] = -1
	_, _, _, err := bundle.Decode()
	require.ErrorIs(t, err, ErrFormat)

	bundle = NewSignature(par, kp.Public, sig, st)
	bundle.Message = "%%%"
	_, err = bundle.Msg()
	require.ErrorIs(t, err, ErrFormat)
}

func TestBinarySignature(t *testing.T) {
	par, kp, sig, _ := fixture(t)
	data, err := MarshalSignature(par, sig)
	require.NoError(t, err)
	require.Len(t, data, 4+6*par.N)
	require.Equal(t, "SGN2", string(data[:4]))

	got, err := UnmarshalSignature(par, data)
	require.NoError(t, err)
	if diff := cmp.Diff(sig, got); diff != "" {
		t.Fatalf("binary roundtrip (-want +got):\n%s", diff)
	}
	require.True(t, ntru.Verify(par, kp.Public, []byte("test"), got))

	path := filepath.Join(t.TempDir(), "sig", "test.sig")
	require.NoError(t, WriteSignatureFile(path, par, sig))
	fromFile, err := ReadSignatureFile(path, par)
	require.NoError(t, err)
	require.True(t, fromFile.E.Equal(sig.E))
}

func TestBinarySignatureErrors(t *testing.T) {
	par, _, sig, _ := fixture(t)
	data, err := MarshalSignature(par, sig)
	require.NoError(t, err)

	_, err = UnmarshalSignature(par, data[:len(data)-1])
	require.ErrorIs(t, err, ErrFormat)

	_, err = UnmarshalSignature(par, append(append([]byte(nil), data...), 0))
	require.ErrorIs(t, err, ErrFormat)

	bad := append([]byte(nil), data...)
	copy(bad, "SGN1")
	_, err = UnmarshalSignature(par, bad)
	require.ErrorIs(t, err, ErrFormat)

	bad = append([]byte(nil), data...)
	bad[4], bad[5] = 0xff, 0xff
	_, err = UnmarshalSignature(par, bad)
	require.ErrorIs(t, err, ErrFormat)

	_, err = UnmarshalSignature(par, nil)
	require.ErrorIs(t, err, ErrFormat)

	short := ntru.Signature{X1: sig.X1[:2], X2: sig.X2, E: sig.E}
	_, err = MarshalSignature(par, short)
	require.ErrorIs(t, err, ntru.ErrMalformedSignature)
}

func TestTextKeys(t *testing.T) {
	par, kp, _, _ := fixture(t)

	var pub bytes.Buffer
	require.NoError(t, WritePublicText(&pub, par, kp.Public))
	require.True(t, bytes.HasPrefix(pub.Bytes(), []byte("PUB1\n8\n")))
	pk, err := ReadPublicText(&pub, par)
	require.NoError(t, err)
	require.True(t, pk.H.Equal(kp.Public.H))

	var priv bytes.Buffer
	require.NoError(t, WritePrivateText(&priv, par, kp.Private))
	sk, err := ReadPrivateText(&priv, par)
	require.NoError(t, err)
	if diff := cmp.Diff(kp.Private, sk); diff != "" {
		t.Fatalf("text private key (-want +got):\n%s", diff)
	}
}

func TestTextKeyErrors(t *testing.T) {
	par, _, _, _ := fixture(t)
	cases := map[string]string{
		"header":  "PUB2\n8\n0 0 0 0 0 0 0 0\n",
		"N":       "PUB1\n7\n0 0 0 0 0 0 0\n",
		"short":   "PUB1\n8\n0 0 0\n",
		"integer": "PUB1\n8\n0 0 0 x 0 0 0 0\n",
	}
	for name, in := range cases {
		_, err := ReadPublicText(bytes.NewBufferString(in), par)
		require.ErrorIs(t, err, ErrFormat, name)
	}
	// even weight F
	_, err := ReadPrivateText(bytes.NewBufferString("PRIV1\n8\n1 1 0 0 0 0 0 0\n1 0 0 0 0 0 0 0\n"), par)
	require.ErrorIs(t, err, ErrFormat)
}
