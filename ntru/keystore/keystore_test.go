package keystore

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	ntru "ntrusign/ntru"
	"ntrusign/ntru/keys"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "keys.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func toyPair(t *testing.T, seed int64) (ntru.Params, ntru.KeyPair) {
	t.Helper()
	par, err := ntru.ToyParams()
	require.NoError(t, err)
	kp, err := ntru.GenerateKeyPair(par, ntru.NewRNG(seed))
	require.NoError(t, err)
	return par, kp
}

func TestKeyPairs(t *testing.T) {
	s := openStore(t)
	par, kp := toyPair(t, 1)
	require.NoError(t, s.PutKeyPair("alice", par, kp))

	gotPar, got, err := s.GetKeyPair("alice")
	require.NoError(t, err)
	require.Equal(t, par, gotPar)
	require.True(t, got.Private.F.Equal(kp.Private.F))
	require.True(t, got.Private.G.Equal(kp.Private.G))
	require.True(t, got.Public.H.Equal(kp.Public.H))

	_, pk, err := s.GetPublicKey("alice")
	require.NoError(t, err)
	require.True(t, pk.H.Equal(kp.Public.H))

	_, _, err = s.GetKeyPair("bob")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.PutPublicKey("bob", par, kp.Public))
	_, _, err = s.GetKeyPair("bob")
	require.ErrorIs(t, err, ErrNotFound)
	_, pk, err = s.GetPublicKey("bob")
	require.NoError(t, err)
	require.True(t, pk.H.Equal(kp.Public.H))

	names, err := s.ListKeys()
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "bob"}, names)

	require.NoError(t, s.DeleteKeyPair("alice"))
	require.NoError(t, s.DeleteKeyPair("alice"))
	names, err = s.ListKeys()
	require.NoError(t, err)
	require.Equal(t, []string{"bob"}, names)

	require.Error(t, s.PutKeyPair("", par, kp))
}

func TestSignatures(t *testing.T) {
	s := openStore(t)
	par, kp := toyPair(t, 2)
	rng := ntru.NewRNG(3)
	sig, st, err := ntru.SignWithOpts(par, kp.Private, kp.Public, []byte("doc"), rng, ntru.SignOpts{})
	require.NoError(t, err)
	bundle := keys.NewSignature(par, kp.Public, sig, st)
	bundle.SetMessage([]byte("doc"))

	require.NoError(t, s.PutSignature("doc-1", bundle))
	got, err := s.GetSignature("doc-1")
	require.NoError(t, err)
	gotPar, pk, gotSig, err := got.Decode()
	require.NoError(t, err)
	msg, err := got.Msg()
	require.NoError(t, err)
	require.True(t, ntru.Verify(gotPar, pk, msg, gotSig))

	_, err = s.GetSignature("doc-2")
	require.ErrorIs(t, err, ErrNotFound)
	require.Error(t, s.PutSignature("doc-3", nil))

	ids, err := s.ListSignatures()
	require.NoError(t, err)
	require.Equal(t, []string{"doc-1"}, ids)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.db")
	s, err := Open(path)
	require.NoError(t, err)
	par, kp := toyPair(t, 4)
	require.NoError(t, s.PutKeyPair("k", par, kp))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	_, got, err := s.GetKeyPair("k")
	require.NoError(t, err)
	require.True(t, got.Public.H.Equal(kp.Public.H))
}

func TestConcurrentAccess(t *testing.T) {
	s := openStore(t)
	par, kp := toyPair(t, 5)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i))
			if err := s.PutKeyPair(name, par, kp); err != nil {
				t.Error(err)
				return
			}
			if _, _, err := s.GetKeyPair(name); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()
	names, err := s.ListKeys()
	require.NoError(t, err)
	require.Len(t, names, 8)
}
