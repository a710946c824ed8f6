// Package keystore keeps named key pairs and signature bundles in a single
// bbolt database file. Values are the JSON documents of package keys.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	ntru "ntrusign/ntru"
	"ntrusign/ntru/keys"
)

var (
	keysBucket       = []byte("keypairs")
	signaturesBucket = []byte("signatures")
)

// ErrNotFound is returned when no entry exists under the requested name.
var ErrNotFound = errors.New("keystore: not found")

// Store is a handle on an open database. It is safe for concurrent use.
type Store struct {
	db *bbolt.DB
}

type keyRecord struct {
	Public  *keys.PublicKey  `json:"public"`
	Private *keys.PrivateKey `json:"private,omitempty"`
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening keystore: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{keysBucket, signaturesBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("creating bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error { return s.db.Close() }

// PutKeyPair stores kp under name, replacing any previous pair.
func (s *Store) PutKeyPair(name string, par ntru.Params, kp ntru.KeyPair) error {
	rec := keyRecord{
		Public:  keys.NewPublicKey(par, kp.Public),
		Private: keys.NewPrivateKey(par, kp.Private),
	}
	return s.put(keysBucket, name, rec)
}

// PutPublicKey stores a verification-only entry under name.
func (s *Store) PutPublicKey(name string, par ntru.Params, pk ntru.PublicKey) error {
	return s.put(keysBucket, name, keyRecord{Public: keys.NewPublicKey(par, pk)})
}

// GetKeyPair returns the pair stored under name. Entries written with
// PutPublicKey yield ErrNotFound.
func (s *Store) GetKeyPair(name string) (ntru.Params, ntru.KeyPair, error) {
	var rec keyRecord
	if err := s.get(keysBucket, name, &rec); err != nil {
		return ntru.Params{}, ntru.KeyPair{}, err
	}
	if rec.Private == nil {
		return ntru.Params{}, ntru.KeyPair{}, fmt.Errorf("%w: no private key for %q", ErrNotFound, name)
	}
	par, sk, err := rec.Private.Decode()
	if err != nil {
		return ntru.Params{}, ntru.KeyPair{}, err
	}
	_, pk, err := rec.Public.Decode()
	if err != nil {
		return ntru.Params{}, ntru.KeyPair{}, err
	}
	return par, ntru.KeyPair{Private: sk, Public: pk}, nil
}

// GetPublicKey returns the public half stored under name.
func (s *Store) GetPublicKey(name string) (ntru.Params, ntru.PublicKey, error) {
	var rec keyRecord
	if err := s.get(keysBucket, name, &rec); err != nil {
		return ntru.Params{}, ntru.PublicKey{}, err
	}
	if rec.Public == nil {
		return ntru.Params{}, ntru.PublicKey{}, fmt.Errorf("%w: empty record %q", keys.ErrFormat, name)
	}
	return rec.Public.Decode()
}

// DeleteKeyPair removes name. Deleting a missing entry is not an error.
func (s *Store) DeleteKeyPair(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(keysBucket).Delete([]byte(name))
	})
}

// ListKeys returns the stored key names in byte order.
func (s *Store) ListKeys() ([]string, error) { return s.list(keysBucket) }

// PutSignature stores a signature bundle under id.
func (s *Store) PutSignature(id string, sig *keys.Signature) error {
	if sig == nil {
		return errors.New("keystore: nil signature")
	}
	return s.put(signaturesBucket, id, sig)
}

// GetSignature returns the bundle stored under id.
func (s *Store) GetSignature(id string) (*keys.Signature, error) {
	var sig keys.Signature
	if err := s.get(signaturesBucket, id, &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}

// ListSignatures returns the stored signature ids in byte order.
func (s *Store) ListSignatures() ([]string, error) { return s.list(signaturesBucket) }

func (s *Store) put(bucket []byte, name string, v any) error {
	if name == "" {
		return errors.New("keystore: empty name")
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(name), buf)
	})
}

func (s *Store) get(bucket []byte, name string, v any) error {
	var buf []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		val := tx.Bucket(bucket).Get([]byte(name))
		if val == nil {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		// val is only valid inside the transaction.
		buf = append([]byte(nil), val...)
		return nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("%w: %q: %v", keys.ErrFormat, name, err)
	}
	return nil
}

func (s *Store) list(bucket []byte) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}
