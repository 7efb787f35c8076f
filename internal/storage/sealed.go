package storage

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	apperrors "lumen/internal/errors"
)

const nonceSize = 24

// ErrSealedValue is the cause of a Get that found a value it cannot open,
// such as one written before the key was set or rotated.
var ErrSealedValue = errors.New("stored value cannot be opened with the configured key")

// SealedStore encrypts values with NaCl secretbox before handing them to the
// underlying store. Keys are stored in the clear.
type SealedStore struct {
	inner Store
	key   [32]byte
}

// Seal wraps inner so values are encrypted with a key derived from secret.
// An empty secret returns inner unchanged.
func Seal(inner Store, secret string) Store {
	if secret == "" {
		return inner
	}
	return &SealedStore{inner: inner, key: sha256.Sum256([]byte(secret))}
}

// Get implements Store.
func (s *SealedStore) Get(key string) ([]byte, bool, error) {
	box, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(box) < nonceSize {
		return nil, false, apperrors.Wrap(apperrors.ErrStorage, ErrSealedValue)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], box[:nonceSize])
	plain, opened := secretbox.Open(nil, box[nonceSize:], &nonce, &s.key)
	if !opened {
		return nil, false, apperrors.Wrap(apperrors.ErrStorage, ErrSealedValue)
	}
	return plain, true, nil
}

// Set implements Store.
func (s *SealedStore) Set(key string, value []byte) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	box := secretbox.Seal(nonce[:], value, &nonce, &s.key)
	return s.inner.Set(key, box)
}

// Delete implements Store.
func (s *SealedStore) Delete(key string) error {
	return s.inner.Delete(key)
}
