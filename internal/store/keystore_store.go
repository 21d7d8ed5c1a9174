package store

import (
	"path/filepath"
	"sync"

	"sigil/internal/domain"
)

// KeystoreFilename is the encrypted envelope file under the home directory.
const KeystoreFilename = "keystore.json"

// KeystoreFileStore persists the encrypted keystore envelope. It never sees
// plaintext key material.
type KeystoreFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewKeystoreFileStore returns a KeystoreFileStore rooted at dir.
func NewKeystoreFileStore(dir string) *KeystoreFileStore {
	return &KeystoreFileStore{dir: dir}
}

// Path returns the location of the envelope file.
func (s *KeystoreFileStore) Path() string { return filepath.Join(s.dir, KeystoreFilename) }

// LoadKeystore reads the envelope; ok is false when none has been written.
func (s *KeystoreFileStore) LoadKeystore() (domain.EncryptedEnvelope, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var env domain.EncryptedEnvelope
	ok, err := readJSON(s.Path(), &env)
	if err != nil {
		return domain.EncryptedEnvelope{}, false, err
	}
	return env, ok, nil
}

// SaveKeystore replaces the envelope file.
func (s *KeystoreFileStore) SaveKeystore(env domain.EncryptedEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return writeJSON(s.Path(), env)
}

// Compile-time assertion that KeystoreFileStore implements domain.KeystoreStore.
var _ domain.KeystoreStore = (*KeystoreFileStore)(nil)
