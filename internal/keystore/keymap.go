package keystore

import (
	"sigil/internal/domain"
	"sigil/internal/util/memzero"
)

// SecretKeyMap holds decrypted 32-byte secret keys by account id. It lives
// only in memory; call Wipe when done with it.
type SecretKeyMap map[domain.AccountID][]byte

// Get returns the secret for id. The slice aliases the map's storage.
func (m SecretKeyMap) Get(id domain.AccountID) ([]byte, bool) {
	b, ok := m[id]
	return b, ok
}

// Put stores secret under id, zeroing any previous value. The map takes
// ownership of secret.
func (m SecretKeyMap) Put(id domain.AccountID, secret []byte) {
	if old, ok := m[id]; ok {
		memzero.Zero(old)
	}
	m[id] = secret
}

// Delete zeroes and removes id.
func (m SecretKeyMap) Delete(id domain.AccountID) {
	if old, ok := m[id]; ok {
		memzero.Zero(old)
		delete(m, id)
	}
}

// Clone deep-copies the map.
func (m SecretKeyMap) Clone() SecretKeyMap {
	out := make(SecretKeyMap, len(m))
	for id, b := range m {
		out[id] = append([]byte(nil), b...)
	}
	return out
}

// Wipe zeroes every secret and empties the map.
func (m SecretKeyMap) Wipe() {
	for id, b := range m {
		memzero.Zero(b)
		delete(m, id)
	}
}
