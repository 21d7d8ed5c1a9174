package keystore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/internal/domain"
)

func TestSecretKeyMap_Wipe(t *testing.T) {
	secret := []byte{1, 2, 3}
	m := SecretKeyMap{"a": secret}

	m.Wipe()
	require.Empty(t, m)
	require.Equal(t, []byte{0, 0, 0}, secret)
}

func TestSecretKeyMap_PutDelete(t *testing.T) {
	old := []byte{9, 9}
	m := SecretKeyMap{"a": old}

	m.Put("a", []byte{7})
	require.Equal(t, []byte{0, 0}, old)
	got, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, []byte{7}, got)

	m.Delete("a")
	_, ok = m.Get("a")
	require.False(t, ok)
	m.Delete("missing")
}

func TestUnmarshalKeyMap_Malformed(t *testing.T) {
	for name, in := range map[string]string{
		"not json":     "{",
		"not object":   "[]",
		"short secret": `{"a":"abcd"}`,
		"not string":   `{"a":12}`,
		"not hex":      `{"a":"` + strings.Repeat("zz", 32) + `"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := unmarshalKeyMap([]byte(in))
			require.ErrorIs(t, err, ErrMalformedKeyData)
			require.ErrorIs(t, err, domain.ErrCrypto)
		})
	}
}

func TestOpen_MalformedPlaintext(t *testing.T) {
	s := New(Params{Time: 1, MemoryKiB: 64, Threads: 1})
	pw := []byte("pw")
	env, err := s.Seal(SecretKeyMap{}, pw)
	require.NoError(t, err)

	// Re-encrypt a non-map payload under the same derived key.
	hash, salt, err := s.authenticate(env, pw)
	require.NoError(t, err)
	aead, err := newAEAD(hash, salt)
	require.NoError(t, err)
	env.EncryptedData = aead.Seal(nil, env.Nonce, []byte(`["not","a","map"]`), nil)

	_, err = s.Open(env, pw)
	require.ErrorIs(t, err, ErrMalformedKeyData)
}

func TestMarshalKeyMap_Format(t *testing.T) {
	secret := make([]byte, 32)
	secret[31] = 0xab
	out, err := SecretKeyMap{"id-1": secret}.marshal()
	require.NoError(t, err)
	require.JSONEq(t, `{"id-1":"00000000000000000000000000000000000000000000000000000000000000ab"}`, string(out))
}
