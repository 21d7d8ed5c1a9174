package keystore

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"sigil/internal/domain"
	"sigil/internal/util/memzero"
)

const (
	// FormatVersion is the envelope layout written by Seal.
	FormatVersion = 1

	SaltBytes      = 16
	SecretKeyBytes = 32
)

// keyLabel separates the cipher key from the verifier hash.
var keyLabel = []byte("sigil keystore v1 chacha20poly1305 key")

var (
	// ErrBadPassword is returned when the password does not match the verifier.
	ErrBadPassword = fmt.Errorf("%w: wrong password", domain.ErrAuthentication)
	// ErrCorruptEnvelope is returned for AEAD failures and malformed fields.
	ErrCorruptEnvelope = fmt.Errorf("%w: corrupt keystore envelope", domain.ErrCrypto)
	// ErrMalformedKeyData is returned when decrypted bytes are not a key map.
	ErrMalformedKeyData = fmt.Errorf("%w: malformed key data", domain.ErrCrypto)
)

// Sealer seals and opens envelopes with fixed argon2id parameters. Opening
// always uses the parameters recorded in the envelope itself.
type Sealer struct {
	params Params
	rand   io.Reader
}

// New returns a Sealer that seals with params. Zero params select DefaultParams.
func New(params Params) *Sealer {
	if params == (Params{}) {
		params = DefaultParams()
	}
	return &Sealer{params: params, rand: rand.Reader}
}

// Params reports the cost parameters used by Seal.
func (s *Sealer) Params() Params { return s.params }

// Seal encrypts keys under password with a fresh salt and nonce.
func (s *Sealer) Seal(keys SecretKeyMap, password []byte) (domain.EncryptedEnvelope, error) {
	if len(password) == 0 {
		return domain.EncryptedEnvelope{}, fmt.Errorf("%w: password is empty", domain.ErrValidation)
	}
	if !s.params.valid() {
		return domain.EncryptedEnvelope{}, fmt.Errorf("%w: invalid argon2 parameters %+v", domain.ErrValidation, s.params)
	}

	salt := make([]byte, SaltBytes)
	if _, err := io.ReadFull(s.rand, salt); err != nil {
		return domain.EncryptedEnvelope{}, fmt.Errorf("read salt: %w", err)
	}
	hash := s.params.hash(password, salt)
	defer memzero.Zero(hash)

	plaintext, err := keys.marshal()
	if err != nil {
		return domain.EncryptedEnvelope{}, err
	}
	defer memzero.Zero(plaintext)

	aead, err := newAEAD(hash, salt)
	if err != nil {
		return domain.EncryptedEnvelope{}, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(s.rand, nonce); err != nil {
		return domain.EncryptedEnvelope{}, fmt.Errorf("read nonce: %w", err)
	}

	v := verifier{params: s.params, salt: salt, hash: hash}
	return domain.EncryptedEnvelope{
		Salt:          b64.EncodeToString(salt),
		PasswordHash:  v.String(),
		Nonce:         nonce,
		EncryptedData: aead.Seal(nil, nonce, plaintext, nil),
		Version:       FormatVersion,
	}, nil
}

// Open checks password against the verifier and, only if it matches,
// decrypts and parses the key map.
func (s *Sealer) Open(env domain.EncryptedEnvelope, password []byte) (SecretKeyMap, error) {
	hash, salt, err := s.authenticate(env, password)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(hash)

	aead, err := newAEAD(hash, salt)
	if err != nil {
		return nil, err
	}
	if len(env.Nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrCorruptEnvelope, len(env.Nonce), aead.NonceSize())
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.EncryptedData, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEnvelope, err)
	}
	defer memzero.Zero(plaintext)

	return unmarshalKeyMap(plaintext)
}

// VerifyPassword checks password against the verifier without decrypting.
func (s *Sealer) VerifyPassword(env domain.EncryptedEnvelope, password []byte) error {
	hash, _, err := s.authenticate(env, password)
	if err != nil {
		return err
	}
	memzero.Zero(hash)
	return nil
}

// AddKey re-seals env with accountID mapped to secretHex, replacing any
// existing entry.
func (s *Sealer) AddKey(
	env domain.EncryptedEnvelope,
	password []byte,
	accountID domain.AccountID,
	secretHex string,
) (domain.EncryptedEnvelope, error) {
	if accountID == "" {
		return domain.EncryptedEnvelope{}, fmt.Errorf("%w: account id is empty", domain.ErrValidation)
	}
	secret, err := decodeSecret(secretHex)
	if err != nil {
		return domain.EncryptedEnvelope{}, err
	}

	keys, err := s.Open(env, password)
	if err != nil {
		memzero.Zero(secret)
		return domain.EncryptedEnvelope{}, err
	}
	defer keys.Wipe()

	keys.Put(accountID, secret)
	return s.Seal(keys, password)
}

// RemoveKey re-seals env without accountID. Removing an absent id is not an error.
func (s *Sealer) RemoveKey(
	env domain.EncryptedEnvelope,
	password []byte,
	accountID domain.AccountID,
) (domain.EncryptedEnvelope, error) {
	keys, err := s.Open(env, password)
	if err != nil {
		return domain.EncryptedEnvelope{}, err
	}
	defer keys.Wipe()

	keys.Delete(accountID)
	return s.Seal(keys, password)
}

// authenticate validates the envelope header, recomputes the argon2id hash
// with the recorded parameters and compares it with the verifier. It returns
// the hash for key derivation so the expensive function runs once.
func (s *Sealer) authenticate(env domain.EncryptedEnvelope, password []byte) (hash, salt []byte, err error) {
	if len(password) == 0 {
		return nil, nil, fmt.Errorf("%w: password is empty", domain.ErrValidation)
	}
	if env.Version == 0 || env.Version > FormatVersion {
		return nil, nil, fmt.Errorf("%w: unsupported keystore version %d", ErrCorruptEnvelope, env.Version)
	}
	v, err := parseVerifier(env.PasswordHash)
	if err != nil {
		return nil, nil, err
	}
	salt, err = b64.DecodeString(env.Salt)
	if err != nil || subtle.ConstantTimeCompare(salt, v.salt) != 1 {
		return nil, nil, fmt.Errorf("%w: salt does not match password hash", ErrCorruptEnvelope)
	}

	hash = v.params.hash(password, v.salt)
	if subtle.ConstantTimeCompare(hash, v.hash) != 1 {
		memzero.Zero(hash)
		return nil, nil, ErrBadPassword
	}
	return hash, salt, nil
}

func newAEAD(hash, salt []byte) (cipher.AEAD, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	defer memzero.Zero(key)
	if _, err := io.ReadFull(hkdf.New(sha256.New, hash, salt, keyLabel), key); err != nil {
		return nil, fmt.Errorf("derive keystore key: %w", err)
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCrypto, err)
	}
	return aead, nil
}

func decodeSecret(secretHex string) ([]byte, error) {
	if len(secretHex) != hex.EncodedLen(SecretKeyBytes) {
		return nil, fmt.Errorf("%w: secret key must be %d hex characters",
			domain.ErrValidation, hex.EncodedLen(SecretKeyBytes))
	}
	secret := make([]byte, SecretKeyBytes)
	if _, err := hex.Decode(secret, []byte(secretHex)); err != nil {
		memzero.Zero(secret)
		return nil, fmt.Errorf("%w: secret key is not hex: %v", domain.ErrValidation, err)
	}
	return secret, nil
}

// marshal renders the map as {"id":"hex",...}. Every intermediate buffer
// holding secret hex is zeroed before returning.
func (m SecretKeyMap) marshal() ([]byte, error) {
	raws := make(map[domain.AccountID]json.RawMessage, len(m))
	defer func() {
		for _, r := range raws {
			memzero.Zero(r)
		}
	}()
	for id, secret := range m {
		r := make([]byte, hex.EncodedLen(len(secret))+2)
		r[0], r[len(r)-1] = '"', '"'
		hex.Encode(r[1:len(r)-1], secret)
		raws[id] = r
	}
	out, err := json.Marshal(raws)
	if err != nil {
		return nil, fmt.Errorf("encode key map: %w", err)
	}
	return out, nil
}

func unmarshalKeyMap(plaintext []byte) (SecretKeyMap, error) {
	var raws map[domain.AccountID]json.RawMessage
	if err := json.Unmarshal(plaintext, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKeyData, err)
	}
	defer func() {
		for _, r := range raws {
			memzero.Zero(r)
		}
	}()

	keys := make(SecretKeyMap, len(raws))
	for id, r := range raws {
		if len(r) != hex.EncodedLen(SecretKeyBytes)+2 || r[0] != '"' || r[len(r)-1] != '"' {
			keys.Wipe()
			return nil, fmt.Errorf("%w: entry %q is not a %d-byte hex string", ErrMalformedKeyData, id, SecretKeyBytes)
		}
		secret := make([]byte, SecretKeyBytes)
		if _, err := hex.Decode(secret, r[1:len(r)-1]); err != nil {
			keys.Wipe()
			return nil, fmt.Errorf("%w: entry %q: %v", ErrMalformedKeyData, id, err)
		}
		keys[id] = secret
	}
	return keys, nil
}
