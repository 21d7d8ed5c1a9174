package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"sigil/internal/domain"
	"sigil/internal/util/memzero"
)

const (
	SecretKeySize = 32
	PublicKeySize = 32
	DigestSize    = 32
	SignatureSize = 64
)

// Keypair is a secp256k1 signing key with its cached x-only public key.
type Keypair struct {
	priv *btcec.PrivateKey
	pub  [PublicKeySize]byte
}

// GenerateKeypair returns a keypair with a uniformly random secret scalar.
func GenerateKeypair() (*Keypair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate secp256k1 key: %w", err)
	}
	return newKeypair(priv), nil
}

// KeypairFromSecretHex decodes a 64-character hex secret key. It rejects
// anything that is not exactly 32 bytes or not a valid scalar (zero, or not
// below the curve order).
func KeypairFromSecretHex(secretHex string) (*Keypair, error) {
	raw, err := hex.DecodeString(secretHex)
	if err != nil {
		return nil, fmt.Errorf("%w: secret key is not hex: %v", domain.ErrValidation, err)
	}
	defer memzero.Zero(raw)
	return KeypairFromBytes(raw)
}

// KeypairFromBytes validates a raw 32-byte secret key.
func KeypairFromBytes(raw []byte) (*Keypair, error) {
	if len(raw) != SecretKeySize {
		return nil, fmt.Errorf("%w: secret key must be %d bytes, got %d",
			domain.ErrValidation, SecretKeySize, len(raw))
	}
	var scalar secp256k1.ModNScalar
	overflow := scalar.SetByteSlice(raw)
	defer scalar.Zero()
	if overflow {
		return nil, fmt.Errorf("%w: secret key is not below the curve order", domain.ErrValidation)
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("%w: secret key is zero", domain.ErrValidation)
	}
	return newKeypair(secp256k1.NewPrivateKey(&scalar)), nil
}

func newKeypair(priv *btcec.PrivateKey) *Keypair {
	kp := &Keypair{priv: priv}
	copy(kp.pub[:], schnorr.SerializePubKey(priv.PubKey()))
	return kp
}

// PublicKey returns the 32-byte x-only public key.
func (k *Keypair) PublicKey() [PublicKeySize]byte { return k.pub }

// PublicKeyHex returns the x-only public key as 64 lowercase hex characters.
func (k *Keypair) PublicKeyHex() string { return hex.EncodeToString(k.pub[:]) }

// PublicKeyNpub returns the bech32 "npub" form of the public key.
func (k *Keypair) PublicKeyNpub() string {
	s, err := encodeBech32(HRPPublicKey, k.pub[:])
	if err != nil {
		// 32 bytes always fit in a bech32 string.
		panic(err)
	}
	return s
}

// SecretKeyBytes returns a copy of the 32-byte secret. Callers own and
// should zero the returned slice.
func (k *Keypair) SecretKeyBytes() []byte { return k.priv.Serialize() }

// SecretKeyHex returns the secret key as 64 lowercase hex characters.
func (k *Keypair) SecretKeyHex() string {
	raw := k.priv.Serialize()
	defer memzero.Zero(raw)
	return hex.EncodeToString(raw)
}

// SecretKeyNsec returns the bech32 "nsec" form of the secret key.
func (k *Keypair) SecretKeyNsec() (string, error) {
	raw := k.priv.Serialize()
	defer memzero.Zero(raw)
	return encodeBech32(HRPSecretKey, raw)
}

// Wipe zeroes the secret scalar. The keypair must not be used afterwards.
func (k *Keypair) Wipe() {
	if k == nil || k.priv == nil {
		return
	}
	k.priv.Zero()
	k.priv = nil
}
