package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"sigil/internal/domain"
)

// Sign produces a 64-byte BIP-340 signature over a 32-byte digest using a
// deterministic nonce.
func (k *Keypair) Sign(digest []byte) ([]byte, error) {
	if len(digest) != DigestSize {
		return nil, fmt.Errorf("%w: digest must be %d bytes, got %d",
			domain.ErrValidation, DigestSize, len(digest))
	}
	if k == nil || k.priv == nil {
		return nil, fmt.Errorf("%w: keypair has been wiped", domain.ErrValidation)
	}
	sig, err := schnorr.Sign(k.priv, digest)
	if err != nil {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return sig.Serialize(), nil
}

// Verify checks a BIP-340 signature. Wrong input lengths are errors; every
// other failure, including keys that are not on the curve, yields false.
func Verify(pubKey, digest, sig []byte) (bool, error) {
	switch {
	case len(pubKey) != PublicKeySize:
		return false, fmt.Errorf("%w: public key must be %d bytes, got %d",
			domain.ErrValidation, PublicKeySize, len(pubKey))
	case len(digest) != DigestSize:
		return false, fmt.Errorf("%w: digest must be %d bytes, got %d",
			domain.ErrValidation, DigestSize, len(digest))
	case len(sig) != SignatureSize:
		return false, fmt.Errorf("%w: signature must be %d bytes, got %d",
			domain.ErrValidation, SignatureSize, len(sig))
	}

	pub, err := schnorr.ParsePubKey(pubKey)
	if err != nil {
		return false, nil
	}
	parsed, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false, nil
	}
	return parsed.Verify(digest, pub), nil
}
