package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"sigil/internal/domain"
	"sigil/internal/util/memzero"
)

// Human-readable prefixes of the bech32 key encodings.
const (
	HRPPublicKey = "npub"
	HRPSecretKey = "nsec"
)

func encodeBech32(hrp string, data []byte) (string, error) {
	conv, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, conv)
}

func decodeBech32(wantHRP, s string) ([]byte, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: bad bech32 string: %v", domain.ErrValidation, err)
	}
	if hrp != wantHRP {
		return nil, fmt.Errorf("%w: expected %q prefix, got %q", domain.ErrValidation, wantHRP, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: bad bech32 payload: %v", domain.ErrValidation, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: %s payload must be 32 bytes, got %d", domain.ErrValidation, wantHRP, len(raw))
	}
	return raw, nil
}

// DecodeNpub returns the 32-byte x-only public key inside an npub string.
func DecodeNpub(npub string) ([]byte, error) {
	return decodeBech32(HRPPublicKey, npub)
}

// KeypairFromNsec decodes an nsec string and applies the same scalar
// validation as KeypairFromSecretHex.
func KeypairFromNsec(nsec string) (*Keypair, error) {
	raw, err := decodeBech32(HRPSecretKey, nsec)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(raw)
	return KeypairFromBytes(raw)
}
