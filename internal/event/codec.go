package event

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"

	sha256 "github.com/minio/sha256-simd"

	"sigil/internal/crypto"
	"sigil/internal/domain"
)

// NewTextNote returns an unsigned kind-1 note with no tags.
func NewTextNote(pubKeyHex, content string, at time.Time) domain.UnsignedEvent {
	return domain.UnsignedEvent{
		PubKey:    pubKeyHex,
		CreatedAt: at.Unix(),
		Kind:      domain.KindTextNote,
		Tags:      [][]string{},
		Content:   content,
	}
}

// ComputeID returns the 64-character hex id of u.
func ComputeID(u domain.UnsignedEvent) string {
	sum := digest(u)
	return hex.EncodeToString(sum[:])
}

func digest(u domain.UnsignedEvent) [32]byte {
	return sha256.Sum256(CanonicalBytes(u))
}

// Sign computes the id of u and signs it with kp. An empty PubKey is filled
// from kp; a PubKey belonging to another key is rejected because the result
// could never verify. Content and tags must be valid UTF-8, since JSON framing
// would replace invalid bytes and change the id.
func Sign(u domain.UnsignedEvent, kp *crypto.Keypair) (domain.SignedEvent, error) {
	if err := checkUTF8(u); err != nil {
		return domain.SignedEvent{}, err
	}
	pub := kp.PublicKeyHex()
	switch u.PubKey {
	case "":
		u.PubKey = pub
	case pub:
	default:
		return domain.SignedEvent{}, fmt.Errorf("%w: event pubkey %q does not match signing key %q",
			domain.ErrValidation, u.PubKey, pub)
	}
	if u.Tags == nil {
		u.Tags = [][]string{}
	}

	id := digest(u)
	sig, err := kp.Sign(id[:])
	if err != nil {
		return domain.SignedEvent{}, fmt.Errorf("sign event: %w", err)
	}
	return domain.SignedEvent{
		ID:        hex.EncodeToString(id[:]),
		PubKey:    u.PubKey,
		CreatedAt: u.CreatedAt,
		Kind:      u.Kind,
		Tags:      u.Tags,
		Content:   u.Content,
		Sig:       hex.EncodeToString(sig),
	}, nil
}

// Verify reports whether ev is authentic: its id matches its fields and its
// signature is valid for that id under its pubkey. Malformed hex or wrong
// lengths are returned as validation errors, never as false.
func Verify(ev domain.SignedEvent) (bool, error) {
	id, err := decodeField("id", ev.ID, 32)
	if err != nil {
		return false, err
	}
	sig, err := decodeField("sig", ev.Sig, crypto.SignatureSize)
	if err != nil {
		return false, err
	}
	pub, err := decodeField("pubkey", ev.PubKey, crypto.PublicKeySize)
	if err != nil {
		return false, err
	}

	want := digest(ev.Unsigned())
	if !bytes.Equal(want[:], id) {
		return false, nil
	}
	return crypto.Verify(pub, id, sig)
}

func checkUTF8(u domain.UnsignedEvent) error {
	if !utf8.ValidString(u.Content) {
		return fmt.Errorf("%w: content is not valid UTF-8", domain.ErrValidation)
	}
	for i, tag := range u.Tags {
		for j, v := range tag {
			if !utf8.ValidString(v) {
				return fmt.Errorf("%w: tag %d value %d is not valid UTF-8", domain.ErrValidation, i, j)
			}
		}
	}
	return nil
}

func decodeField(name, value string, size int) ([]byte, error) {
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not hex: %v", domain.ErrValidation, name, err)
	}
	if len(b) != size {
		return nil, fmt.Errorf("%w: %s must be %d bytes, got %d", domain.ErrValidation, name, size, len(b))
	}
	return b, nil
}
