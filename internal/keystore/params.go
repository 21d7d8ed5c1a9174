package keystore

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonVersionTag = "argon2id"
	hashBytes       = 32

	// maxMemoryKiB and maxTime bound parameters read back from disk (4 GiB, 256 passes).
	maxMemoryKiB = 4 << 20
	maxTime      = 256
)

var b64 = base64.RawStdEncoding

// Params are the argon2id cost parameters.
type Params struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
}

// DefaultParams returns the recommended interactive cost (19 MiB, 2 passes).
func DefaultParams() Params {
	return Params{Time: 2, MemoryKiB: 19 * 1024, Threads: 1}
}

func (p Params) valid() bool {
	return p.Time > 0 && p.Time <= maxTime && p.Threads > 0 && p.MemoryKiB >= 8*uint32(p.Threads) && p.MemoryKiB <= maxMemoryKiB
}

func (p Params) hash(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, p.Time, p.MemoryKiB, p.Threads, hashBytes)
}

// verifier is the parsed form of the password_hash field.
type verifier struct {
	params Params
	salt   []byte
	hash   []byte
}

func (v verifier) String() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argonVersionTag, argon2.Version,
		v.params.MemoryKiB, v.params.Time, v.params.Threads,
		b64.EncodeToString(v.salt), b64.EncodeToString(v.hash))
}

func parseVerifier(s string) (verifier, error) {
	// "$argon2id$v=19$m=..,t=..,p=..$salt$hash" splits into 6 parts, first empty.
	parts := strings.Split(s, "$")
	if len(parts) != 6 || parts[0] != "" {
		return verifier{}, fmt.Errorf("%w: password hash has %d fields", ErrCorruptEnvelope, len(parts))
	}
	if parts[1] != argonVersionTag {
		return verifier{}, fmt.Errorf("%w: unsupported password hash %q", ErrCorruptEnvelope, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return verifier{}, fmt.Errorf("%w: unsupported argon2 version %q", ErrCorruptEnvelope, parts[2])
	}

	var v verifier
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&v.params.MemoryKiB, &v.params.Time, &v.params.Threads); err != nil {
		return verifier{}, fmt.Errorf("%w: bad argon2 parameters %q", ErrCorruptEnvelope, parts[3])
	}
	if !v.params.valid() {
		return verifier{}, fmt.Errorf("%w: argon2 parameters out of range %q", ErrCorruptEnvelope, parts[3])
	}

	var err error
	if v.salt, err = b64.DecodeString(parts[4]); err != nil || len(v.salt) == 0 {
		return verifier{}, fmt.Errorf("%w: bad password hash salt", ErrCorruptEnvelope)
	}
	if v.hash, err = b64.DecodeString(parts[5]); err != nil || len(v.hash) != hashBytes {
		return verifier{}, fmt.Errorf("%w: bad password hash digest", ErrCorruptEnvelope)
	}
	return v, nil
}
