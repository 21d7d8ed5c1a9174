package domain

import "errors"

// Error categories shared by every package. Concrete errors wrap one of
// these so callers can branch with errors.Is.
var (
	// ErrValidation marks malformed input: bad hex, wrong lengths, empty fields.
	ErrValidation = errors.New("validation error")
	// ErrAuthentication marks a wrong password.
	ErrAuthentication = errors.New("authentication error")
	// ErrCrypto marks AEAD failures and malformed envelope fields.
	ErrCrypto = errors.New("crypto error")
	// ErrNotFound marks an unknown account id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate marks an import of an already present public key.
	ErrDuplicate = errors.New("duplicate")
	// ErrIntegrity marks disagreement between persisted files, or between a
	// relay reply and the request it answers.
	ErrIntegrity = errors.New("integrity error")
	// ErrStorage marks durable read or write failures.
	ErrStorage = errors.New("storage error")
	// ErrLocked is returned when secrets are needed but the keystore is locked.
	ErrLocked = errors.New("keystore is locked")
)
