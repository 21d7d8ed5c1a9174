package types

// AccountID is the opaque, never-reused identifier of a local account.
type AccountID string

// String returns the string form of the account identifier.
func (id AccountID) String() string { return string(id) }

// LockState reports whether decrypted secret keys are held in memory.
type LockState int

const (
	// Locked means no secret key material is in memory.
	Locked LockState = iota
	// Unlocked means the keystore has been opened with the password.
	Unlocked
)

// String returns a human-readable lock state.
func (s LockState) String() string {
	if s == Unlocked {
		return "unlocked"
	}
	return "locked"
}
