package account

import (
	"sigil/internal/crypto"
	"sigil/internal/domain"
)

// UnlockedIdentity pairs an account record with its usable keypair. It is
// built on demand and never stored; call Wipe when finished.
type UnlockedIdentity struct {
	Record  domain.AccountRecord
	Keypair *crypto.Keypair
}

// Wipe zeroes the secret key.
func (u *UnlockedIdentity) Wipe() {
	if u == nil {
		return
	}
	u.Keypair.Wipe()
}
