package interfaces

import domaintypes "sigil/internal/domain/types"

// AccountsStore persists the account metadata file.
type AccountsStore interface {
	// LoadAccounts returns ok=false when nothing has been written yet.
	LoadAccounts() (cfg domaintypes.AccountsConfig, ok bool, err error)
	SaveAccounts(cfg domaintypes.AccountsConfig) error
}

// KeystoreStore persists the encrypted keystore envelope.
type KeystoreStore interface {
	// LoadKeystore returns ok=false when no keystore exists yet.
	LoadKeystore() (env domaintypes.EncryptedEnvelope, ok bool, err error)
	SaveKeystore(env domaintypes.EncryptedEnvelope) error
}
