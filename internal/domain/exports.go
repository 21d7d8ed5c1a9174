package domain

import (
	interfaces "sigil/internal/domain/interfaces"
	types "sigil/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	AccountID         = types.AccountID
	LockState         = types.LockState
	AccountRecord     = types.AccountRecord
	AccountsConfig    = types.AccountsConfig
	SecuritySettings  = types.SecuritySettings
	ByteArray         = types.ByteArray
	EncryptedEnvelope = types.EncryptedEnvelope
	UnsignedEvent     = types.UnsignedEvent
	SignedEvent       = types.SignedEvent
	PublishResult     = types.PublishResult
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	AccountsStore = interfaces.AccountsStore
	KeystoreStore = interfaces.KeystoreStore
	EventSigner   = interfaces.EventSigner
	AccountLister = interfaces.AccountLister
	RelayClient   = interfaces.RelayClient
)

const (
	Locked   = types.Locked
	Unlocked = types.Unlocked

	KindMetadata = types.KindMetadata
	KindTextNote = types.KindTextNote
)

var (
	NewAccountsConfig       = types.NewAccountsConfig
	DefaultSecuritySettings = types.DefaultSecuritySettings
)
