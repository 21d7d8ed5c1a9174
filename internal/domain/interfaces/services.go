package interfaces

import domaintypes "sigil/internal/domain/types"

// EventSigner turns an unsigned event into one signed by the active account.
type EventSigner interface {
	SignEvent(
		unsigned domaintypes.UnsignedEvent,
		password []byte,
	) (domaintypes.SignedEvent, error)
}

// AccountLister exposes account metadata without touching secrets.
type AccountLister interface {
	List() []domaintypes.AccountRecord
	ActiveID() (domaintypes.AccountID, bool)
}
