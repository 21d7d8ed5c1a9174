package types

// Common event kinds.
const (
	KindMetadata uint16 = 0
	KindTextNote uint16 = 1
)

// UnsignedEvent holds the fields that feed the event id.
type UnsignedEvent struct {
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      uint16     `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
}

// SignedEvent is an UnsignedEvent plus its id and Schnorr signature, in the
// field order relays expect.
type SignedEvent struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      uint16     `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// Unsigned strips the id and signature.
func (e SignedEvent) Unsigned() UnsignedEvent {
	return UnsignedEvent{
		PubKey:    e.PubKey,
		CreatedAt: e.CreatedAt,
		Kind:      e.Kind,
		Tags:      e.Tags,
		Content:   e.Content,
	}
}

// PublishResult is a relay's answer to an EVENT frame.
type PublishResult struct {
	EventID  string `json:"event_id"`
	Accepted bool   `json:"accepted"`
	Message  string `json:"message"`
}
