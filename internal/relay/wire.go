package relay

import (
	"bytes"
	"encoding/json"
	"fmt"

	"sigil/internal/domain"
)

// Frame labels.
const (
	TypeEvent  = "EVENT"
	TypeOK     = "OK"
	TypeNotice = "NOTICE"
	TypeEOSE   = "EOSE"
	TypeClosed = "CLOSED"
)

var (
	// ErrMalformedMessage is returned for frames that are not a known relay message.
	ErrMalformedMessage = fmt.Errorf("%w: malformed relay message", domain.ErrValidation)
	// ErrIDMismatch is returned when a relay acknowledges an id other than the one sent.
	ErrIDMismatch = fmt.Errorf("%w: relay acknowledged a different event id", domain.ErrIntegrity)
)

// Message is a decoded relay-to-client frame. Which fields are set depends on Type.
type Message struct {
	Type           string
	SubscriptionID string              // EVENT, EOSE, CLOSED
	EventID        string              // OK
	Accepted       bool                // OK
	Text           string              // OK, NOTICE, CLOSED
	Event          *domain.SignedEvent // EVENT
}

// EncodeEvent returns the ["EVENT", ev] frame.
func EncodeEvent(ev domain.SignedEvent) ([]byte, error) {
	if ev.Tags == nil {
		ev.Tags = [][]string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode([]any{TypeEvent, ev}); err != nil {
		return nil, fmt.Errorf("encode event frame: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ParseMessage decodes a relay frame.
func ParseMessage(data []byte) (Message, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if len(parts) == 0 {
		return Message{}, fmt.Errorf("%w: empty frame", ErrMalformedMessage)
	}

	var msg Message
	if err := json.Unmarshal(parts[0], &msg.Type); err != nil {
		return Message{}, fmt.Errorf("%w: frame label: %v", ErrMalformedMessage, err)
	}

	var fields []any
	switch msg.Type {
	case TypeOK:
		fields = []any{&msg.EventID, &msg.Accepted, &msg.Text}
	case TypeNotice:
		fields = []any{&msg.Text}
	case TypeEvent:
		msg.Event = new(domain.SignedEvent)
		fields = []any{&msg.SubscriptionID, msg.Event}
	case TypeEOSE:
		fields = []any{&msg.SubscriptionID}
	case TypeClosed:
		fields = []any{&msg.SubscriptionID, &msg.Text}
	default:
		return Message{}, fmt.Errorf("%w: unknown label %q", ErrMalformedMessage, msg.Type)
	}

	if len(parts)-1 != len(fields) {
		return Message{}, fmt.Errorf("%w: %s frame has %d elements, want %d",
			ErrMalformedMessage, msg.Type, len(parts), len(fields)+1)
	}
	for i, dst := range fields {
		if err := json.Unmarshal(parts[i+1], dst); err != nil {
			return Message{}, fmt.Errorf("%w: %s element %d: %v", ErrMalformedMessage, msg.Type, i+1, err)
		}
	}
	return msg, nil
}
