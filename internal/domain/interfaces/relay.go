package interfaces

import (
	"context"

	domaintypes "sigil/internal/domain/types"
)

// RelayClient publishes signed events to a relay.
type RelayClient interface {
	Publish(ctx context.Context, event domaintypes.SignedEvent) (domaintypes.PublishResult, error)
}
