package external

import (
	"context"

	"kudosnotify/internal/types"
)

// EmailProvider abstracts the transactional email delivery service. Send
// transmits one fully-assembled envelope and returns the provider's
// receipt on success. Implementations own their retry behavior; a call
// that returns an error has exhausted it.
type EmailProvider interface {
	Send(ctx context.Context, envelope types.Envelope) (*types.ProviderReceipt, error)
}
