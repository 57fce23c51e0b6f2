package events

import (
	"context"

	"github.com/openpress/warden/ports"
)

// NopPublisher discards all events. Used when no broker is configured and
// in tests.
type NopPublisher struct{}

// NewNopPublisher creates a publisher that does nothing.
func NewNopPublisher() ports.EventPublisher {
	return &NopPublisher{}
}

func (NopPublisher) PublishLogin(ctx context.Context, identity, sessionID string) error {
	return nil
}

func (NopPublisher) PublishLogout(ctx context.Context, identity, sessionID string) error {
	return nil
}

func (NopPublisher) PublishAnomaly(ctx context.Context, identity, sessionID string) error {
	return nil
}
