package ports

import "context"

// EventPublisher publishes security events to notify other instances.
type EventPublisher interface {
	PublishLogin(ctx context.Context, identity, sessionID string) error
	PublishLogout(ctx context.Context, identity, sessionID string) error
	PublishAnomaly(ctx context.Context, identity, sessionID string) error
}
