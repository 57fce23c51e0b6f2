package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/openpress/warden/ports"
)

// Topics for security events. Other instances subscribe to evict local
// caches and feed audit trails.
const (
	TopicLogin   = "warden.auth.login"
	TopicLogout  = "warden.auth.logout"
	TopicAnomaly = "warden.auth.anomaly"
)

// SecurityEvent is the payload published for every auth event.
type SecurityEvent struct {
	Identity  string    `json:"identity"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a login event.
func (p *WatermillPublisher) PublishLogin(ctx context.Context, identity, sessionID string) error {
	return p.publish(TopicLogin, identity, sessionID)
}

// PublishLogout publishes a logout event.
func (p *WatermillPublisher) PublishLogout(ctx context.Context, identity, sessionID string) error {
	return p.publish(TopicLogout, identity, sessionID)
}

// PublishAnomaly publishes a session-anomaly event.
func (p *WatermillPublisher) PublishAnomaly(ctx context.Context, identity, sessionID string) error {
	return p.publish(TopicAnomaly, identity, sessionID)
}

func (p *WatermillPublisher) publish(topic, identity, sessionID string) error {
	event := SecurityEvent{
		Identity:  identity,
		SessionID: sessionID,
		At:        time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(sessionID, payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
