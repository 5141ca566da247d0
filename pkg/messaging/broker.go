package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Broker publishes messages to named channels.
type Broker interface {
	Publish(ctx context.Context, channel string, msg Message) error
	Close() error
}

// Message is the envelope published for every outbox event. ID is the outbox
// event id so consumers can drop redeliveries.
type Message struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
