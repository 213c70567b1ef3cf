package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"credvault/internal/events"
)

// Entry represents a pending event in the outbox table.
// It follows the transactional outbox pattern for reliable event publishing.
type Entry struct {
	ID            uuid.UUID
	AggregateType string     // "issuer", "credential", "consent"
	AggregateID   string     // issuer principal or commitment hex
	EventType     string     // e.g. "credential_issued"
	Payload       []byte     // JSON-encoded events.Event
	CreatedAt     time.Time  // When the entry was created
	ProcessedAt   *time.Time // NULL = pending, non-NULL = published to Kafka
}

// IsPending returns true if this entry has not been processed yet.
func (e *Entry) IsPending() bool {
	return e.ProcessedAt == nil
}

// NewEntry creates a new outbox entry with a generated UUID.
func NewEntry(aggregateType, aggregateID, eventType string, payload []byte) *Entry {
	return &Entry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
}

// FromEvent serializes a domain event into an outbox entry.
func FromEvent(event events.Event) (*Entry, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return NewEntry(event.AggregateType(), event.AggregateID(), string(event.Type), payload), nil
}
