// Package events carries workflow progress and log records from the
// automation steps to whoever presents them.
package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	EntityType() string // "run", "source", "artifact", "episode", "log"
	EntityKey() string  // run ID or source URL
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	Key       string    `json:"entity_key"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityKey() string     { return e.Key }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, entityType, key string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		Key:       key,
		Timestamp: time.Now(),
	}
}
