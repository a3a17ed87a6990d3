package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Filter selects the events a subscription receives.
type Filter func(Event) bool

type subscription struct {
	ch    chan Event
	match Filter
}

// Bus fans events out to subscribers and, when an EventLog is set, records
// the durable ones. Delivery never blocks the publisher: a subscriber whose
// buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	log    *EventLog // nil disables persistence
	logger *slog.Logger
	closed bool
}

// NewBus creates a bus. log may be nil.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{log: log, logger: logger.With("component", "events")}
}

// Transient reports whether events of this type are delivered to
// subscribers only and never written to the event log.
func Transient(eventType string) bool {
	return eventType == EventLogRecord || eventType == EventProgress
}

// Publish records e unless it is transient and hands it to every matching
// subscriber. Publishing on a closed bus is a no-op.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	if b.log != nil && !Transient(e.EventType()) {
		if _, err := b.log.Append(e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	for _, s := range b.subs {
		if s.match != nil && !s.match(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			b.logger.Warn("subscriber full, dropping event",
				"type", e.EventType(), "entity", e.EntityType(), "key", e.EntityKey())
		}
	}
	return nil
}

// SubscribeFunc returns a channel receiving the events match accepts. A nil
// match accepts everything.
func (b *Bus) SubscribeFunc(match Filter, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subs = append(b.subs, subscription{ch: ch, match: match})
	return ch
}

// Subscribe returns a channel for events of one type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	return b.SubscribeFunc(func(e Event) bool { return e.EventType() == eventType }, bufferSize)
}

// SubscribeAll returns a channel for every event.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	return b.SubscribeFunc(nil, bufferSize)
}

// SubscribeEntity returns a channel for the events of one entity, such as
// all progress of a run or every stage of one artifact.
func (b *Bus) SubscribeEntity(entityType, key string, bufferSize int) <-chan Event {
	return b.SubscribeFunc(func(e Event) bool {
		return e.EntityType() == entityType && e.EntityKey() == key
	}, bufferSize)
}

// Unsubscribe removes and closes a subscription channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.subs, func(s subscription) bool { return s.ch == ch })
	if i < 0 {
		return
	}
	close(b.subs[i].ch)
	b.subs = slices.Delete(b.subs, i, i+1)
}

// Close closes every subscription channel. Safe to call more than once.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
	return nil
}
