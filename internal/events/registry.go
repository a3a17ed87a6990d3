package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownType is returned for stored events no factory is registered for.
var ErrUnknownType = errors.New("unknown event type")

// Registry turns stored events back into their concrete types.
type Registry struct {
	factories map[string]func() Event
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]func() Event)}
}

// Register sets the factory for eventType, replacing any earlier one.
func (r *Registry) Register(eventType string, factory func() Event) {
	r.factories[eventType] = factory
}

// Unmarshal decodes raw's payload into a new value of its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, raw.EventType)
	}
	e := factory()
	if err := json.Unmarshal([]byte(raw.Payload), e); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", raw.EventType, err)
	}
	return e, nil
}

// DefaultRegistry knows every event the log stores. Transient events are
// never written and so are not registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for t, f := range map[string]func() Event{
		EventRunStarted:          func() Event { return &RunStarted{} },
		EventRunCompleted:        func() Event { return &RunCompleted{} },
		EventSourceAdding:        func() Event { return &SourceAdding{} },
		EventSourceAdded:         func() Event { return &SourceAdded{} },
		EventSourceFailed:        func() Event { return &SourceFailed{} },
		EventGenerationTriggered: func() Event { return &GenerationTriggered{} },
		EventRetrieveStage:       func() Event { return &RetrieveStage{} },
		EventArtifactDownloaded:  func() Event { return &ArtifactDownloaded{} },
		EventArtifactFailed:      func() Event { return &ArtifactFailed{} },
		EventPublishCompleted:    func() Event { return &PublishCompleted{} },
		EventPublishFailed:       func() Event { return &PublishFailed{} },
	} {
		r.Register(t, f)
	}
	return r
}
