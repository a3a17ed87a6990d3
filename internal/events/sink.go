package events

import "context"

// Sink receives events. *Bus is the production sink.
type Sink interface {
	Publish(ctx context.Context, e Event) error
}

// SinkFunc adapts a function to Sink. It runs synchronously on the
// publishing goroutine.
type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(context.Context, Event) error { return nil })

// Emit publishes e on sink, ignoring a nil sink.
func Emit(ctx context.Context, sink Sink, e Event) {
	if sink == nil {
		return
	}
	_ = sink.Publish(ctx, e)
}
