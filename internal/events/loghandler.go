package events

import (
	"context"
	"log/slog"
)

// LogRecord is a log line forwarded onto the bus.
type LogRecord struct {
	BaseEvent
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

// LogHandler is a slog.Handler that publishes records as LogRecord events,
// so presentation layers consume logs from the sink they already watch
// instead of capturing a process-wide stream.
type LogHandler struct {
	sink   Sink
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

// NewLogHandler returns a handler publishing records at or above level.
func NewLogHandler(sink Sink, level slog.Leveler) *LogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LogHandler{sink: sink, level: level}
}

func (h *LogHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]string, r.NumAttrs()+len(h.attrs))
	prefix := ""
	for _, g := range h.groups {
		prefix += g + "."
	}
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[prefix+a.Key] = a.Value.String()
		return true
	})

	e := &LogRecord{
		BaseEvent: NewBaseEvent(EventLogRecord, EntityLog, attrs["component"]),
		Level:     r.Level.String(),
		Message:   r.Message,
		Attrs:     attrs,
	}
	e.Timestamp = r.Time
	return h.sink.Publish(ctx, e)
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}
