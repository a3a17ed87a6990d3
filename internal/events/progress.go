package events

import "context"

// Progress is a (message, percent) pair. Percent is always within [0,100].
type Progress struct {
	BaseEvent
	Message string `json:"message"`
	Percent int    `json:"percent"`
}

// ClampPercent bounds p to [0,100].
func ClampPercent(p int) int {
	return min(max(p, 0), 100)
}

// NewProgress creates a Progress event, clamping percent.
func NewProgress(key, message string, percent int) *Progress {
	return &Progress{
		BaseEvent: NewBaseEvent(EventProgress, EntityRun, key),
		Message:   message,
		Percent:   ClampPercent(percent),
	}
}

// Reporter publishes progress for one unit of work, mapping the unit's own
// 0-100 scale onto a window of the parent's scale.
type Reporter struct {
	sink   Sink
	key    string
	prefix string
	lo, hi int
}

// NewReporter returns a reporter covering the full 0-100 range.
func NewReporter(sink Sink, key string) Reporter {
	return Reporter{sink: sink, key: key, lo: 0, hi: 100}
}

// Sub returns a reporter whose 0-100 maps onto [lo,hi] of r.
func (r Reporter) Sub(lo, hi int) Reporter {
	lo, hi = ClampPercent(lo), ClampPercent(hi)
	if hi < lo {
		lo, hi = hi, lo
	}
	span := r.hi - r.lo
	return Reporter{
		sink:   r.sink,
		key:    r.key,
		prefix: r.prefix,
		lo:     r.lo + span*lo/100,
		hi:     r.lo + span*hi/100,
	}
}

// WithPrefix returns a reporter that prepends prefix to every message.
func (r Reporter) WithPrefix(prefix string) Reporter {
	r.prefix = r.prefix + prefix
	return r
}

// Report publishes message at percent of this reporter's window.
func (r Reporter) Report(ctx context.Context, message string, percent int) {
	if r.sink == nil {
		return
	}
	scaled := r.lo + (r.hi-r.lo)*ClampPercent(percent)/100
	_ = r.sink.Publish(ctx, NewProgress(r.key, r.prefix+message, scaled))
}
