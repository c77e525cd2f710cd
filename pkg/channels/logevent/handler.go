package logevent

import (
	"context"

	"github.com/dmitrymomot/usernotify/pkg/notify"
)

// ChannelID is the conventional identifier of the log-event channel. Kinds
// implementing notify.LogEventer usually return it from LogEventChannel.
const ChannelID notify.ChannelID = "log"

// Handler writes the audit event of each envelope to a Sink.
type Handler struct {
	notify.HandlerBase
	sink Sink
}

// Option configures a Handler.
type Option func(*Handler)

// WithQueue delivers through the named queue.
func WithQueue(name string) Option {
	return func(h *Handler) {
		h.QueueName = name
	}
}

// New creates a log-event handler. A nil sink logs through slog.Default.
func New(sink Sink, opts ...Option) *Handler {
	if sink == nil {
		sink = SlogSink{}
	}
	h := &Handler{sink: sink}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Channel returns the catalog entry for this handler.
func (h *Handler) Channel() notify.Channel {
	return notify.Channel{ID: ChannelID, Title: "Audit log", Handler: h}
}

// Send implements notify.Handler.
func (h *Handler) Send(ctx context.Context, env *notify.Envelope) error {
	return h.sink.Write(ctx, FromEnvelope(env))
}
