package notify

import "context"

// SendFunc delivers an envelope.
type SendFunc func(ctx context.Context, env *Envelope) error

// Middleware wraps a SendFunc, e.g. to rate limit or to skip recipients.
type Middleware func(next SendFunc) SendFunc

// Handler delivers envelopes over one transport.
type Handler interface {
	Send(ctx context.Context, env *Envelope) error
	// Middleware returns the wrappers applied around Send for r, outermost first.
	Middleware(r Recipient) []Middleware
	// Queue names the queue deliveries go through, or "" to deliver synchronously.
	Queue() string
}

// HandlerBase gives a handler no middleware and the queue QueueName.
// Embed it and implement Send.
type HandlerBase struct {
	QueueName string
}

// Middleware implements Handler.
func (HandlerBase) Middleware(Recipient) []Middleware { return nil }

// Queue implements Handler.
func (b HandlerBase) Queue() string { return b.QueueName }

// HandlerFunc adapts a function to a synchronous Handler without middleware.
type HandlerFunc func(ctx context.Context, env *Envelope) error

func (f HandlerFunc) Send(ctx context.Context, env *Envelope) error { return f(ctx, env) }
func (HandlerFunc) Middleware(Recipient) []Middleware               { return nil }
func (HandlerFunc) Queue() string                                   { return "" }

// Deliver sends env through h's middleware chain.
func Deliver(ctx context.Context, h Handler, env *Envelope) error {
	send := SendFunc(h.Send)
	mws := h.Middleware(env.Recipient)
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			send = mws[i](send)
		}
	}
	return send(ctx, env)
}
