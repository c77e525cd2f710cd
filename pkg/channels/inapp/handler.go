package inapp

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/usernotify/pkg/inbox"
	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/notify"
)

// ChannelID is the conventional identifier of the in-app channel.
const ChannelID notify.ChannelID = "inapp"

// Inbox is the part of *inbox.Manager used by the handler.
type Inbox interface {
	Send(ctx context.Context, notif inbox.Notification) (inbox.Notification, error)
}

// Handler stores envelopes in the user's inbox. Text blocks become the
// markdown message and action blocks become inbox actions.
type Handler struct {
	notify.HandlerBase
	inbox  Inbox
	logger *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithQueue delivers through the named queue.
func WithQueue(name string) Option {
	return func(h *Handler) {
		h.QueueName = name
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates an in-app channel handler.
func New(box Inbox, opts ...Option) *Handler {
	h := &Handler{inbox: box, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Channel returns the catalog entry for this handler.
func (h *Handler) Channel() notify.Channel {
	return notify.Channel{ID: ChannelID, Title: "In-app", Handler: h}
}

// Send implements notify.Handler.
func (h *Handler) Send(ctx context.Context, env *notify.Envelope) error {
	n, err := h.inbox.Send(ctx, ToInbox(env))
	if err != nil {
		return err
	}

	h.logger.LogAttrs(ctx, slog.LevelDebug, "notification stored in inbox",
		logger.MessageID(n.ID),
		logger.UserID(n.UserID),
		logger.NotificationType(n.Type),
	)
	return nil
}

// ToInbox converts env to an inbox notification with the envelope's ID.
func ToInbox(env *notify.Envelope) inbox.Notification {
	n := inbox.Notification{
		ID:        env.ID,
		UserID:    env.Recipient.ID,
		Type:      string(env.Type),
		Title:     env.Title,
		CreatedAt: env.CreatedAt,
	}
	if n.Title == "" {
		n.Title = env.Subject
	}
	if env.Important {
		n.Priority = inbox.PriorityHigh
	}
	if env.Locale != "" {
		n.Data = map[string]string{"locale": env.Locale}
	}

	text := make([]notify.Block, 0, len(env.Blocks))
	for _, b := range env.Blocks {
		if b.Kind == notify.BlockAction {
			n.Actions = append(n.Actions, inbox.Action{Label: b.Text(), URL: b.URL})
			continue
		}
		text = append(text, b)
	}
	n.Message = notify.Markdown(text)
	return n
}
