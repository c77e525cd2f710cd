package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/usernotify/pkg/email"
	"github.com/dmitrymomot/usernotify/pkg/email/templates"
	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/notify"
)

// ChannelID is the conventional identifier of the mail channel.
const ChannelID notify.ChannelID = "mail"

// ErrNoAddress is returned when the recipient has no email address.
var ErrNoAddress = errors.New("mail: recipient has no email address")

// Handler delivers envelopes as transactional email.
type Handler struct {
	notify.HandlerBase
	sender      email.EmailSender
	body        func(env *notify.Envelope) templ.Component
	middlewares []notify.Middleware
	logger      *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithQueue delivers mail through the named queue.
func WithQueue(name string) Option {
	return func(h *Handler) {
		h.QueueName = name
	}
}

// WithTemplate replaces Body as the HTML template.
func WithTemplate(fn func(env *notify.Envelope) templ.Component) Option {
	return func(h *Handler) {
		if fn != nil {
			h.body = fn
		}
	}
}

// WithMiddleware wraps Send for every recipient.
func WithMiddleware(mws ...notify.Middleware) Option {
	return func(h *Handler) {
		h.middlewares = append(h.middlewares, mws...)
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

// New creates a mail channel handler on sender.
func New(sender email.EmailSender, opts ...Option) *Handler {
	h := &Handler{sender: sender, body: Body, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Channel returns the catalog entry for this handler.
func (h *Handler) Channel() notify.Channel {
	return notify.Channel{ID: ChannelID, Title: "Email", Handler: h}
}

// Middleware implements notify.Handler.
func (h *Handler) Middleware(notify.Recipient) []notify.Middleware {
	return h.middlewares
}

// Send renders env and sends it to the recipient's address. The notification
// type is used as the provider tag.
func (h *Handler) Send(ctx context.Context, env *notify.Envelope) error {
	to := env.Recipient.Email
	if to == "" {
		return ErrNoAddress
	}

	html, err := templates.Render(ctx, h.body(env))
	if err != nil {
		return fmt.Errorf("render mail body: %w", err)
	}

	err = h.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  env.Subject,
		BodyHTML: html,
		BodyText: env.PlainText(),
		Tag:      string(env.Type),
	})
	if err != nil {
		return err
	}

	h.logger.LogAttrs(ctx, slog.LevelDebug, "notification mailed",
		logger.MessageID(env.ID),
		logger.UserID(env.Recipient.ID),
		logger.NotificationType(string(env.Type)),
	)
	return nil
}
