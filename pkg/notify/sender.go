package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/usernotify/pkg/logger"
)

// ChannelError reports a failed delivery on one channel.
type ChannelError struct {
	Channel ChannelID
	Queue   string
	Err     error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("notify: channel %q: %v", e.Channel, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }

// Dispatcher hands deliveries for queued handlers to an asynchronous worker.
type Dispatcher interface {
	Dispatch(ctx context.Context, queue string, env *Envelope) error
}

// Sender routes notifications and delivers them on every resolved channel.
type Sender struct {
	router        *Router
	translator    Translator
	dispatcher    Dispatcher
	defaultLocale string
	concurrency   int
	logger        *slog.Logger
	now           func() time.Time
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithTranslator sets the translator used to format content.
func WithTranslator(tr Translator) SenderOption {
	return func(s *Sender) { s.translator = tr }
}

// WithDispatcher sets the dispatcher for handlers that declare a queue.
// Without one every handler is invoked synchronously.
func WithDispatcher(d Dispatcher) SenderOption {
	return func(s *Sender) { s.dispatcher = d }
}

// WithDefaultLocale sets the locale used for recipients without one.
func WithDefaultLocale(locale string) SenderOption {
	return func(s *Sender) {
		if locale != "" {
			s.defaultLocale = locale
		}
	}
}

// WithConcurrency limits the number of channels delivered in parallel.
// Zero or less means no limit.
func WithConcurrency(n int) SenderOption {
	return func(s *Sender) { s.concurrency = n }
}

// WithSenderLogger sets the logger.
func WithSenderLogger(l *slog.Logger) SenderOption {
	return func(s *Sender) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSender creates a Sender.
func NewSender(router *Router, opts ...SenderOption) *Sender {
	s := &Sender{
		router:        router,
		defaultLocale: "en",
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers n to u on every routed channel. Channels are delivered in
// parallel and independently: a failed channel does not stop the others.
// Failures are returned joined, each as a *ChannelError. Routing errors are
// returned before anything is delivered.
func (s *Sender) Send(ctx context.Context, u User, n Notification) error {
	if u == nil || n == nil {
		return ErrNilNotification
	}

	channels, err := s.router.Route(ctx, u, n)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to route notification",
			logger.UserID(u.NotificationID()),
			logger.NotificationType(string(n.NotificationType())),
			logger.Error(err),
		)
		return err
	}
	if len(channels) == 0 {
		return nil
	}

	envs := make([]*Envelope, len(channels))
	for i, ch := range channels {
		envs[i] = s.envelope(ctx, u, n, ch.ID)
	}

	errs := make([]error, len(channels))
	g := new(errgroup.Group)
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, ch := range channels {
		g.Go(func() error {
			errs[i] = s.deliver(ctx, ch, envs[i])
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// SendToUsers sends n to each user in turn and joins the failures.
func (s *Sender) SendToUsers(ctx context.Context, users []User, n Notification) error {
	var errs []error
	for _, u := range users {
		if err := s.Send(ctx, u, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SendTests sends every test case of listers as a test, which bypasses the
// delivery gate. Cases without a user go to u.
func (s *Sender) SendTests(ctx context.Context, u User, listers ...TestLister) error {
	var errs []error
	for _, l := range listers {
		for _, tc := range l.TestCases(u) {
			if tc.Notification == nil {
				continue
			}
			target := tc.User
			if target == nil {
				target = u
			}
			tc.Notification.state().SetTest(true)
			if err := s.Send(ctx, target, tc.Notification); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Sender) envelope(ctx context.Context, u User, n Notification, ch ChannelID) *Envelope {
	locale := u.NotificationLocale()
	if locale == "" {
		locale = s.defaultLocale
	}

	env := &Envelope{
		ID:           uuid.NewString(),
		Recipient:    RecipientOf(u),
		Type:         n.NotificationType(),
		Channel:      ch,
		Locale:       locale,
		Subject:      n.Subject(ctx, u).Format(s.translator, locale),
		Title:        TitleOf(ctx, n, u).Format(s.translator, locale),
		Blocks:       n.Layout(ctx, u, ch).Render(ch, s.translator, locale),
		Important:    IsImportant(n),
		Test:         n.state().IsTest(),
		CreatedAt:    s.now(),
		Notification: n,
	}

	if le, ok := n.(LogEventer); ok && le.LogEventChannel() == ch {
		ev := le.LogEvent(ctx, u)
		env.LogEvent = &ev
	}

	return env
}

func (s *Sender) deliver(ctx context.Context, ch Channel, env *Envelope) error {
	start := s.now()
	queue := ch.QueueName()
	attrs := []slog.Attr{
		logger.UserID(env.Recipient.ID),
		logger.NotificationType(string(env.Type)),
		logger.Channel(string(ch.ID)),
		logger.Queue(queue),
	}

	var err error
	switch {
	case ch.Handler == nil:
		err = ErrNoHandler
	case queue != "" && s.dispatcher != nil:
		if derr := s.dispatcher.Dispatch(ctx, queue, env); derr != nil {
			err = errors.Join(ErrDispatchFailed, derr)
		}
	default:
		err = Deliver(ctx, ch.Handler, env)
	}

	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "notification delivery failed", append(attrs, logger.Error(err))...)
		return &ChannelError{Channel: ch.ID, Queue: queue, Err: err}
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "notification delivered", append(attrs, logger.Duration(time.Since(start)))...)
	return nil
}
