package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/notify"
)

// KeyFunc derives the bucket key of a delivery.
type KeyFunc func(env *notify.Envelope) string

// PerRecipient keys buckets by channel and recipient.
func PerRecipient(env *notify.Envelope) string {
	return string(env.Channel) + ":" + env.Recipient.ID
}

// PerRecipientType keys buckets by channel, recipient and notification type.
func PerRecipientType(env *notify.Envelope) string {
	return string(env.Channel) + ":" + env.Recipient.ID + ":" + string(env.Type)
}

// LimitError is returned for a denied delivery.
type LimitError struct {
	Key        string
	RetryAfter time.Duration
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: key %q, retry after %s", ErrRateLimited, e.Key, e.RetryAfter)
}

func (e *LimitError) Unwrap() error { return ErrRateLimited }

// ThrottleOption configures Throttle.
type ThrottleOption func(*throttle)

type throttle struct {
	key           KeyFunc
	skipImportant bool
	logger        *slog.Logger
}

// WithKeyFunc sets the bucket key, PerRecipient by default.
func WithKeyFunc(fn KeyFunc) ThrottleOption {
	return func(t *throttle) {
		if fn != nil {
			t.key = fn
		}
	}
}

// WithImportantBypass lets important notifications through without
// consuming tokens.
func WithImportantBypass() ThrottleOption {
	return func(t *throttle) {
		t.skipImportant = true
	}
}

// WithThrottleLogger sets the logger.
func WithThrottleLogger(l *slog.Logger) ThrottleOption {
	return func(t *throttle) {
		if l != nil {
			t.logger = l
		}
	}
}

// Throttle returns channel middleware that admits one delivery per token.
// Denied deliveries fail with a *LimitError, so queued deliveries are retried
// by the queue. Test sends are never throttled.
func Throttle(limiter RateLimiter, opts ...ThrottleOption) notify.Middleware {
	t := &throttle{key: PerRecipient, logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}

	return func(next notify.SendFunc) notify.SendFunc {
		return func(ctx context.Context, env *notify.Envelope) error {
			if env.Test || (t.skipImportant && env.Important) {
				return next(ctx, env)
			}

			key := t.key(env)
			res, err := limiter.Allow(ctx, key)
			if err != nil {
				return fmt.Errorf("check rate limit: %w", err)
			}
			if !res.Allowed() {
				t.logger.LogAttrs(ctx, slog.LevelInfo, "notification delivery throttled",
					logger.UserID(env.Recipient.ID),
					logger.Channel(string(env.Channel)),
					logger.NotificationType(string(env.Type)),
					logger.Duration(res.RetryAfter()),
				)
				return &LimitError{Key: key, RetryAfter: res.RetryAfter()}
			}
			return next(ctx, env)
		}
	}
}
