package ratelimiter_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/usernotify/pkg/notify"
	"github.com/dmitrymomot/usernotify/pkg/ratelimiter"
)

type failingLimiter struct{ err error }

func (f failingLimiter) Allow(context.Context, string) (*ratelimiter.Result, error) {
	return nil, f.err
}
func (f failingLimiter) AllowN(context.Context, string, int) (*ratelimiter.Result, error) {
	return nil, f.err
}

func newLimiter(t *testing.T, capacity int) *ratelimiter.Bucket {
	t.Helper()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: capacity, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)
	return b
}

func countingSend(n *int) notify.SendFunc {
	return func(context.Context, *notify.Envelope) error {
		*n++
		return nil
	}
}

func env(user string, typ notify.TypeID) *notify.Envelope {
	return &notify.Envelope{Recipient: notify.Recipient{ID: user}, Type: typ, Channel: "mail"}
}

func TestThrottle(t *testing.T) {
	t.Parallel()

	t.Run("denies past capacity per recipient", func(t *testing.T) {
		t.Parallel()

		var sent int
		send := ratelimiter.Throttle(newLimiter(t, 2))(countingSend(&sent))
		ctx := context.Background()

		require.NoError(t, send(ctx, env("u1", "a")))
		require.NoError(t, send(ctx, env("u1", "b")))
		err := send(ctx, env("u1", "c"))
		require.ErrorIs(t, err, ratelimiter.ErrRateLimited)

		var limitErr *ratelimiter.LimitError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, "mail:u1", limitErr.Key)
		assert.Positive(t, limitErr.RetryAfter)

		require.NoError(t, send(ctx, env("u2", "a")))
		assert.Equal(t, 3, sent)
	})

	t.Run("per type key", func(t *testing.T) {
		t.Parallel()

		var sent int
		send := ratelimiter.Throttle(newLimiter(t, 1), ratelimiter.WithKeyFunc(ratelimiter.PerRecipientType))(countingSend(&sent))
		ctx := context.Background()

		require.NoError(t, send(ctx, env("u1", "a")))
		require.NoError(t, send(ctx, env("u1", "b")))
		assert.ErrorIs(t, send(ctx, env("u1", "a")), ratelimiter.ErrRateLimited)
		assert.Equal(t, 2, sent)
	})

	t.Run("important and test sends bypass", func(t *testing.T) {
		t.Parallel()

		var sent int
		send := ratelimiter.Throttle(newLimiter(t, 1), ratelimiter.WithImportantBypass())(countingSend(&sent))
		ctx := context.Background()

		require.NoError(t, send(ctx, env("u1", "a")))
		important := env("u1", "a")
		important.Important = true
		require.NoError(t, send(ctx, important))
		test := env("u1", "a")
		test.Test = true
		require.NoError(t, send(ctx, test))
		assert.ErrorIs(t, send(ctx, env("u1", "a")), ratelimiter.ErrRateLimited)
		assert.Equal(t, 3, sent)
	})

	t.Run("limiter failure", func(t *testing.T) {
		t.Parallel()

		var sent int
		boom := errors.New("redis down")
		send := ratelimiter.Throttle(failingLimiter{err: boom})(countingSend(&sent))
		assert.ErrorIs(t, send(context.Background(), env("u1", "a")), boom)
		assert.Zero(t, sent)
	})
}

func TestThrottle_InHandlerChain(t *testing.T) {
	t.Parallel()

	var delivered int
	h := throttledHandler{
		mw: ratelimiter.Throttle(newLimiter(t, 1)),
		send: func(context.Context, *notify.Envelope) error {
			delivered++
			return nil
		},
	}

	ctx := context.Background()
	require.NoError(t, notify.Deliver(ctx, h, env("u1", "a")))
	assert.ErrorIs(t, notify.Deliver(ctx, h, env("u1", "a")), ratelimiter.ErrRateLimited)
	assert.Equal(t, 1, delivered)
}

type throttledHandler struct {
	notify.HandlerBase
	mw   notify.Middleware
	send notify.SendFunc
}

func (h throttledHandler) Send(ctx context.Context, e *notify.Envelope) error { return h.send(ctx, e) }
func (h throttledHandler) Middleware(notify.Recipient) []notify.Middleware {
	return []notify.Middleware{h.mw}
}
