package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/notify"
)

const (
	DefaultPrefix = "notify:prefs:"
	DefaultTTL    = 10 * time.Minute
	// DefaultHold is how long a committed write keeps readers from
	// refilling the user's entry.
	DefaultHold = 30 * time.Second
)

// tombstone marks an entry invalidated by a committed write. Fills only
// succeed on an absent key, so a reader that loaded rows before the commit
// cannot put them back while the tombstone lives.
const tombstone = "-"

var discardScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Store caches the complete preference set of each user in front of
// another notify.Store.
type Store struct {
	client redis.UniversalClient
	next   notify.Store
	prefix string
	ttl    time.Duration
	hold   time.Duration
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets how long a cached set lives. Zero keeps it until the next
// write.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithHold sets how long an invalidated entry refuses refills. It should
// exceed the slowest read of the wrapped store.
func WithHold(hold time.Duration) Option {
	return func(s *Store) {
		if hold > 0 {
			s.hold = hold
		}
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps next with a cache kept in client.
func New(client redis.UniversalClient, next notify.Store, opts ...Option) *Store {
	s := &Store{
		client: client,
		next:   next,
		prefix: DefaultPrefix,
		ttl:    DefaultTTL,
		hold:   DefaultHold,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(userID string) string {
	return s.prefix + userID
}

// Find serves the user's rows from the cache, loading the full set from the
// wrapped store on a miss. Cache failures fall through to the wrapped store.
func (s *Store) Find(ctx context.Context, userID string, f notify.Filter) ([]notify.Preference, error) {
	rows, hit := s.cached(ctx, userID)
	if !hit {
		var err error
		if rows, err = s.next.Find(ctx, userID, notify.Filter{}); err != nil {
			return nil, err
		}
		s.fill(ctx, userID, rows)
	}

	var out []notify.Preference
	for _, p := range rows {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) cached(ctx context.Context, userID string) ([]notify.Preference, bool) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "preference cache read failed",
			logger.UserID(userID),
			logger.Error(err),
		)
		return nil, false
	}
	if string(data) == tombstone {
		return nil, false
	}

	var rows []notify.Preference
	if err := json.Unmarshal(data, &rows); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "discarding malformed preference cache entry",
			logger.UserID(userID),
			logger.Error(err),
		)
		// Compare-and-delete so a concurrent tombstone survives.
		_ = discardScript.Run(ctx, s.client, []string{s.key(userID)}, data).Err()
		return nil, false
	}
	return rows, true
}

func (s *Store) fill(ctx context.Context, userID string, rows []notify.Preference) {
	if rows == nil {
		rows = []notify.Preference{}
	}
	data, err := json.Marshal(rows)
	if err == nil {
		err = s.client.SetArgs(ctx, s.key(userID), data, redis.SetArgs{Mode: "NX", TTL: s.ttl}).Err()
		if errors.Is(err, redis.Nil) {
			// Key exists: a concurrent fill won or a write holds it.
			return
		}
	}
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "preference cache write failed",
			logger.UserID(userID),
			logger.Error(err),
		)
	}
}

// InTx runs fn in the wrapped store and replaces the cached sets of every
// user fn wrote to with a short-lived tombstone once the transaction has
// committed.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx notify.Tx) error) error {
	touched := make(map[string]struct{})
	err := s.next.InTx(ctx, func(ctx context.Context, tx notify.Tx) error {
		return fn(ctx, &trackingTx{Tx: tx, touched: touched})
	})
	if err != nil {
		return err
	}

	if len(touched) == 0 {
		return nil
	}
	keys := make([]string, 0, len(touched))
	for userID := range touched {
		keys = append(keys, s.key(userID))
	}
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Set(ctx, key, tombstone, s.hold)
		}
		return nil
	})
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "preference cache invalidation failed",
			slog.Any("keys", keys),
			logger.Error(err),
		)
	}
	return nil
}

type trackingTx struct {
	notify.Tx
	touched map[string]struct{}
}

func (t *trackingTx) DeleteByUser(ctx context.Context, userID string) error {
	t.touched[userID] = struct{}{}
	return t.Tx.DeleteByUser(ctx, userID)
}

func (t *trackingTx) Insert(ctx context.Context, prefs []notify.Preference) error {
	for _, p := range prefs {
		t.touched[p.UserID] = struct{}{}
	}
	return t.Tx.Insert(ctx, prefs)
}
