package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/notify"
)

// DefaultCollection holds one document per stored preference.
const DefaultCollection = "notification_preferences"

const uniqueIndexName = "user_type_channel_unique"

// Store is a notify.Store backed by a MongoDB collection. InTx needs a
// replica set or sharded cluster.
type Store struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	collection string
	logger     *slog.Logger
}

// WithCollection sets the collection name.
func WithCollection(name string) Option {
	return func(o *storeConfig) {
		if name != "" {
			o.collection = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *storeConfig) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates a Store on db.
func New(db *mongo.Database, opts ...Option) *Store {
	o := &storeConfig{collection: DefaultCollection, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return &Store{coll: db.Collection(o.collection), logger: o.logger}
}

// EnsureIndexes creates the unique (user_id, type, channel) index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "type", Value: 1}, {Key: "channel", Value: 1}},
		Options: options.Index().
			SetName(uniqueIndexName).
			SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create preference index: %w", err)
	}
	return nil
}

// Find implements notify.Store.
func (s *Store) Find(ctx context.Context, userID string, f notify.Filter) ([]notify.Preference, error) {
	cur, err := s.coll.Find(ctx, filterDoc(userID, f),
		options.Find().SetSort(bson.D{{Key: "type", Value: 1}, {Key: "channel", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}

	var out []notify.Preference
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	return out, nil
}

// InTx implements notify.Store with a session transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx notify.Tx) error) error {
	sess, err := s.coll.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx, &storeTx{coll: s.coll})
	})
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "preference transaction aborted", logger.Error(err))
		return err
	}
	return nil
}

func filterDoc(userID string, f notify.Filter) bson.D {
	doc := bson.D{{Key: "user_id", Value: userID}}
	if f.Type != "" {
		doc = append(doc, bson.E{Key: "type", Value: string(f.Type)})
	}
	if f.Channel != "" {
		doc = append(doc, bson.E{Key: "channel", Value: string(f.Channel)})
	}
	return doc
}

type storeTx struct {
	coll *mongo.Collection
}

func (t *storeTx) DeleteByUser(ctx context.Context, userID string) error {
	_, err := t.coll.DeleteMany(ctx, bson.D{{Key: "user_id", Value: userID}})
	return err
}

func (t *storeTx) Insert(ctx context.Context, prefs []notify.Preference) error {
	if len(prefs) == 0 {
		return nil
	}
	docs := make([]any, len(prefs))
	for i, p := range prefs {
		docs[i] = p
	}
	if _, err := t.coll.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Join(notify.ErrDuplicatePreference, err)
		}
		return err
	}
	return nil
}
