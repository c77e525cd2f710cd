package mongo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/dmitrymomot/usernotify/pkg/mongo"
)

type pingFunc func(ctx context.Context, rp *readpref.ReadPref) error

func (f pingFunc) Ping(ctx context.Context, rp *readpref.ReadPref) error { return f(ctx, rp) }

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := mongo.New(context.Background(), mongo.Config{})
	assert.ErrorIs(t, err, mongo.ErrEmptyConnectionURL)

	_, err = mongo.NewWithDatabase(context.Background(), mongo.Config{ConnectionURL: "mongodb://localhost"}, "")
	assert.ErrorIs(t, err, mongo.ErrEmptyDatabaseName)
}

func TestNew_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := mongo.New(context.Background(), mongo.Config{
		ConnectionURL: "not-a-mongo-url",
		RetryAttempts: 2,
		RetryInterval: time.Millisecond,
	})
	assert.ErrorIs(t, err, mongo.ErrFailedToConnectToMongo)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, mongo.Healthcheck(pingFunc(func(context.Context, *readpref.ReadPref) error {
		return nil
	}))(context.Background()))

	boom := errors.New("server selection timeout")
	err := mongo.Healthcheck(pingFunc(func(context.Context, *readpref.ReadPref) error {
		return boom
	}))(context.Background())
	assert.ErrorIs(t, err, mongo.ErrHealthcheckFailed)
	assert.ErrorIs(t, err, boom)
}
