package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/usernotify/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("delivery", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "delivery", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestUserID(t *testing.T) {
	attr := logger.UserID("123")
	require.Equal(t, "user_id", attr.Key)
	assert.Equal(t, "123", attr.Value.Any())

	assert.True(t, logger.UserID(nil).Equal(slog.Attr{}))
}

func TestNotificationAttrs(t *testing.T) {
	typ := logger.NotificationType("welcome")
	assert.Equal(t, "notification_type", typ.Key)
	assert.Equal(t, "welcome", typ.Value.String())

	ch := logger.Channel("mail")
	assert.Equal(t, "channel", ch.Key)
	assert.Equal(t, "mail", ch.Value.String())

	chs := logger.Channels("mail", "push")
	assert.Equal(t, "channels", chs.Key)
	assert.Equal(t, []string{"mail", "push"}, chs.Value.Any())
}

func TestQueue(t *testing.T) {
	assert.Equal(t, "notifications", logger.Queue("notifications").Value.String())
	assert.Equal(t, "sync", logger.Queue("").Value.String())
}

func TestTaskAttrs(t *testing.T) {
	assert.Equal(t, "task_id", logger.TaskID("t1").Key)
	assert.True(t, logger.TaskID(nil).Equal(slog.Attr{}))
	assert.Equal(t, "message_id", logger.MessageID("m1").Key)
	assert.Equal(t, int64(3), logger.RetryCount(3).Value.Int64())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Any())
	assert.Equal(t, "sender", logger.Component("sender").Value.String())
	assert.Equal(t, "event", logger.Event("user.login").Key)
}
