package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/usernotify/pkg/environment"
	"github.com/dmitrymomot/usernotify/pkg/notify"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ActiveChannels(ctx context.Context, userID string, typ notify.TypeID) ([]notify.ChannelID, error) {
	args := m.Called(ctx, userID, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notify.ChannelID), args.Error(1)
}

func channelIDs(chs []notify.Channel) []notify.ChannelID {
	out := make([]notify.ChannelID, len(chs))
	for i, ch := range chs {
		out[i] = ch.ID
	}
	return out
}

func newTestRouter(t *testing.T, catalog *notify.Catalog) (*notify.Router, *notify.PreferenceService) {
	t.Helper()
	svc := notify.NewPreferenceService(catalog, notify.NewMemoryStore())
	return notify.NewRouter(catalog, svc, notify.WithDeliveryGate(alwaysOpen)), svc
}

func TestRouter_Route(t *testing.T) {
	t.Parallel()

	u := testUser{id: "u1"}

	t.Run("preferences decide by default", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		router, svc := newTestRouter(t, newTestCatalog(nil, nil))
		require.NoError(t, svc.ReplaceAll(ctx, "u1", []notify.Preference{
			{Type: welcome, Channel: mail, IsActive: false},
			{Type: welcome, Channel: push, IsActive: true},
		}))

		chs, err := router.Route(ctx, u, &welcomeNotification{})
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{push}, channelIDs(chs))
	})

	t.Run("catalog defaults apply without stored rows", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, newTestCatalog(nil, nil))
		chs, err := router.Route(context.Background(), u, &welcomeNotification{})
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{mail}, channelIDs(chs))
	})

	t.Run("explicit empty list sends nowhere", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		router, svc := newTestRouter(t, newTestCatalog(nil, nil))
		require.NoError(t, svc.ReplaceAll(ctx, "u1", []notify.Preference{
			{Type: welcome, Channel: mail, IsActive: true},
			{Type: welcome, Channel: push, IsActive: true},
		}))

		n := &welcomeNotification{}
		n.SetChannels()

		chs, err := router.Route(ctx, u, n)
		require.NoError(t, err)
		assert.Empty(t, chs)
	})

	t.Run("explicit list wins over everything", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, newTestCatalog(nil, nil))
		n := &alertNotification{defaults: []notify.ChannelID{mail}}
		n.SetChannels(push)

		chs, err := router.Route(context.Background(), u, n)
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{push}, channelIDs(chs))
	})

	t.Run("reset channels restores preference routing", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, newTestCatalog(nil, nil))
		n := &welcomeNotification{}
		n.SetChannels(push)
		n.ResetChannels()

		chs, err := router.Route(context.Background(), u, n)
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{mail}, channelIDs(chs))
	})

	t.Run("kind defaults win over preferences", func(t *testing.T) {
		t.Parallel()

		resolver := &MockResolver{}
		router := notify.NewRouter(newTestCatalog(nil, nil), resolver, notify.WithDeliveryGate(alwaysOpen))

		chs, err := router.Route(context.Background(), u, &alertNotification{defaults: []notify.ChannelID{push}})
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{push}, channelIDs(chs))
		resolver.AssertNotCalled(t, "ActiveChannels", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nil kind defaults fall through to preferences", func(t *testing.T) {
		t.Parallel()

		resolver := &MockResolver{}
		resolver.On("ActiveChannels", mock.Anything, "u1", alert).Return([]notify.ChannelID{mail}, nil)
		router := notify.NewRouter(newTestCatalog(nil, nil), resolver, notify.WithDeliveryGate(alwaysOpen))

		chs, err := router.Route(context.Background(), u, &alertNotification{})
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{mail}, channelIDs(chs))
		resolver.AssertExpectations(t)
	})

	t.Run("important notifications still follow preferences", func(t *testing.T) {
		t.Parallel()

		resolver := &MockResolver{}
		resolver.On("ActiveChannels", mock.Anything, "u1", alert).Return([]notify.ChannelID{}, nil)
		router := notify.NewRouter(newTestCatalog(nil, nil), resolver, notify.WithDeliveryGate(alwaysOpen))

		chs, err := router.Route(context.Background(), u, &alertNotification{important: true})
		require.NoError(t, err)
		assert.Empty(t, chs)
	})

	t.Run("log event channel is appended once", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(nil, nil)
		catalog.RegisterChannels(notify.Channel{ID: audit})
		router, _ := newTestRouter(t, catalog)

		chs, err := router.Route(context.Background(), u, &alertNotification{defaults: []notify.ChannelID{mail}, logChannel: audit})
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{mail, audit}, channelIDs(chs))

		chs, err = router.Route(context.Background(), u, &alertNotification{defaults: []notify.ChannelID{audit, mail}, logChannel: audit})
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{audit, mail}, channelIDs(chs))
	})

	t.Run("log event channel respects explicit empty list", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(nil, nil)
		catalog.RegisterChannels(notify.Channel{ID: audit})
		router, _ := newTestRouter(t, catalog)

		n := &alertNotification{logChannel: audit}
		n.SetChannels()
		chs, err := router.Route(context.Background(), u, n)
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{audit}, channelIDs(chs))

		n.SetAllowLogEvent(false)
		chs, err = router.Route(context.Background(), u, n)
		require.NoError(t, err)
		assert.Empty(t, chs)
	})

	t.Run("unknown channel", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t, newTestCatalog(nil, nil))
		n := &welcomeNotification{}
		n.SetChannels(mail, "sms")

		_, err := router.Route(context.Background(), u, n)
		assert.ErrorIs(t, err, notify.ErrUnknownChannel)
	})

	t.Run("unknown type on preference path", func(t *testing.T) {
		t.Parallel()

		catalog := notify.NewCatalog()
		catalog.RegisterChannels(notify.Channel{ID: mail})
		router, _ := newTestRouter(t, catalog)

		_, err := router.Route(context.Background(), u, &welcomeNotification{})
		assert.ErrorIs(t, err, notify.ErrUnknownType)
	})

	t.Run("resolver error is wrapped", func(t *testing.T) {
		t.Parallel()

		resolverErr := errors.New("db down")
		resolver := &MockResolver{}
		resolver.On("ActiveChannels", mock.Anything, "u1", welcome).Return(nil, resolverErr)
		router := notify.NewRouter(newTestCatalog(nil, nil), resolver, notify.WithDeliveryGate(alwaysOpen))

		_, err := router.Route(context.Background(), u, &welcomeNotification{})
		assert.ErrorIs(t, err, resolverErr)
	})
}

func TestRouter_DeliveryGate(t *testing.T) {
	t.Parallel()

	u := testUser{id: "u1"}
	closed := func(context.Context) bool { return false }

	t.Run("closed gate suppresses delivery", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(nil, nil)
		router := notify.NewRouter(catalog, notify.NewPreferenceService(catalog, notify.NewMemoryStore()), notify.WithDeliveryGate(closed))

		chs, err := router.Route(context.Background(), u, &welcomeNotification{})
		require.NoError(t, err)
		assert.NotNil(t, chs)
		assert.Empty(t, chs)
	})

	t.Run("test sends bypass the gate", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(nil, nil)
		router := notify.NewRouter(catalog, notify.NewPreferenceService(catalog, notify.NewMemoryStore()), notify.WithDeliveryGate(closed))

		n := &welcomeNotification{}
		n.SetTest(true)
		chs, err := router.Route(context.Background(), u, n)
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{mail}, channelIDs(chs))
	})

	t.Run("unknown channel is reported even when the gate is closed", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(nil, nil)
		router := notify.NewRouter(catalog, notify.NewPreferenceService(catalog, notify.NewMemoryStore()), notify.WithDeliveryGate(closed))

		n := &welcomeNotification{}
		n.SetChannels("sms")
		_, err := router.Route(context.Background(), u, n)
		assert.ErrorIs(t, err, notify.ErrUnknownChannel)
	})

	t.Run("default gate reads the environment from context", func(t *testing.T) {
		t.Parallel()

		catalog := newTestCatalog(nil, nil)
		router := notify.NewRouter(catalog, notify.NewPreferenceService(catalog, notify.NewMemoryStore()))

		chs, err := router.Route(environment.WithContext(context.Background(), environment.Development), u, &welcomeNotification{})
		require.NoError(t, err)
		assert.Empty(t, chs)

		chs, err = router.Route(environment.WithContext(context.Background(), environment.Production), u, &welcomeNotification{})
		require.NoError(t, err)
		assert.Equal(t, []notify.ChannelID{mail}, channelIDs(chs))
	})

	t.Run("config gate", func(t *testing.T) {
		t.Parallel()

		assert.True(t, notify.Config{Env: "production"}.DeliveryGate()(context.Background()))
		assert.True(t, notify.Config{Env: "prod"}.DeliveryGate()(context.Background()))
		assert.False(t, notify.Config{Env: "staging"}.DeliveryGate()(context.Background()))
	})
}
