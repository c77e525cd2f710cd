package notify_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/usernotify/pkg/notify"
)

const (
	mail  notify.ChannelID = "mail"
	push  notify.ChannelID = "push"
	audit notify.ChannelID = "audit"

	welcome notify.TypeID = "welcome"
	alert   notify.TypeID = "alert"
)

type testUser struct {
	id     string
	locale string
}

func (u testUser) NotificationID() string     { return u.id }
func (u testUser) NotificationLocale() string { return u.locale }
func (u testUser) NotificationName() string   { return "User " + u.id }
func (u testUser) NotificationEmail() string  { return u.id + "@example.com" }

// welcomeNotification has a body line hidden from push and a call to action.
type welcomeNotification struct {
	notify.Base
	Name string
}

func (n *welcomeNotification) NotificationType() notify.TypeID { return welcome }

func (n *welcomeNotification) Subject(ctx context.Context, u notify.User) notify.Line {
	return notify.NewLine("Welcome, %{name}", "name", n.Name)
}

func (n *welcomeNotification) Layout(ctx context.Context, u notify.User, ch notify.ChannelID) *notify.Layout {
	return notify.NewLayout(
		notify.NewLineGroup().Add("Thanks for joining").Add("Your workspace is ready").Hide(push),
		notify.NewAction("Open dashboard", "https://app.example.com"),
	)
}

// alertNotification exercises the optional interfaces.
type alertNotification struct {
	notify.Base
	defaults   []notify.ChannelID
	logChannel notify.ChannelID
	important  bool
}

func (n *alertNotification) NotificationType() notify.TypeID { return alert }

func (n *alertNotification) Subject(ctx context.Context, u notify.User) notify.Line {
	return notify.NewLine("Security alert")
}

func (n *alertNotification) Title(ctx context.Context, u notify.User) notify.Line {
	return notify.NewLine("Alert for %{user}", "user", u.NotificationName())
}

func (n *alertNotification) Layout(ctx context.Context, u notify.User, ch notify.ChannelID) *notify.Layout {
	return notify.NewLayout(notify.NewLineGroup().Add("Someone signed in"))
}

func (n *alertNotification) DefaultChannels(ctx context.Context, u notify.User) []notify.ChannelID {
	return n.defaults
}

func (n *alertNotification) DefaultImportance() bool { return n.important }

func (n *alertNotification) LogEventChannel() notify.ChannelID { return n.logChannel }

func (n *alertNotification) LogEvent(ctx context.Context, u notify.User) notify.LogEvent {
	return notify.LogEvent{Name: "security.alert", Properties: map[string]string{"user_id": u.NotificationID()}}
}

func (n *alertNotification) TestCases(u notify.User) []notify.TestCase {
	return []notify.TestCase{
		{Notification: &alertNotification{defaults: []notify.ChannelID{mail}}},
		{Notification: &alertNotification{defaults: []notify.ChannelID{push}}, User: testUser{id: "other"}},
	}
}

// recordingHandler stores every envelope it receives.
type recordingHandler struct {
	notify.HandlerBase
	mu   sync.Mutex
	envs []*notify.Envelope
	err  error
}

func (h *recordingHandler) Send(ctx context.Context, env *notify.Envelope) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.envs = append(h.envs, env)
	return h.err
}

func (h *recordingHandler) sent() []*notify.Envelope {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*notify.Envelope(nil), h.envs...)
}

// MockStore for preference service failures.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Find(ctx context.Context, userID string, f notify.Filter) ([]notify.Preference, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notify.Preference), args.Error(1)
}

func (m *MockStore) InTx(ctx context.Context, fn func(ctx context.Context, tx notify.Tx) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// newTestCatalog registers WELCOME(default mail) and ALERT(default mail, push)
// over the mail and push channels.
func newTestCatalog(mailHandler, pushHandler notify.Handler) *notify.Catalog {
	c := notify.NewCatalog()
	c.RegisterChannels(
		notify.Channel{ID: mail, Title: "Email", Handler: mailHandler},
		notify.Channel{ID: push, Title: "Push", Handler: pushHandler},
	)
	c.RegisterTypes(
		notify.Type{ID: welcome, Title: "Welcome", DefaultChannels: []notify.ChannelID{mail}},
		notify.Type{ID: alert, Title: "Alert", DefaultChannels: []notify.ChannelID{mail, push}},
	)
	return c
}

func alwaysOpen(context.Context) bool { return true }
