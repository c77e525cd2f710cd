package notify

import (
	"context"
	"slices"
)

// Notification is a concrete notification kind bound to its data. Kinds embed
// Base and are passed by pointer:
//
//	type PasswordChanged struct {
//		notify.Base
//		IP string
//	}
//
//	func (n *PasswordChanged) NotificationType() notify.TypeID { return "password_changed" }
//	func (n *PasswordChanged) Subject(ctx context.Context, u notify.User) notify.Line {
//		return notify.NewLine("notifications.password_changed.subject")
//	}
//	func (n *PasswordChanged) Layout(ctx context.Context, u notify.User, ch notify.ChannelID) *notify.Layout {
//		return notify.NewLayout(notify.NewLineGroup().Add("notifications.password_changed.body", "ip", n.IP))
//	}
type Notification interface {
	NotificationType() TypeID
	Subject(ctx context.Context, u User) Line
	Layout(ctx context.Context, u User, ch ChannelID) *Layout
	state() *Base
}

// DefaultChanneler is implemented by kinds that pick their own channels for
// a user. Returning nil falls through to preferences.
type DefaultChanneler interface {
	DefaultChannels(ctx context.Context, u User) []ChannelID
}

// DefaultImportancer is implemented by kinds that are important unless
// SetImportant says otherwise.
type DefaultImportancer interface {
	DefaultImportance() bool
}

// Titler is implemented by kinds whose title differs from the subject.
type Titler interface {
	Title(ctx context.Context, u User) Line
}

// LogEventer is implemented by kinds that record an audit event on a
// dedicated channel in addition to the routed channels.
type LogEventer interface {
	LogEventChannel() ChannelID
	LogEvent(ctx context.Context, u User) LogEvent
}

// TestLister is implemented by kinds that can produce sample notifications
// for previewing every channel.
type TestLister interface {
	TestCases(u User) []TestCase
}

// LogEvent is an audit record attached to a delivery.
type LogEvent struct {
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
}

// TestCase is a sample notification. A nil User means the user passed to
// Sender.SendTests.
type TestCase struct {
	Notification Notification
	User         User
}

// Base holds the per-instance routing state of a notification.
type Base struct {
	channels    []ChannelID
	hasChannels bool
	important   *bool
	noLogEvent  bool
	test        bool
}

func (b *Base) state() *Base { return b }

// SetChannels sends the notification to exactly chs, bypassing preferences.
// Calling it without arguments sends the notification nowhere.
func (b *Base) SetChannels(chs ...ChannelID) {
	b.channels = append([]ChannelID{}, chs...)
	b.hasChannels = true
}

// ResetChannels drops an explicit channel list.
func (b *Base) ResetChannels() {
	b.channels = nil
	b.hasChannels = false
}

// Channels returns the explicit channel list and whether one was set.
func (b *Base) Channels() ([]ChannelID, bool) {
	return slices.Clone(b.channels), b.hasChannels
}

// SetImportant overrides the kind's default importance.
func (b *Base) SetImportant(v bool) {
	b.important = &v
}

// SetAllowLogEvent enables or disables the log event channel. Enabled by default.
func (b *Base) SetAllowLogEvent(v bool) {
	b.noLogEvent = !v
}

// LogEventAllowed reports whether the log event channel may be used.
func (b *Base) LogEventAllowed() bool {
	return !b.noLogEvent
}

// SetTest marks the notification as a test send, which is delivered outside
// production.
func (b *Base) SetTest(v bool) {
	b.test = v
}

// IsTest reports whether this is a test send.
func (b *Base) IsTest() bool {
	return b.test
}

// IsImportant reports the importance of n: the value set with SetImportant,
// else the kind's DefaultImportance, else false.
func IsImportant(n Notification) bool {
	if b := n.state(); b.important != nil {
		return *b.important
	}
	if d, ok := n.(DefaultImportancer); ok {
		return d.DefaultImportance()
	}
	return false
}

// TitleOf returns the title of n, which defaults to its subject.
func TitleOf(ctx context.Context, n Notification, u User) Line {
	if t, ok := n.(Titler); ok {
		return t.Title(ctx, u)
	}
	return n.Subject(ctx, u)
}
