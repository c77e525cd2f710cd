package main

import (
	"context"

	"github.com/dmitrymomot/usernotify/pkg/channels/inapp"
	"github.com/dmitrymomot/usernotify/pkg/channels/logevent"
	"github.com/dmitrymomot/usernotify/pkg/channels/mail"
	"github.com/dmitrymomot/usernotify/pkg/channels/push"
	"github.com/dmitrymomot/usernotify/pkg/notify"
)

// Notification types known to the binary.
const (
	typeWelcome         notify.TypeID = "account.welcome"
	typePasswordChanged notify.TypeID = "security.password_changed"
	typeInvoiceReady    notify.TypeID = "billing.invoice_ready"
)

func notificationTypes() []notify.Type {
	return []notify.Type{
		{
			ID:              typeWelcome,
			Title:           "Welcome",
			Description:     "Sent once after sign up.",
			DefaultChannels: []notify.ChannelID{mail.ChannelID, inapp.ChannelID},
		},
		{
			ID:              typePasswordChanged,
			Title:           "Password changed",
			Description:     "Security alert after a password change.",
			DefaultChannels: []notify.ChannelID{mail.ChannelID, push.ChannelID},
		},
		{
			ID:              typeInvoiceReady,
			Title:           "Invoice ready",
			DefaultChannels: []notify.ChannelID{mail.ChannelID},
		},
	}
}

// testListers returns one sample kind of every type for send-tests.
func testListers() []notify.TestLister {
	return []notify.TestLister{
		&welcomeNotification{},
		&passwordChangedNotification{},
		&invoiceReadyNotification{},
	}
}

type welcomeNotification struct {
	notify.Base
	Product string
}

func (n *welcomeNotification) NotificationType() notify.TypeID { return typeWelcome }

func (n *welcomeNotification) Subject(_ context.Context, u notify.User) notify.Line {
	return notify.NewLine("notifications.welcome.subject", "name", u.NotificationName())
}

func (n *welcomeNotification) Title(context.Context, notify.User) notify.Line {
	return notify.NewLine("notifications.welcome.title", "product", n.Product)
}

func (n *welcomeNotification) Layout(_ context.Context, u notify.User, _ notify.ChannelID) *notify.Layout {
	return notify.NewLayout(
		notify.NewLineGroup().
			Add("notifications.welcome.greeting", "name", u.NotificationName()).
			Add("notifications.welcome.body", "product", n.Product),
		notify.NewLineGroup().
			Add("notifications.welcome.help").
			WithComponent(notify.ComponentSubcopy).
			Hide(inapp.ChannelID),
		notify.NewAction("notifications.welcome.action", "https://app.example.com/start"),
	)
}

func (n *welcomeNotification) TestCases(notify.User) []notify.TestCase {
	return []notify.TestCase{{Notification: &welcomeNotification{Product: "Acme"}}}
}

type passwordChangedNotification struct {
	notify.Base
	IP string
}

func (n *passwordChangedNotification) NotificationType() notify.TypeID { return typePasswordChanged }

func (n *passwordChangedNotification) DefaultImportance() bool { return true }

func (n *passwordChangedNotification) Subject(context.Context, notify.User) notify.Line {
	return notify.NewLine("notifications.password_changed.subject")
}

func (n *passwordChangedNotification) Layout(_ context.Context, u notify.User, _ notify.ChannelID) *notify.Layout {
	return notify.NewLayout(
		notify.NewLineGroup().
			Add("notifications.password_changed.body", "name", u.NotificationName(), "ip", n.IP),
		notify.NewLineGroup().
			Add("notifications.password_changed.warning").
			WithComponent(notify.ComponentPanel).
			Hide(push.ChannelID),
		notify.NewAction("notifications.password_changed.action", "https://app.example.com/reset").
			Hide(push.ChannelID),
	)
}

func (n *passwordChangedNotification) LogEventChannel() notify.ChannelID { return logevent.ChannelID }

func (n *passwordChangedNotification) LogEvent(context.Context, notify.User) notify.LogEvent {
	return notify.LogEvent{
		Name:       "password_changed",
		Properties: map[string]string{"ip": n.IP},
	}
}

func (n *passwordChangedNotification) TestCases(notify.User) []notify.TestCase {
	return []notify.TestCase{{Notification: &passwordChangedNotification{IP: "203.0.113.7"}}}
}

type invoiceReadyNotification struct {
	notify.Base
	Number string
	Amount string
}

func (n *invoiceReadyNotification) NotificationType() notify.TypeID { return typeInvoiceReady }

// DefaultChannels sends invoices to the inbox of users without an address.
func (n *invoiceReadyNotification) DefaultChannels(_ context.Context, u notify.User) []notify.ChannelID {
	if u.NotificationEmail() == "" {
		return []notify.ChannelID{inapp.ChannelID}
	}
	return nil
}

func (n *invoiceReadyNotification) Subject(context.Context, notify.User) notify.Line {
	return notify.NewLine("notifications.invoice_ready.subject", "number", n.Number)
}

func (n *invoiceReadyNotification) Layout(context.Context, notify.User, notify.ChannelID) *notify.Layout {
	return notify.NewLayout(
		notify.NewLineGroup().
			Add("notifications.invoice_ready.body", "number", n.Number, "amount", n.Amount).
			Separate(),
		notify.NewAction("notifications.invoice_ready.action", "https://app.example.com/billing"),
	)
}

func (n *invoiceReadyNotification) TestCases(notify.User) []notify.TestCase {
	return []notify.TestCase{
		{Notification: &invoiceReadyNotification{Number: "INV-0042", Amount: "$19.00"}},
	}
}
