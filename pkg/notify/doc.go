// Package notify decides which channels a notification goes to and what
// content each channel receives.
//
// # Catalog
//
// A Catalog registers notification types and delivery channels once at
// startup. Registration is idempotent and enumeration follows the order of
// first registration. Each Channel carries the Handler that owns its
// transport.
//
// # Preferences
//
// Users opt in and out per type and channel. The Store holds only the rows a
// user explicitly saved; PreferenceService.Resolve fills the gaps from each
// type's default channels so the result always covers every registered pair.
// PreferenceService.ReplaceAll swaps a user's complete set inside one store
// transaction.
//
// # Content
//
// A Layout is an ordered list of LineGroup and Action items written once for
// all channels. Every item can be hidden from individual channels; rendering
// for a channel skips hidden items and keeps the order of the rest. Lines are
// template keys expanded by a Translator, with parameter values stripped of
// markdown control characters when the line is built.
//
// # Routing and delivery
//
// Router.Route applies, in order: an explicit channel list on the
// notification, the kind's DefaultChannels, then the user's preferences. The
// log event channel is appended when configured, and a delivery gate
// (production only by default) suppresses everything except test sends.
//
// Sender.Send renders one Envelope per routed channel and delivers them in
// parallel. Handlers that name a queue are handed to a Dispatcher, such as
// QueueDispatcher backed by pkg/queue; the rest run synchronously through
// their middleware chain. Failures are isolated per channel and returned as
// joined *ChannelError values.
//
//	catalog := notify.NewCatalog()
//	catalog.RegisterChannels(notify.Channel{ID: "mail", Handler: mailHandler})
//	catalog.RegisterTypes(notify.Type{ID: "welcome", DefaultChannels: []notify.ChannelID{"mail"}})
//
//	prefs := notify.NewPreferenceService(catalog, store)
//	router := notify.NewRouter(catalog, prefs, cfg.RouterOptions()...)
//	sender := notify.NewSender(router, append(cfg.SenderOptions(), notify.WithTranslator(tr))...)
//
//	err := sender.Send(ctx, user, &WelcomeNotification{})
package notify
