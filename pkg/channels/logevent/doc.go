// Package logevent is the audit channel. Notifications that carry a
// notify.LogEvent are recorded here in addition to their user-facing
// channels, even when the user has opted out of everything else.
//
// SlogSink writes events to the application log; OpenSearchSink indexes
// them for search.
//
//	sink := logevent.NewOpenSearchSink(client, cfg.EventsIndex)
//	catalog.RegisterChannels(logevent.New(sink).Channel())
package logevent
