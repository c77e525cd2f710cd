// Package inapp is the in-app notification channel. Deliveries are stored
// in an inbox.Manager, where the user reads and dismisses them.
//
//	box := inbox.NewManager(inbox.NewMemoryStorage())
//	catalog.RegisterChannels(inapp.New(box).Channel())
package inapp
