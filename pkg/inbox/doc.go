// Package inbox stores in-app notifications for users to read later.
//
// Manager writes every notification to a Storage before handing it to a
// Deliverer for real-time display, so a failed push never loses a message.
// MemoryStorage serves tests and single-process deployments.
//
//	m := inbox.NewManager(inbox.NewMemoryStorage())
//	n, err := m.Send(ctx, inbox.Notification{UserID: "u1", Title: "Welcome"})
//	unread, err := m.CountUnread(ctx, "u1")
//	err = m.MarkAllRead(ctx, "u1")
package inbox
