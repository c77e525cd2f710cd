package inbox

import (
	"context"
	"time"
)

// Storage persists inbox notifications. Every method is scoped to one user.
type Storage interface {
	Create(ctx context.Context, notif Notification) error
	// Get returns ErrNotificationNotFound for unknown IDs.
	Get(ctx context.Context, userID, notifID string) (*Notification, error)
	// List returns the user's unexpired notifications, newest first.
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)
	MarkRead(ctx context.Context, userID string, notifIDs ...string) error
	Delete(ctx context.Context, userID string, notifIDs ...string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

// ListOptions filters and pages List results.
type ListOptions struct {
	Limit      int // 0 means no limit
	Offset     int
	OnlyUnread bool
	Types      []string
	Since      *time.Time
}
