package inbox

import "time"

// Priority orders notifications in the inbox UI.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityHigh
)

// Action is a call-to-action link shown with a notification.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Notification is an in-app message kept until the user deletes it or it
// expires.
type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Type      string            `json:"type"`
	Priority  Priority          `json:"priority"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Data      map[string]string `json:"data,omitempty"`
	Actions   []Action          `json:"actions,omitempty"`
	Read      bool              `json:"read"`
	ReadAt    *time.Time        `json:"read_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
}

// IsExpired reports whether the notification expired before now.
func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && now.After(*n.ExpiresAt)
}

// MarkAsRead sets Read and stamps ReadAt once.
func (n *Notification) MarkAsRead(now time.Time) {
	if n.Read {
		return
	}
	n.Read = true
	n.ReadAt = &now
}
