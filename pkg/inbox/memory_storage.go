package inbox

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStorage keeps notifications in process memory.
type MemoryStorage struct {
	mu            sync.RWMutex
	notifications map[string][]Notification
	now           func() time.Time
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		notifications: make(map[string][]Notification),
		now:           time.Now,
	}
}

func (s *MemoryStorage) Create(_ context.Context, notif Notification) error {
	if notif.ID == "" {
		return ErrMissingID
	}
	if notif.UserID == "" {
		return ErrMissingUserID
	}
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.notifications[notif.UserID]
	for i := range list {
		if list[i].ID == notif.ID {
			list[i] = notif
			return nil
		}
	}
	s.notifications[notif.UserID] = append(list, notif)
	return nil
}

func (s *MemoryStorage) Get(_ context.Context, userID, notifID string) (*Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notifications[userID] {
		if n.ID == notifID {
			return &n, nil
		}
	}
	return nil, ErrNotificationNotFound
}

func (s *MemoryStorage) List(_ context.Context, userID string, opts ListOptions) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	filtered := make([]Notification, 0, len(s.notifications[userID]))
	for _, n := range s.notifications[userID] {
		switch {
		case n.IsExpired(now):
		case opts.OnlyUnread && n.Read:
		case len(opts.Types) > 0 && !slices.Contains(opts.Types, n.Type):
		case opts.Since != nil && n.CreatedAt.Before(*opts.Since):
		default:
			filtered = append(filtered, n)
		}
	}

	slices.SortStableFunc(filtered, func(a, b Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	start := min(max(opts.Offset, 0), len(filtered))
	end := len(filtered)
	if opts.Limit > 0 {
		end = min(start+opts.Limit, end)
	}
	return filtered[start:end], nil
}

func (s *MemoryStorage) MarkRead(_ context.Context, userID string, notifIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rows := s.notifications[userID]
	for i := range rows {
		if slices.Contains(notifIDs, rows[i].ID) {
			rows[i].MarkAsRead(now)
		}
	}
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, userID string, notifIDs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.notifications[userID]
	if !ok {
		return nil
	}
	s.notifications[userID] = slices.DeleteFunc(slices.Clone(rows), func(n Notification) bool {
		return slices.Contains(notifIDs, n.ID)
	})
	return nil
}

func (s *MemoryStorage) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	count := 0
	for _, n := range s.notifications[userID] {
		if !n.Read && !n.IsExpired(now) {
			count++
		}
	}
	return count, nil
}
