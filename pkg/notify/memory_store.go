package notify

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// MemoryStore is an in-process Store. Transactions stage their writes on a
// private copy that replaces the live data on success.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	rows map[string][]Preference
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string][]Preference)}
}

// Find implements Store.
func (s *MemoryStore) Find(_ context.Context, userID string, f Filter) ([]Preference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Preference
	for _, p := range s.rows[userID] {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// InTx implements Store. Transactions are serialized.
func (s *MemoryStore) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	tx := &memoryTx{rows: maps.Clone(s.rows)}
	s.mu.RUnlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	s.rows = tx.rows
	s.mu.Unlock()
	return nil
}

type memoryTx struct {
	rows map[string][]Preference
}

func (tx *memoryTx) DeleteByUser(_ context.Context, userID string) error {
	delete(tx.rows, userID)
	return nil
}

func (tx *memoryTx) Insert(_ context.Context, prefs []Preference) error {
	staged := make(map[string][]Preference)
	for _, p := range prefs {
		if containsKey(tx.rows[p.UserID], p) || containsKey(staged[p.UserID], p) {
			return fmt.Errorf("%w: %s/%s for user %s", ErrDuplicatePreference, p.Type, p.Channel, p.UserID)
		}
		staged[p.UserID] = append(staged[p.UserID], p)
	}
	for userID, rows := range staged {
		merged := make([]Preference, 0, len(tx.rows[userID])+len(rows))
		merged = append(merged, tx.rows[userID]...)
		tx.rows[userID] = append(merged, rows...)
	}
	return nil
}

func containsKey(rows []Preference, p Preference) bool {
	for _, r := range rows {
		if keyOf(r) == keyOf(p) {
			return true
		}
	}
	return false
}
