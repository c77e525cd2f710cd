package notify

import "context"

// Preference is a user's active flag for one type and channel pair.
type Preference struct {
	UserID   string    `json:"user_id" bson:"user_id"`
	Type     TypeID    `json:"type" bson:"type"`
	Channel  ChannelID `json:"channel" bson:"channel"`
	IsActive bool      `json:"is_active" bson:"is_active"`
}

// Filter narrows a preference read. Empty fields match everything.
type Filter struct {
	Type    TypeID
	Channel ChannelID
}

// Match reports whether p passes the filter.
func (f Filter) Match(p Preference) bool {
	return (f.Type == "" || f.Type == p.Type) && (f.Channel == "" || f.Channel == p.Channel)
}

// Store persists preference rows. At most one row exists per user, type and
// channel.
type Store interface {
	// Find returns the stored rows of a user that match the filter.
	Find(ctx context.Context, userID string, f Filter) ([]Preference, error)
	// InTx runs fn in a single atomic unit. If fn returns an error nothing it
	// did is visible to readers.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the write side of a Store, only available inside InTx.
type Tx interface {
	DeleteByUser(ctx context.Context, userID string) error
	Insert(ctx context.Context, prefs []Preference) error
}

type prefKey struct {
	typ TypeID
	ch  ChannelID
}

func keyOf(p Preference) prefKey {
	return prefKey{typ: p.Type, ch: p.Channel}
}
