package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/sanitizer"
)

// PreferenceService reconciles stored preferences with the catalog.
type PreferenceService struct {
	catalog *Catalog
	store   Store
	logger  *slog.Logger
}

// PreferenceOption configures a PreferenceService.
type PreferenceOption func(*PreferenceService)

// WithPreferenceLogger sets the logger.
func WithPreferenceLogger(l *slog.Logger) PreferenceOption {
	return func(s *PreferenceService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewPreferenceService creates a PreferenceService.
func NewPreferenceService(catalog *Catalog, store Store, opts ...PreferenceOption) *PreferenceService {
	s := &PreferenceService{
		catalog: catalog,
		store:   store,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns one preference per registered type and channel that passes
// the filter, in catalog order. Pairs without a stored row are active when the
// channel is one of the type's defaults. Stored rows for types or channels no
// longer in the catalog are ignored.
func (s *PreferenceService) Resolve(ctx context.Context, userID string, f Filter) ([]Preference, error) {
	stored, err := s.store.Find(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("find preferences: %w", err)
	}

	byKey := make(map[prefKey]Preference, len(stored))
	for _, p := range stored {
		byKey[keyOf(p)] = p
	}

	types := s.catalog.Types()
	channels := s.catalog.Channels()
	out := make([]Preference, 0, len(types)*len(channels))

	for _, t := range types {
		if f.Type != "" && f.Type != t.ID {
			continue
		}
		for _, ch := range channels {
			if f.Channel != "" && f.Channel != ch.ID {
				continue
			}
			p, ok := byKey[prefKey{typ: t.ID, ch: ch.ID}]
			if !ok {
				p = Preference{Type: t.ID, Channel: ch.ID, IsActive: t.IsDefault(ch.ID)}
			}
			p.UserID = userID
			out = append(out, p)
		}
	}

	return out, nil
}

// ActiveChannels returns the channels a user receives notifications of type
// typ on, in catalog order.
func (s *PreferenceService) ActiveChannels(ctx context.Context, userID string, typ TypeID) ([]ChannelID, error) {
	prefs, err := s.Resolve(ctx, userID, Filter{Type: typ})
	if err != nil {
		return nil, err
	}

	ids := make([]ChannelID, 0, len(prefs))
	for _, p := range prefs {
		if p.IsActive {
			ids = append(ids, p.Channel)
		}
	}
	return sanitizer.Deduplicate(ids), nil
}

// ReplaceAll makes prefs the complete stored preference set of the user.
// Existing rows are deleted and prefs inserted in one store transaction, so
// on failure the previous set stays in place. The UserID of every row is
// overwritten with userID.
func (s *PreferenceService) ReplaceAll(ctx context.Context, userID string, prefs []Preference) error {
	rows, err := s.validate(userID, prefs)
	if err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete preferences: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Insert(ctx, rows); err != nil {
			return fmt.Errorf("insert preferences: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to replace notification preferences",
			logger.UserID(userID),
			logger.Error(err),
		)
		return err
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "notification preferences replaced",
		logger.UserID(userID),
		slog.Int("count", len(rows)),
	)
	return nil
}

func (s *PreferenceService) validate(userID string, prefs []Preference) ([]Preference, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}

	seen := make(map[prefKey]struct{}, len(prefs))
	rows := make([]Preference, 0, len(prefs))
	for _, p := range prefs {
		if _, ok := s.catalog.Type(p.Type); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
		}
		if _, ok := s.catalog.Channel(p.Channel); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, p.Channel)
		}
		k := keyOf(p)
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("%w: %s/%s", ErrDuplicatePreference, p.Type, p.Channel)
		}
		seen[k] = struct{}{}
		p.UserID = userID
		rows = append(rows, p)
	}
	return rows, nil
}
