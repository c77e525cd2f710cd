package notify

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/usernotify/pkg/environment"
	"github.com/dmitrymomot/usernotify/pkg/logger"
)

// ChannelResolver returns the channels a user has enabled for a type.
// *PreferenceService implements it.
type ChannelResolver interface {
	ActiveChannels(ctx context.Context, userID string, typ TypeID) ([]ChannelID, error)
}

// Router decides which channels a notification is delivered to.
type Router struct {
	catalog *Catalog
	prefs   ChannelResolver
	gate    func(ctx context.Context) bool
	logger  *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithDeliveryGate sets the predicate that allows delivery. When it returns
// false only test sends get through. Defaults to environment.IsProduction.
func WithDeliveryGate(gate func(ctx context.Context) bool) RouterOption {
	return func(r *Router) {
		if gate != nil {
			r.gate = gate
		}
	}
}

// WithRouterLogger sets the logger.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRouter creates a Router.
func NewRouter(catalog *Catalog, prefs ChannelResolver, opts ...RouterOption) *Router {
	r := &Router{
		catalog: catalog,
		prefs:   prefs,
		gate:    environment.IsProduction,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route returns the channels n is delivered to for u, in order.
//
// The first rule that applies selects the channels:
//  1. an explicit list set with SetChannels, used as is, even when empty;
//  2. a non-nil DefaultChannels result of the kind;
//  3. the user's active preferences for the notification type.
//
// The log event channel is then appended when the kind has one and log
// events are allowed. Finally the delivery gate drops every channel unless it
// passes or the notification is a test. Channels unknown to the catalog are
// reported as ErrUnknownChannel before the gate applies.
func (r *Router) Route(ctx context.Context, u User, n Notification) ([]Channel, error) {
	ids, err := r.selectChannels(ctx, u, n)
	if err != nil {
		return nil, err
	}

	b := n.state()
	if le, ok := n.(LogEventer); ok && b.LogEventAllowed() {
		if ch := le.LogEventChannel(); ch != "" && !slices.Contains(ids, ch) {
			ids = append(ids, ch)
		}
	}

	channels := make([]Channel, 0, len(ids))
	for _, id := range ids {
		ch, ok := r.catalog.Channel(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, id)
		}
		channels = append(channels, ch)
	}

	if len(channels) > 0 && !b.IsTest() && !r.gate(ctx) {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "delivery suppressed outside production",
			logger.UserID(u.NotificationID()),
			logger.NotificationType(string(n.NotificationType())),
			logger.Channels(channelNames(ids)...),
		)
		return []Channel{}, nil
	}

	return channels, nil
}

func (r *Router) selectChannels(ctx context.Context, u User, n Notification) ([]ChannelID, error) {
	if ids, ok := n.state().Channels(); ok {
		return ids, nil
	}

	if d, ok := n.(DefaultChanneler); ok {
		if ids := d.DefaultChannels(ctx, u); ids != nil {
			return slices.Clone(ids), nil
		}
	}

	typ := n.NotificationType()

	// Importance is reserved for overriding preferences; until that policy
	// exists important notifications follow preferences like any other.
	if IsImportant(n) {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "important notification routed by preferences",
			logger.UserID(u.NotificationID()),
			logger.NotificationType(string(typ)),
		)
	}

	if _, ok := r.catalog.Type(typ); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	ids, err := r.prefs.ActiveChannels(ctx, u.NotificationID(), typ)
	if err != nil {
		return nil, fmt.Errorf("resolve channels for %q: %w", typ, err)
	}
	return ids, nil
}

func channelNames(ids []ChannelID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
