package notify

import (
	"slices"
	"sync"
)

// TypeID identifies a notification type.
type TypeID string

// ChannelID identifies a delivery channel.
type ChannelID string

// Type is a category of notification with the channels it is delivered to
// when the user has no stored preference.
type Type struct {
	ID              TypeID
	Title           string
	Description     string
	DefaultChannels []ChannelID
}

// IsDefault reports whether ch is one of the type's default channels.
func (t Type) IsDefault(ch ChannelID) bool {
	return slices.Contains(t.DefaultChannels, ch)
}

// Channel is a delivery medium backed by a Handler.
type Channel struct {
	ID      ChannelID
	Title   string
	Handler Handler
	// Queue overrides the handler's queue when set.
	Queue string
}

// QueueName returns the queue deliveries on this channel go to, or "" for
// synchronous delivery.
func (c Channel) QueueName() string {
	if c.Queue != "" {
		return c.Queue
	}
	if c.Handler != nil {
		return c.Handler.Queue()
	}
	return ""
}

// Catalog is the registry of notification types and channels. It is built
// once at startup and shared by the preference service, router and sender.
// Enumeration order is the order of first registration.
type Catalog struct {
	mu           sync.RWMutex
	types        []Type
	typeIndex    map[TypeID]int
	channels     []Channel
	channelIndex map[ChannelID]int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		typeIndex:    make(map[TypeID]int),
		channelIndex: make(map[ChannelID]int),
	}
}

// RegisterTypes merges types into the catalog. A type whose ID is already
// registered is skipped.
func (c *Catalog) RegisterTypes(types ...Type) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range types {
		if _, ok := c.typeIndex[t.ID]; ok {
			continue
		}
		t.DefaultChannels = slices.Clone(t.DefaultChannels)
		c.typeIndex[t.ID] = len(c.types)
		c.types = append(c.types, t)
	}
}

// RegisterChannels merges channels into the catalog. A channel whose ID is
// already registered is skipped.
func (c *Catalog) RegisterChannels(channels ...Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range channels {
		if _, ok := c.channelIndex[ch.ID]; ok {
			continue
		}
		c.channelIndex[ch.ID] = len(c.channels)
		c.channels = append(c.channels, ch)
	}
}

// Types returns the registered types.
func (c *Catalog) Types() []Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.types)
}

// Channels returns the registered channels.
func (c *Catalog) Channels() []Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.channels)
}

// Type looks up a type by ID.
func (c *Catalog) Type(id TypeID) (Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.typeIndex[id]
	if !ok {
		return Type{}, false
	}
	return c.types[i], true
}

// Channel looks up a channel by ID.
func (c *Catalog) Channel(id ChannelID) (Channel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.channelIndex[id]
	if !ok {
		return Channel{}, false
	}
	return c.channels[i], true
}

// Reset removes every type and channel.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = nil
	c.channels = nil
	c.typeIndex = make(map[TypeID]int)
	c.channelIndex = make(map[ChannelID]int)
}
