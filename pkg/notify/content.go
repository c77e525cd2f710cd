package notify

// Component names a presentational wrapper a channel may draw around a
// group of lines. Channels that do not know a component ignore it.
type Component string

const (
	ComponentNone    Component = ""
	ComponentPanel   Component = "panel"
	ComponentSubcopy Component = "subcopy"
)

// Item is a content element of a Layout: *LineGroup or *Action.
type Item interface {
	IsHiddenFrom(ch ChannelID) bool
	render(tr Translator, locale string) Block
}

// LineGroup is an ordered group of lines. Glued groups render as one block
// with soft line breaks; otherwise each line is its own paragraph.
type LineGroup struct {
	Visibility
	Component Component `json:"component,omitempty"`
	Glue      bool      `json:"glue"`
	Lines     []Line    `json:"lines"`
}

// NewLineGroup creates a glued group holding lines.
func NewLineGroup(lines ...Line) *LineGroup {
	return &LineGroup{Glue: true, Lines: lines}
}

// Add appends a line built from template and name, value pairs.
func (g *LineGroup) Add(template string, kv ...string) *LineGroup {
	return g.AddLine(NewLine(template, kv...))
}

// AddLine appends l.
func (g *LineGroup) AddLine(l Line) *LineGroup {
	g.Lines = append(g.Lines, l)
	return g
}

// WithComponent sets the presentational component.
func (g *LineGroup) WithComponent(c Component) *LineGroup {
	g.Component = c
	return g
}

// Separate renders every line as its own paragraph.
func (g *LineGroup) Separate() *LineGroup {
	g.Glue = false
	return g
}

// Hide hides the group from channels and returns it.
func (g *LineGroup) Hide(channels ...ChannelID) *LineGroup {
	for _, ch := range channels {
		g.HideFrom(ch)
	}
	return g
}

func (g *LineGroup) render(tr Translator, locale string) Block {
	b := Block{Kind: BlockText, Component: g.Component, Glue: g.Glue, Lines: make([]string, 0, len(g.Lines))}
	for _, l := range g.Lines {
		b.Lines = append(b.Lines, l.Format(tr, locale))
	}
	return b
}

// Action is a call to action: a button text and its target URL.
type Action struct {
	Visibility
	Text Line   `json:"text"`
	URL  string `json:"url"`
}

// NewAction creates an Action whose text is built from template and name,
// value pairs.
func NewAction(template, url string, kv ...string) *Action {
	return &Action{Text: NewLine(template, kv...), URL: url}
}

// Hide hides the action from channels and returns it.
func (a *Action) Hide(channels ...ChannelID) *Action {
	for _, ch := range channels {
		a.HideFrom(ch)
	}
	return a
}

func (a *Action) render(tr Translator, locale string) Block {
	return Block{Kind: BlockAction, Lines: []string{a.Text.Format(tr, locale)}, URL: a.URL}
}

// Layout is the ordered body of a notification, shared by all channels.
type Layout struct {
	items []Item
}

// NewLayout creates a layout holding items in order. Nil items are skipped.
func NewLayout(items ...Item) *Layout {
	l := &Layout{}
	for _, it := range items {
		l.Add(it)
	}
	return l
}

// Add appends item.
func (l *Layout) Add(item Item) *Layout {
	if item != nil {
		l.items = append(l.items, item)
	}
	return l
}

// Prepend inserts item before all others.
func (l *Layout) Prepend(item Item) *Layout {
	if item != nil {
		l.items = append([]Item{item}, l.items...)
	}
	return l
}

// AddLines adds a line group, at the front when prepend is set.
func (l *Layout) AddLines(g *LineGroup, prepend bool) *Layout {
	if g == nil {
		return l
	}
	if prepend {
		return l.Prepend(g)
	}
	return l.Add(g)
}

// AddAction adds an action, at the front when prepend is set.
func (l *Layout) AddAction(a *Action, prepend bool) *Layout {
	if a == nil {
		return l
	}
	if prepend {
		return l.Prepend(a)
	}
	return l.Add(a)
}

// Items returns all items in order.
func (l *Layout) Items() []Item {
	if l == nil {
		return nil
	}
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// ForChannel returns the items visible on ch, in order.
func (l *Layout) ForChannel(ch ChannelID) []Item {
	if l == nil {
		return nil
	}
	out := make([]Item, 0, len(l.items))
	for _, it := range l.items {
		if !it.IsHiddenFrom(ch) {
			out = append(out, it)
		}
	}
	return out
}

// Render formats the items visible on ch.
func (l *Layout) Render(ch ChannelID, tr Translator, locale string) []Block {
	items := l.ForChannel(ch)
	blocks := make([]Block, 0, len(items))
	for _, it := range items {
		blocks = append(blocks, it.render(tr, locale))
	}
	return blocks
}
