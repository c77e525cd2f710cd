package notify

import (
	"time"
)

// Envelope is what a channel handler receives: the content of one
// notification rendered for one channel and one recipient. It is JSON
// serializable so queued deliveries can cross process boundaries.
type Envelope struct {
	ID        string    `json:"id"`
	Recipient Recipient `json:"recipient"`
	Type      TypeID    `json:"type"`
	Channel   ChannelID `json:"channel"`
	Locale    string    `json:"locale"`
	Subject   string    `json:"subject"`
	Title     string    `json:"title"`
	Blocks    []Block   `json:"blocks"`
	LogEvent  *LogEvent `json:"log_event,omitempty"`
	Important bool      `json:"important,omitempty"`
	Test      bool      `json:"test,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Notification is the source notification; only set for synchronous delivery.
	Notification Notification `json:"-"`
}

// PlainText renders the envelope body as plain text.
func (e *Envelope) PlainText() string {
	return PlainText(e.Blocks)
}

// Markdown renders the envelope body as markdown.
func (e *Envelope) Markdown() string {
	return Markdown(e.Blocks)
}
