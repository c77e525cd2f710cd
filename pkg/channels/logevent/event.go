package logevent

import (
	"time"

	"github.com/dmitrymomot/usernotify/pkg/notify"
)

// Event is one audit record written by the log-event channel.
type Event struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Subject    string            `json:"subject,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Test       bool              `json:"test,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// FromEnvelope builds the event of env. Without an attached log event the
// notification type is used as the event name.
func FromEnvelope(env *notify.Envelope) Event {
	ev := Event{
		ID:        env.ID,
		UserID:    env.Recipient.ID,
		Type:      string(env.Type),
		Name:      string(env.Type),
		Subject:   env.Subject,
		Test:      env.Test,
		CreatedAt: env.CreatedAt,
	}
	if env.LogEvent != nil {
		ev.Name = env.LogEvent.Name
		ev.Properties = env.LogEvent.Properties
	}
	return ev
}
