package notify

import (
	"context"

	"github.com/dmitrymomot/usernotify/pkg/environment"
)

// Config holds notification settings loaded from the environment.
type Config struct {
	Env              string `env:"APP_ENV" envDefault:"development"`
	DefaultLocale    string `env:"NOTIFY_DEFAULT_LOCALE" envDefault:"en"`
	PreferencesTable string `env:"NOTIFY_PREFERENCES_TABLE" envDefault:"user_notification_preferences"`
	Concurrency      int    `env:"NOTIFY_CONCURRENCY" envDefault:"4"`
}

// DeliveryGate returns a gate that passes only when Env names production.
func (c Config) DeliveryGate() func(context.Context) bool {
	return environment.Is(environment.Parse(c.Env), environment.Production)
}

// RouterOptions returns the router options described by c.
func (c Config) RouterOptions() []RouterOption {
	return []RouterOption{WithDeliveryGate(c.DeliveryGate())}
}

// SenderOptions returns the sender options described by c.
func (c Config) SenderOptions() []SenderOption {
	return []SenderOption{
		WithDefaultLocale(c.DefaultLocale),
		WithConcurrency(c.Concurrency),
	}
}
