package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/usernotify/pkg/channels/push"
	"github.com/dmitrymomot/usernotify/pkg/config"
	"github.com/dmitrymomot/usernotify/pkg/email"
	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/mongo"
	"github.com/dmitrymomot/usernotify/pkg/notify"
	"github.com/dmitrymomot/usernotify/pkg/opensearch"
	"github.com/dmitrymomot/usernotify/pkg/pg"
	"github.com/dmitrymomot/usernotify/pkg/queue"
	"github.com/dmitrymomot/usernotify/pkg/ratelimiter"
	"github.com/dmitrymomot/usernotify/pkg/redis"
)

// Preference store backends.
const (
	storeMemory   = "memory"
	storePostgres = "postgres"
	storeMongo    = "mongo"
)

// Log event sinks.
const (
	sinkLog        = "log"
	sinkOpenSearch = "opensearch"
)

// options selects the backends the binary wires together.
type options struct {
	Store            string        `env:"NOTIFY_STORE" envDefault:"memory"`
	CachePreferences bool          `env:"NOTIFY_CACHE_PREFERENCES" envDefault:"false"`
	ThrottleMail     bool          `env:"NOTIFY_THROTTLE_MAIL" envDefault:"false"`
	EventsSink       string        `env:"NOTIFY_EVENTS_SINK" envDefault:"log"`
	PushEnabled      bool          `env:"NOTIFY_PUSH_ENABLED" envDefault:"false"`
	LocalesDir       string        `env:"NOTIFY_LOCALES_DIR"`
	DrainTimeout     time.Duration `env:"NOTIFY_DRAIN_TIMEOUT" envDefault:"30s"`
	HealthTimeout    time.Duration `env:"NOTIFY_HEALTH_TIMEOUT" envDefault:"5s"`
}

// usesRedis reports whether any selected component needs a Redis client.
func (o options) usesRedis() bool {
	return o.CachePreferences || o.ThrottleMail
}

type settings struct {
	options

	Notify   notify.Config
	Logger   logger.Config
	Queue    queue.Config
	Throttle ratelimiter.Config
	Email    email.Config

	PG         pg.Config
	Mongo      mongo.Config
	Redis      redis.Config
	OpenSearch opensearch.Config
	Push       push.Config
}

// loadSettings reads the environment. Backend configs are only parsed for the
// backends options select, so unused required variables may stay unset.
func loadSettings(withMail bool) (settings, error) {
	var s settings
	if err := config.Load(&s.options); err != nil {
		return s, err
	}

	var errs []error
	errs = append(errs,
		config.Load(&s.Notify),
		config.Load(&s.Logger),
		config.Load(&s.Queue),
	)
	if withMail {
		errs = append(errs, config.Load(&s.Email))
	}
	if s.ThrottleMail {
		errs = append(errs, config.LoadWithPrefix(&s.Throttle, "MAIL_THROTTLE_"))
	}

	switch s.Store {
	case storeMemory:
	case storePostgres:
		errs = append(errs, config.Load(&s.PG))
	case storeMongo:
		errs = append(errs, config.Load(&s.Mongo))
	default:
		errs = append(errs, fmt.Errorf("%w: unknown preference store %q", config.ErrParsingConfig, s.Store))
	}

	if s.usesRedis() {
		errs = append(errs, config.Load(&s.Redis))
	}

	switch s.EventsSink {
	case sinkLog:
	case sinkOpenSearch:
		errs = append(errs, config.Load(&s.OpenSearch))
	default:
		errs = append(errs, fmt.Errorf("%w: unknown events sink %q", config.ErrParsingConfig, s.EventsSink))
	}

	if s.PushEnabled {
		errs = append(errs, config.Load(&s.Push))
	}
	return s, errors.Join(errs...)
}
