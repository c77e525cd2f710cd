package queue

import "time"

// Config holds queue settings loaded from the environment.
type Config struct {
	DefaultQueue string        `env:"QUEUE_DEFAULT_NAME" envDefault:"default"`
	MaxRetries   int8          `env:"QUEUE_MAX_RETRIES" envDefault:"3"`
	RetryBackoff time.Duration `env:"QUEUE_RETRY_BACKOFF" envDefault:"30s"`
}
