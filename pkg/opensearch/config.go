package opensearch

// Config holds the OpenSearch connection settings.
type Config struct {
	Addresses    []string `env:"OPENSEARCH_ADDRESSES,required"`
	Username     string   `env:"OPENSEARCH_USERNAME,notEmpty"`
	Password     string   `env:"OPENSEARCH_PASSWORD,notEmpty"`
	MaxRetries   int      `env:"OPENSEARCH_MAX_RETRIES" envDefault:"3"`
	DisableRetry bool     `env:"OPENSEARCH_DISABLE_RETRY" envDefault:"false"`
	// EventsIndex receives notification log events.
	EventsIndex string `env:"OPENSEARCH_EVENTS_INDEX" envDefault:"notification-events"`
}
