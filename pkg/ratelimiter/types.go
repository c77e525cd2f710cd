package ratelimiter

import "time"

// Result is the outcome of a rate limit check.
type Result struct {
	Limit     int
	Remaining int // negative when the request was denied: the missing tokens
	ResetAt   time.Time
}

// Allowed reports whether the request was admitted.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before retrying, or 0 when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Config describes a token bucket.
type Config struct {
	Capacity       int           `env:"CAPACITY" envDefault:"10"`
	RefillRate     int           `env:"REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"1m"`
}

// refill returns the token count after the intervals elapsed between last
// and now, and the new refill mark.
func (c Config) refill(tokens int, last, now time.Time) (int, time.Time) {
	maxIntervals := int64(c.Capacity/c.RefillRate + 1)
	intervals := int(min(int64(now.Sub(last)/c.RefillInterval), maxIntervals))
	if intervals <= 0 {
		return tokens, last
	}
	return min(tokens+intervals*c.RefillRate, c.Capacity), now
}
