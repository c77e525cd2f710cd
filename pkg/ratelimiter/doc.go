// Package ratelimiter throttles notification deliveries with token buckets.
//
// A Bucket admits up to Capacity deliveries in a burst and refills
// RefillRate tokens every RefillInterval. State lives in a Store:
// MemoryStore for a single process, RedisStore to share limits between
// workers.
//
// Throttle turns a limiter into channel middleware:
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client), ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: 10 * time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//	h := mail.New(sender, mail.WithMiddleware(
//		ratelimiter.Throttle(limiter, ratelimiter.WithImportantBypass()),
//	))
//
// A denied delivery fails with a *LimitError wrapping ErrRateLimited.
package ratelimiter
