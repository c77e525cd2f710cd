// Package redis connects to Redis with retries and exposes a health check.
//
// The returned client is consumed by the notification preference cache
// (notify/redisstore).
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	check := redis.Healthcheck(client)
//	if err := check(ctx); err != nil {
//		// errors.Is(err, redis.ErrHealthcheckFailed)
//	}
package redis
