// Package mongo connects to MongoDB with retries.
//
// The database handle is what notify/mongostore stores preferences in.
//
//	var cfg mongo.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	db, err := mongo.NewWithDatabase(ctx, cfg, "")
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
// Healthcheck wraps Ping for readiness checks.
package mongo
