// Package config loads application configuration from environment variables
// into typed structs.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - LoadEnv reads one or more `.env` files; Load reads the default `.env`
//     on first use when it exists.
//   - Load parses the environment into any struct using field tags and caches
//     the result per type for the lifetime of the process.
//   - MustLoad panics on failure, for configuration the process cannot start
//     without.
//   - LoadWithPrefix parses without caching, for loading the same struct type
//     under several prefixes.
//
// Every infrastructure package in this module exposes its own Config struct
// (pg.Config, redis.Config, email.Config, notify.Config and so on):
//
//	var pgCfg pg.Config
//	config.MustLoad(&pgCfg)
//
//	var notifyCfg notify.Config
//	if err := config.Load(&notifyCfg); err != nil {
//	    log.Fatalf("notify config: %v", err)
//	}
//
// # Error Handling
//
// The package defines sentinel errors that can be compared with `errors.Is`:
//
//   - `ErrParsingConfig`   – failed to parse env vars into struct.
//   - `ErrLoadingEnvFile`  – a .env file passed to `LoadEnv` could not be read.
//   - `ErrConfigNotLoaded` – the config type was not cached after loading.
//   - `ErrNilPointer`      – nil pointer passed to a loader.
//
// A failed Load is not cached, so a later call retries the parse.
//
// # Testing Helpers
//
// Use `ResetCache()` to clear the global cache between tests.
package config
