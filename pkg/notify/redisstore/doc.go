// Package redisstore is a read-through Redis cache for notification
// preferences.
//
// Each user's complete row set is cached as one JSON value under
// "<prefix><user id>". Filters are applied to the cached rows, so a single
// entry serves every Find of that user. Writes go to the wrapped store and,
// after commit, overwrite the entries of the users they touched with a
// tombstone that lives for the hold period (WithHold). Fills use SET NX, so
// a reader that loaded rows before the commit cannot cache them afterwards.
// Stale rows can still be cached when such a read outlasts the hold, and a
// read in flight during the commit may return the old set once. A reader
// never sees a partially written set.
//
//	base := pgstore.New(pg.Open(pool))
//	store := redisstore.New(client, base, redisstore.WithTTL(5*time.Minute))
//	prefs := notify.NewPreferenceService(catalog, store)
package redisstore
