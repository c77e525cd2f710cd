// Package pgstore stores notification preferences in PostgreSQL.
//
//	db := pg.Open(pool)
//	if err := pgstore.Migrate(ctx, db, logger); err != nil {
//		return err
//	}
//	prefs := notify.NewPreferenceService(catalog, pgstore.New(db))
//
// ReplaceAll runs as one transaction, so readers see either the old or the
// new preference set of a user.
package pgstore
