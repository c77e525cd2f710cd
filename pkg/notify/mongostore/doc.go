// Package mongostore stores notification preferences in MongoDB.
//
// Rows are documents with the fields user_id, type, channel and is_active.
// EnsureIndexes creates the unique index that keeps one document per user,
// type and channel. ReplaceAll runs inside a multi-document transaction, so
// the deployment must be a replica set.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "")
//	if err != nil {
//		return err
//	}
//	store := mongostore.New(db)
//	if err := store.EnsureIndexes(ctx); err != nil {
//		return err
//	}
package mongostore
