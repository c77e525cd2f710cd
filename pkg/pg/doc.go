// Package pg connects to PostgreSQL with pgx/v5, applies goose migrations and
// classifies driver errors.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	db := pg.Open(pool)
//	if err := pgstore.Migrate(ctx, db, slog.Default()); err != nil {
//		return err
//	}
//
// Helpers such as IsDuplicateKeyError unwrap *pgconn.PgError values so
// storage code can map them to domain errors.
package pg
