package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/notify"
	"github.com/dmitrymomot/usernotify/pkg/pg"
)

// DefaultTable is the table created by the embedded migration.
const DefaultTable = "user_notification_preferences"

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a notify.Store backed by PostgreSQL.
type Store struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithTable sets the table name, optionally schema qualified.
func WithTable(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.table = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store. db is usually pg.Open(pool).
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, table: DefaultTable, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.table = pgx.Identifier(strings.Split(s.table, ".")).Sanitize()
	return s
}

// Migrate creates the preferences table.
func Migrate(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	return pg.MigrateFS(ctx, db, migrations, "migrations", "notify_schema_migrations", log)
}

// Find implements notify.Store.
func (s *Store) Find(ctx context.Context, userID string, f notify.Filter) ([]notify.Preference, error) {
	query := "SELECT user_id, type, channel, is_active FROM " + s.table + " WHERE user_id = $1"
	args := []any{userID}
	if f.Type != "" {
		args = append(args, string(f.Type))
		query += " AND type = $" + strconv.Itoa(len(args))
	}
	if f.Channel != "" {
		args = append(args, string(f.Channel))
		query += " AND channel = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY type, channel"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	var out []notify.Preference
	for rows.Next() {
		var p notify.Preference
		if err := rows.Scan(&p.UserID, &p.Type, &p.Channel, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	return out, nil
}

// InTx implements notify.Store with a database transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx notify.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, &storeTx{tx: sqlTx, table: s.table}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.LogAttrs(ctx, slog.LevelError, "failed to roll back preference transaction", logger.Error(rbErr))
			return errors.Join(err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type storeTx struct {
	tx    *sql.Tx
	table string
}

func (t *storeTx) DeleteByUser(ctx context.Context, userID string) error {
	_, err := t.tx.ExecContext(ctx, "DELETE FROM "+t.table+" WHERE user_id = $1", userID)
	return err
}

func (t *storeTx) Insert(ctx context.Context, prefs []notify.Preference) error {
	if len(prefs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO " + t.table + " (user_id, type, channel, is_active) VALUES ")
	args := make([]any, 0, len(prefs)*4)
	for i, p := range prefs {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := len(args)
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, p.UserID, string(p.Type), string(p.Channel), p.IsActive)
	}

	if _, err := t.tx.ExecContext(ctx, sb.String(), args...); err != nil {
		if pg.IsDuplicateKeyError(err) {
			return errors.Join(notify.ErrDuplicatePreference, err)
		}
		return err
	}
	return nil
}
