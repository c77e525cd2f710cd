package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/usernotify/pkg/channels/push"
	"github.com/dmitrymomot/usernotify/pkg/inbox"
	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/mongo"
	"github.com/dmitrymomot/usernotify/pkg/notify"
	"github.com/dmitrymomot/usernotify/pkg/notify/mongostore"
	"github.com/dmitrymomot/usernotify/pkg/notify/pgstore"
	"github.com/dmitrymomot/usernotify/pkg/pg"
	"github.com/dmitrymomot/usernotify/pkg/queue"
)

var errMissingUser = errors.New("--user is required")

type commandEnv struct {
	settings settings
	logger   *slog.Logger
	deps     deps
	args     []string
	stdin    io.Reader
	stdout   io.Writer
}

type command struct {
	needsMail bool
	run       func(ctx context.Context, env commandEnv) error
}

var commands = map[string]command{
	"migrate":    {run: runMigrate},
	"health":     {needsMail: true, run: runHealth},
	"prefs":      {needsMail: true, run: runPrefs},
	"set-prefs":  {needsMail: true, run: runSetPrefs},
	"send-tests": {needsMail: true, run: runSendTests},
}

// prefRow is the YAML form of a preference.
type prefRow struct {
	Type    string `yaml:"type"`
	Channel string `yaml:"channel"`
	Active  bool   `yaml:"active"`
}

func withApp(ctx context.Context, env commandEnv, fn func(a *app) error) error {
	a, err := newApp(ctx, env.settings, env.logger, env.deps)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(context.WithoutCancel(ctx)); cerr != nil {
			env.logger.LogAttrs(ctx, slog.LevelWarn, "failed to release resources", logger.Error(cerr))
		}
	}()
	return fn(a)
}

func runMigrate(ctx context.Context, env commandEnv) error {
	s := env.settings
	switch s.Store {
	case storePostgres:
		pool, err := pg.Connect(ctx, s.PG)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()
		db := pg.Open(pool)
		defer db.Close()
		return pgstore.Migrate(ctx, db, env.logger)

	case storeMongo:
		db, err := mongo.NewWithDatabase(ctx, s.Mongo, "")
		if err != nil {
			return fmt.Errorf("connect to mongodb: %w", err)
		}
		defer func() { _ = db.Client().Disconnect(context.WithoutCancel(ctx)) }()
		return mongostore.New(db, mongostore.WithLogger(env.logger)).EnsureIndexes(ctx)

	default:
		env.logger.LogAttrs(ctx, slog.LevelInfo, "nothing to migrate", slog.String("store", s.Store))
		return nil
	}
}

func runHealth(ctx context.Context, env commandEnv) error {
	return withApp(ctx, env, func(a *app) error {
		ctx, cancel := context.WithTimeout(ctx, env.settings.HealthTimeout)
		defer cancel()
		if err := a.healthcheck(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(env.stdout, "ok")
		return err
	})
}

func runPrefs(ctx context.Context, env commandEnv) error {
	fs := pflag.NewFlagSet("prefs", pflag.ContinueOnError)
	user := fs.String("user", "", "user ID")
	typ := fs.String("type", "", "only this notification type")
	ch := fs.String("channel", "", "only this channel")
	if err := fs.Parse(env.args); err != nil {
		return err
	}
	if *user == "" {
		return errMissingUser
	}

	return withApp(ctx, env, func(a *app) error {
		prefs, err := a.prefs.Resolve(ctx, *user, notify.Filter{
			Type:    notify.TypeID(*typ),
			Channel: notify.ChannelID(*ch),
		})
		if err != nil {
			return err
		}
		rows := make([]prefRow, len(prefs))
		for i, p := range prefs {
			rows[i] = prefRow{Type: string(p.Type), Channel: string(p.Channel), Active: p.IsActive}
		}
		enc := yaml.NewEncoder(env.stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rows)
	})
}

func runSetPrefs(ctx context.Context, env commandEnv) error {
	fs := pflag.NewFlagSet("set-prefs", pflag.ContinueOnError)
	user := fs.String("user", "", "user ID")
	file := fs.StringP("file", "f", "-", "YAML list of {type, channel, active}; - reads stdin")
	if err := fs.Parse(env.args); err != nil {
		return err
	}
	if *user == "" {
		return errMissingUser
	}

	r := env.stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	var rows []prefRow
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode preferences: %w", err)
	}

	prefs := make([]notify.Preference, len(rows))
	for i, row := range rows {
		prefs[i] = notify.Preference{
			UserID:   *user,
			Type:     notify.TypeID(row.Type),
			Channel:  notify.ChannelID(row.Channel),
			IsActive: row.Active,
		}
	}

	return withApp(ctx, env, func(a *app) error {
		if err := a.prefs.ReplaceAll(ctx, *user, prefs); err != nil {
			return err
		}
		_, err := fmt.Fprintf(env.stdout, "stored %d preferences for %s\n", len(prefs), *user)
		return err
	})
}

func runSendTests(ctx context.Context, env commandEnv) error {
	fs := pflag.NewFlagSet("send-tests", pflag.ContinueOnError)
	var u notify.Recipient
	fs.StringVar(&u.ID, "user", "", "user ID")
	fs.StringVar(&u.Name, "name", "", "display name")
	fs.StringVar(&u.Email, "email", "", "email address")
	fs.StringVar(&u.Locale, "locale", "", "locale, defaults to NOTIFY_DEFAULT_LOCALE")
	target := fs.String("push-target", "", "SNS endpoint or topic ARN for push, overrides PUSH_TARGET_TEMPLATE")
	if err := fs.Parse(env.args); err != nil {
		return err
	}
	if u.ID == "" {
		return errMissingUser
	}
	if *target != "" {
		env.deps.targets = push.TemplateResolver(*target)
	}

	return withApp(ctx, env, func(a *app) error {
		sendErr := a.sender.SendTests(ctx, u, testListers()...)

		drainCtx, cancel := context.WithTimeout(ctx, env.settings.DrainTimeout)
		defer cancel()
		start := time.Now()
		n, err := a.processor.Drain(drainCtx)
		if err != nil {
			return errors.Join(sendErr, err)
		}

		unread, err := a.inbox.CountUnread(ctx, u.ID)
		if err != nil {
			return errors.Join(sendErr, err)
		}
		failed := len(a.tasks.Tasks(queue.TaskStatusFailed)) + len(a.tasks.Tasks(queue.TaskStatusPending))
		fmt.Fprintf(env.stdout, "processed %d queued deliveries in %s, %d not delivered\n",
			n, time.Since(start).Round(time.Millisecond), failed)
		fmt.Fprintf(env.stdout, "inbox of %s: %d unread\n", u.ID, unread)

		items, err := a.inbox.List(ctx, u.ID, inbox.ListOptions{Limit: 10})
		if err != nil {
			return errors.Join(sendErr, err)
		}
		for _, it := range items {
			fmt.Fprintf(env.stdout, "  [%s] %s\n", it.Type, it.Title)
		}
		return sendErr
	})
}
