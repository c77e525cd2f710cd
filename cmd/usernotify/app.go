package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/usernotify/pkg/channels/inapp"
	"github.com/dmitrymomot/usernotify/pkg/channels/logevent"
	"github.com/dmitrymomot/usernotify/pkg/channels/mail"
	"github.com/dmitrymomot/usernotify/pkg/channels/push"
	"github.com/dmitrymomot/usernotify/pkg/email"
	"github.com/dmitrymomot/usernotify/pkg/i18n"
	"github.com/dmitrymomot/usernotify/pkg/inbox"
	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/mongo"
	"github.com/dmitrymomot/usernotify/pkg/notify"
	"github.com/dmitrymomot/usernotify/pkg/notify/mongostore"
	"github.com/dmitrymomot/usernotify/pkg/notify/pgstore"
	"github.com/dmitrymomot/usernotify/pkg/notify/redisstore"
	"github.com/dmitrymomot/usernotify/pkg/opensearch"
	"github.com/dmitrymomot/usernotify/pkg/pg"
	"github.com/dmitrymomot/usernotify/pkg/queue"
	"github.com/dmitrymomot/usernotify/pkg/ratelimiter"
	"github.com/dmitrymomot/usernotify/pkg/redis"
)

//go:embed locales
var locales embed.FS

// deps are collaborators that tests replace. Nil fields are built from
// settings.
type deps struct {
	mailer  email.EmailSender
	sns     push.SNSAPI
	targets push.TargetResolver
}

// app is the wired notification stack.
type app struct {
	logger    *slog.Logger
	catalog   *notify.Catalog
	prefs     *notify.PreferenceService
	sender    *notify.Sender
	processor *queue.Processor
	tasks     *queue.MemoryStorage
	inbox     *inbox.Manager

	checks  map[string]func(context.Context) error
	closers []func(context.Context) error
}

func newApp(ctx context.Context, s settings, log *slog.Logger, d deps) (_ *app, err error) {
	a := &app{
		logger:  log,
		catalog: notify.NewCatalog(),
		checks:  make(map[string]func(context.Context) error),
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, a.close(context.WithoutCancel(ctx)))
		}
	}()

	var rdb *goredis.Client
	if s.usesRedis() {
		if rdb, err = redis.Connect(ctx, s.Redis); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.checks["redis"] = redis.Healthcheck(rdb)
		a.onClose(func(context.Context) error { return rdb.Close() })
	}

	store, err := a.openStore(ctx, s, rdb)
	if err != nil {
		return nil, err
	}

	tr, err := newTranslator(ctx, s, log)
	if err != nil {
		return nil, err
	}

	channels, err := a.buildChannels(ctx, s, rdb, d)
	if err != nil {
		return nil, err
	}
	a.catalog.RegisterChannels(channels...)
	a.catalog.RegisterTypes(registeredTypes(a.catalog, notificationTypes())...)

	a.tasks = queue.NewMemoryStorage(queue.WithRetryBackoff(s.Queue.RetryBackoff))
	enq, err := queue.NewEnqueuer(a.tasks,
		queue.WithDefaultQueue(s.Queue.DefaultQueue),
		queue.WithDefaultMaxRetries(s.Queue.MaxRetries),
		queue.WithEnqueuerLogger(log),
	)
	if err != nil {
		return nil, err
	}
	a.processor, err = queue.NewProcessor(a.tasks,
		queue.WithQueues(queueNames(a.catalog, s.Queue.DefaultQueue)...),
		queue.WithProcessorLogger(log),
	)
	if err != nil {
		return nil, err
	}
	if err := a.processor.Register(notify.NewDeliveryHandler(a.catalog)); err != nil {
		return nil, err
	}

	a.prefs = notify.NewPreferenceService(a.catalog, store, notify.WithPreferenceLogger(log))
	router := notify.NewRouter(a.catalog, a.prefs,
		append(s.Notify.RouterOptions(), notify.WithRouterLogger(log))...)
	a.sender = notify.NewSender(router,
		append(s.Notify.SenderOptions(),
			notify.WithTranslator(tr),
			notify.WithDispatcher(notify.NewQueueDispatcher(enq, log)),
			notify.WithSenderLogger(log),
		)...)

	return a, nil
}

func (a *app) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// close releases resources in reverse order of acquisition.
func (a *app) close(ctx context.Context) error {
	var errs []error
	for _, fn := range slices.Backward(a.closers) {
		errs = append(errs, fn(ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *app) openStore(ctx context.Context, s settings, rdb *goredis.Client) (notify.Store, error) {
	var store notify.Store
	switch s.Store {
	case storePostgres:
		pool, err := pg.Connect(ctx, s.PG)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.checks["postgres"] = pg.Healthcheck(pool)
		db := pg.Open(pool)
		a.onClose(func(context.Context) error {
			err := db.Close()
			pool.Close()
			return err
		})
		store = pgstore.New(db, pgstore.WithTable(s.Notify.PreferencesTable), pgstore.WithLogger(a.logger))

	case storeMongo:
		db, err := mongo.NewWithDatabase(ctx, s.Mongo, "")
		if err != nil {
			return nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		a.checks["mongodb"] = mongo.Healthcheck(db.Client())
		a.onClose(func(ctx context.Context) error { return db.Client().Disconnect(ctx) })
		ms := mongostore.New(db, mongostore.WithLogger(a.logger))
		if err := ms.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		store = ms

	default:
		store = notify.NewMemoryStore()
	}

	if s.CachePreferences && rdb != nil {
		store = redisstore.New(rdb, store, redisstore.WithLogger(a.logger))
	}
	return store, nil
}

func (a *app) buildChannels(ctx context.Context, s settings, rdb *goredis.Client, d deps) ([]notify.Channel, error) {
	mailer := d.mailer
	if mailer == nil {
		var err error
		if mailer, err = email.NewSender(ctx, s.Email); err != nil {
			return nil, fmt.Errorf("create email sender: %w", err)
		}
	}
	mailOpts := []mail.Option{mail.WithQueue(string(mail.ChannelID)), mail.WithLogger(a.logger)}
	if s.ThrottleMail {
		limiter, err := a.mailLimiter(s, rdb)
		if err != nil {
			return nil, err
		}
		mailOpts = append(mailOpts, mail.WithMiddleware(ratelimiter.Throttle(limiter,
			ratelimiter.WithImportantBypass(),
			ratelimiter.WithThrottleLogger(a.logger),
		)))
	}

	a.inbox = inbox.NewManager(inbox.NewMemoryStorage(), inbox.WithManagerLogger(a.logger))

	sink, err := a.eventSink(ctx, s)
	if err != nil {
		return nil, err
	}

	channels := []notify.Channel{
		mail.New(mailer, mailOpts...).Channel(),
		inapp.New(a.inbox, inapp.WithLogger(a.logger)).Channel(),
		logevent.New(sink).Channel(),
	}

	if s.PushEnabled {
		client := d.sns
		if client == nil {
			c, err := push.NewSNSClient(ctx, s.Push)
			if err != nil {
				return nil, fmt.Errorf("create sns client: %w", err)
			}
			client = c
		}
		targets := d.targets
		if targets == nil {
			targets = push.TemplateResolver(s.Push.TargetTemplate)
		}
		h, err := push.New(client, targets, push.WithQueue(s.Push.Queue), push.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		channels = append(channels, h.Channel())
	}
	return channels, nil
}

// mailLimiter shares buckets through Redis when a client is available.
func (a *app) mailLimiter(s settings, rdb *goredis.Client) (ratelimiter.RateLimiter, error) {
	var store ratelimiter.Store
	if rdb != nil {
		store = ratelimiter.NewRedisStore(rdb, ratelimiter.WithKeyPrefix("usernotify:ratelimit:"))
	} else {
		ms := ratelimiter.NewMemoryStore()
		a.onClose(func(context.Context) error { ms.Close(); return nil })
		store = ms
	}
	return ratelimiter.NewBucket(store, s.Throttle)
}

func (a *app) eventSink(ctx context.Context, s settings) (logevent.Sink, error) {
	if s.EventsSink != sinkOpenSearch {
		return logevent.SlogSink{Logger: a.logger}, nil
	}
	client, err := opensearch.New(ctx, s.OpenSearch)
	if err != nil {
		return nil, fmt.Errorf("connect to opensearch: %w", err)
	}
	a.checks["opensearch"] = opensearch.Healthcheck(client)
	return logevent.NewOpenSearchSink(client, s.OpenSearch.EventsIndex), nil
}

// newTranslator loads the embedded locales, or NOTIFY_LOCALES_DIR when set.
func newTranslator(ctx context.Context, s settings, log *slog.Logger) (*i18n.Translator, error) {
	var adapter i18n.TranslationAdapter = i18n.NewFSAdapter(i18n.NewYAMLParser(), locales, "locales")
	if s.LocalesDir != "" {
		adapter = i18n.NewDirectoryAdapter(i18n.NewYAMLParser(), s.LocalesDir)
	}
	tr, err := i18n.NewTranslator(ctx, adapter,
		i18n.WithDefaultLanguage(s.Notify.DefaultLocale),
		i18n.WithLogger(log),
		i18n.WithMissingTranslationsLogging(true),
	)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	return tr, nil
}

// registeredTypes drops default channels the catalog has no handler for, so
// a disabled channel does not fail routing.
func registeredTypes(c *notify.Catalog, types []notify.Type) []notify.Type {
	out := make([]notify.Type, 0, len(types))
	for _, t := range types {
		t.DefaultChannels = slices.DeleteFunc(slices.Clone(t.DefaultChannels), func(id notify.ChannelID) bool {
			_, ok := c.Channel(id)
			return !ok
		})
		out = append(out, t)
	}
	return out
}

// queueNames lists every queue a registered channel delivers through.
func queueNames(c *notify.Catalog, fallback string) []string {
	names := []string{fallback}
	for _, ch := range c.Channels() {
		if q := ch.QueueName(); q != "" && !slices.Contains(names, q) {
			names = append(names, q)
		}
	}
	return names
}

// healthcheck runs every registered check and joins the failures.
func (a *app) healthcheck(ctx context.Context) error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(a.checks)) {
		if err := a.checks[name](ctx); err != nil {
			a.logger.LogAttrs(ctx, slog.LevelError, "healthcheck failed",
				logger.Component(name), logger.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
