package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/linkrift/linkrift/internal/audit"
	"github.com/linkrift/linkrift/internal/handlers"
	"github.com/linkrift/linkrift/internal/health"
	"github.com/linkrift/linkrift/internal/links"
	"github.com/linkrift/linkrift/internal/messaging"
	"github.com/linkrift/linkrift/internal/middleware"
	"github.com/linkrift/linkrift/internal/quota"
	"github.com/linkrift/linkrift/internal/ratelimit"
	"github.com/linkrift/linkrift/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Options is the service configuration, parsed from flags and environment
// by humacli.
type Options struct {
	Port        int    `default:"8888"                                               help:"Port to listen on"                              short:"p"`
	BaseURL     string `default:""                                                   help:"Public base URL for short links (defaults to http://localhost:<port>)"`
	CodeLength  int    `default:"8"                                                  help:"Length of generated short codes"                short:"c"`
	DatabaseURL string `default:"postgres://localhost:5432/linkrift?sslmode=disable" help:"PostgreSQL connection URL"`
	RedisAddr   string `default:"localhost:6379"                                     help:"Redis server address"                           short:"r"`
	LogFormat   string `default:"console"                                            help:"Log format: console or json"`
	WriteLimit  int64  `default:"30"                                                 help:"Link creations allowed per client per minute"`
}

func (o *Options) baseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx pool and applies pending migrations.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if err := store.Migrate(options.DatabaseURL, logger); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}

		return pgxpool.New(context.Background(), options.DatabaseURL)
	})
}

// RepositoryPackage provides the storage-backed repositories: link store,
// plan resolver, quota gate and audit store.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (links.Repository, error) {
		return store.NewPostgresLinkStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (quota.PlanResolver, error) {
		return store.NewPostgresPlanResolver(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*quota.Gate, error) {
		return quota.NewGate(store.NewRedisQuotaStore(do.MustInvoke[*redis.Client](i))), nil
	})

	do.Provide(injector, func(i *do.Injector) (audit.Store, error) {
		return store.NewPostgresAuditStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})
}

// ServicePackage provides the link creation service.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*links.Service, error) {
		options := do.MustInvoke[*Options](i)

		generator, err := nanoid.Standard(options.CodeLength)
		if err != nil {
			return nil, err
		}

		return links.NewService(
			do.MustInvoke[links.Repository](i),
			do.MustInvoke[*quota.Gate](i),
			do.MustInvoke[quota.PlanResolver](i),
			generator,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// RateLimitPackage provides the write-path rate limiter.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		options := do.MustInvoke[*Options](i)
		limitStore := store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i))

		return ratelimit.NewSlidingWindowLimiter(limitStore, options.WriteLimit, time.Minute), nil
	})
}

// PublisherGroupPackage provides the audit event publisher and typed
// publish functions.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: do.MustInvoke[*redis.Client](i),
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[audit.LinkCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[audit.LinkCreatedEvent](group.Publisher(), audit.TopicLinkCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[audit.LinkDeactivatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[audit.LinkDeactivatedEvent](group.Publisher(), audit.TopicLinkDeactivated), nil
	})
}

// ConsumerGroupPackage provides the audit consumer group for cmd/consumer.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        do.MustInvoke[*redis.Client](i),
			ConsumerGroup: "audit",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		recorder := audit.NewRecorder(do.MustInvoke[audit.Store](i), logger)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, audit.TopicLinkCreated, recorder.HandleLinkCreated, logger))
		group.Add(messaging.NewConsumer(subscriber, audit.TopicLinkDeactivated, recorder.HandleLinkDeactivated, logger))

		return group, nil
	})
}

// HTTPPackage provides the chi router and the huma API with all routes
// registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(chimiddleware.Recoverer)
		router.Use(middleware.RequestMeta())

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("Linkrift", "1.0.0"))

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*links.Service](i),
			options.baseURL(),
			do.MustInvoke[messaging.Publish[audit.LinkCreatedEvent]](i),
			do.MustInvoke[messaging.Publish[audit.LinkDeactivatedEvent]](i),
			logger,
		)

		writeLimit := middleware.RateLimit(do.MustInvoke[ratelimit.Limiter](i), logger)

		handlers.RegisterRoutes(api, router, linkHandler, writeLimit)

		healthHandler := health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i)),
		)
		health.RegisterRoutes(api, healthHandler)

		return api, nil
	})
}
