package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/goaccount/internal/adapter/http"
	"github.com/iho/goaccount/internal/adapter/http/handler"
	"github.com/iho/goaccount/internal/adapter/http/middleware"
	"github.com/iho/goaccount/internal/adapter/repository/memory"
	redisRepo "github.com/iho/goaccount/internal/adapter/repository/redis"
	"github.com/iho/goaccount/internal/domain"
	"github.com/iho/goaccount/internal/infrastructure/config"
	"github.com/iho/goaccount/internal/infrastructure/eventpublisher"
	"github.com/iho/goaccount/internal/infrastructure/idgen"
	"github.com/iho/goaccount/internal/infrastructure/logger"
	"github.com/iho/goaccount/internal/infrastructure/metrics"
	"github.com/iho/goaccount/internal/infrastructure/redis"
	"github.com/iho/goaccount/internal/usecase"
)

const limiterCleanupInterval = 10 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "goaccount",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// app holds the wired components of the server.
type app struct {
	handler     http.Handler
	accountUC   *usecase.AccountUseCase
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
	redisClient *goredis.Client
	kafka       *eventpublisher.KafkaPublisher
}

// Close releases external connections.
func (a *app) Close() error {
	var errs []error
	if a.kafka != nil {
		errs = append(errs, a.kafka.Close())
	}
	if a.redisClient != nil {
		errs = append(errs, a.redisClient.Close())
	}
	return errors.Join(errs...)
}

// newApp wires the account, its collaborators and the HTTP router.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clock := domain.NewSystemClock(loc)

	creationDate := cfg.AccountCreationDate
	if creationDate.IsZero() {
		creationDate = clock.Today()
	}
	if creationDate.After(clock.Today()) {
		return nil, fmt.Errorf("%w: account creation date %s is in the future", domain.ErrInvalidArgument, creationDate)
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	a := &app{}

	// Redis-backed features are optional
	var cache usecase.Cache
	var idempotencyStore usecase.IdempotencyStore
	var redisPinger handler.Pinger
	if cfg.RedisEnabled() {
		client, err := redis.NewClient(ctx, redis.Config{
			URL:            cfg.RedisURL,
			ConnectTimeout: cfg.RedisConnectTimeout,
			Logger:         log,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info().Msg("connected to redis")

		a.redisClient = client
		cache = redisRepo.NewBreakerCache(redisRepo.NewCache(client), log.With().Str("component", "cache").Logger())
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		redisPinger = handler.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	} else {
		log.Info().Msg("redis disabled, statement caching and idempotency keys are off")
	}

	// Initialize repositories
	outboxRepo := memory.NewOutboxRepository()
	idGen := idgen.NewULIDGenerator()

	// Initialize use cases
	account := domain.NewAccount(creationDate, clock)
	a.accountUC = usecase.NewAccountUseCase(account, clock, outboxRepo, cache, idGen, m, log)
	a.accountUC.SetStatementCacheTTL(cfg.StatementCacheTTL)
	if err := a.accountUC.Open(ctx); err != nil {
		a.Close()
		return nil, err
	}
	reconciliationUC := usecase.NewReconciliationUseCase(account, m, log.With().Str("component", "reconciliation").Logger())

	var publisher eventpublisher.Publisher = eventpublisher.NewLogPublisher(log.With().Str("component", "events").Logger())
	if cfg.KafkaEnabled() {
		a.kafka = eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher = a.kafka
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing events to kafka")
	}

	a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Metrics:    m,
		Logger:     log.With().Str("component", "outbox").Logger(),
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).
			OnLimit(m.RateLimitHits.Inc)
	}

	// Create router
	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(a.accountUC),
		ConsistencyHandler: handler.NewConsistencyHandler(reconciliationUC),
		HealthHandler:      handler.NewHealthHandler(redisPinger),
		Logger:             log,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        a.rateLimiter,
		HTTPMetrics:        middleware.NewHTTPMetrics(reg),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	log.Info().
		Str("creation_date", creationDate.String()).
		Str("timezone", loc.String()).
		Msg("account opened")

	return a, nil
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer a.Close()

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go a.publisher.Start(workerCtx)

	if a.rateLimiter != nil {
		go func() {
			ticker := time.NewTicker(limiterCleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-workerCtx.Done():
					return
				case <-ticker.C:
					a.rateLimiter.CleanupLimiters(limiterCleanupInterval)
				}
			}
		}()
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}
