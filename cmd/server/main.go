package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"sportsreg/internal/audit"
	"sportsreg/internal/fees"
	"sportsreg/internal/platform/config"
	"sportsreg/internal/platform/httpserver"
	"sportsreg/internal/platform/logger"
	"sportsreg/internal/platform/metrics"
	"sportsreg/internal/platform/postgres"
	"sportsreg/internal/platform/redis"
	"sportsreg/internal/ratelimit"
	"sportsreg/internal/registration"
	reghandler "sportsreg/internal/registration/handler"
	"sportsreg/internal/settlement"
	"sportsreg/internal/taxonomy"
	taxhandler "sportsreg/internal/taxonomy/handler"
	"sportsreg/internal/token"
	httptransport "sportsreg/internal/transport/http"
	"sportsreg/internal/verification"
	verhandler "sportsreg/internal/verification/handler"
)

// main wires dependencies, exposes the HTTP router, and keeps the server
// lifecycle small. Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Taxonomy catalog: Postgres when configured, otherwise the seeded
	// in-memory catalog for local development.
	var taxStore taxonomy.Store
	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		taxStore = taxonomy.NewPostgresStore(db)
		log.Info("taxonomy store: postgres")
	} else {
		sports, categories, subs := taxonomy.SeedCatalog()
		memStore, err := taxonomy.NewInMemoryStore(sports, categories, subs)
		if err != nil {
			return err
		}
		taxStore = memStore
		log.Info("taxonomy store: in-memory seed catalog")
	}

	catalogService, err := taxonomy.NewService(taxStore)
	if err != nil {
		return err
	}
	calculator, err := fees.NewCalculator(catalogService)
	if err != nil {
		return err
	}

	// Verification challenges: Redis when configured, otherwise in-memory.
	var verStore verification.Store
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		verStore = verification.NewRedisStore(redisClient.Client, cfg.CodeTTL)
		log.Info("verification store: redis")
	} else {
		verStore = verification.NewInMemoryStore()
		log.Info("verification store: in-memory")
	}

	tokens := token.NewService(cfg.JWTSigningKey, "sportsreg", "sportsreg-api")

	verService, err := verification.NewService(
		verStore,
		verification.NewLogSender(log),
		tokens,
		cfg.CodeTTL,
		cfg.SessionTTL,
		log,
		m,
	)
	if err != nil {
		return err
	}

	// Audit trail: events are published to an in-process buffer and drained
	// by a worker into the configured sink.
	var sink audit.Sink
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit sink: kafka", "topic", cfg.AuditTopic)
	} else {
		sink = audit.NewMemorySink()
		log.Info("audit sink: in-memory")
	}
	publisher := audit.NewPublisher(256, log)
	worker := audit.NewWorker(sink, publisher.Inbox(), log)

	// Completed registrations are archived to Postgres when configured.
	var archive registration.Archive
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		pgArchive := registration.NewPostgresArchive(pool)
		if err := pgArchive.Schema(ctx); err != nil {
			return err
		}
		archive = pgArchive
		log.Info("registration archive: postgres")
	} else {
		archive = registration.NewInMemoryArchive()
		log.Info("registration archive: in-memory")
	}

	regService, err := registration.NewService(
		registration.NewInMemoryStore(),
		archive,
		verService,
		calculator,
		catalogService,
		settlement.NewSelector(),
		publisher,
		log,
		m,
	)
	if err != nil {
		return err
	}

	router := httptransport.New(httptransport.Deps{
		Taxonomy:     taxhandler.New(catalogService, log),
		Verification: verhandler.New(verService, publisher, log),
		Registration: reghandler.New(regService, log),
		Sessions:     tokens,
		CodeRequests: ratelimit.NewLimiter(10, time.Minute),
		Metrics:      m,
		Logger:       log,
	})

	srv := httpserver.New(cfg.Addr, router)

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return worker.Run(gctx)
	})

	group.Go(func() error {
		log.Info("starting sportsreg", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("sportsreg stopped")
	return nil
}
