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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"staffdir/internal/platform/config"
	"staffdir/internal/platform/database"
	"staffdir/internal/platform/health"
	"staffdir/internal/platform/kafka"
	"staffdir/internal/platform/kafka/producer"
	"staffdir/internal/platform/logger"
	"staffdir/internal/platform/tracer"
	"staffdir/internal/record/events"
	recordmetrics "staffdir/internal/record/metrics"
	"staffdir/internal/record/service"
	"staffdir/internal/record/store"
	"staffdir/migrations"
	"staffdir/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in internal/record.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing staffdir",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"database", cfg.Database.URL != "",
		"kafka", cfg.Kafka.Brokers != "",
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	recordStore, closeStore, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher, err := newPublisher(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	svc := service.New(recordStore,
		service.WithLogger(log),
		service.WithMetrics(recordmetrics.New(reg)),
		service.WithPublisher(publisher),
		service.WithTracer(tracer.NewOTel()),
	)

	healthHandler := health.New(cfg.Environment, svc.Ping)
	if cfg.Kafka.Brokers != "" {
		healthHandler.RegisterCheck("kafka", kafka.NewHealthChecker(cfg.Kafka.Brokers).Check)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(svc, healthHandler, reg, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore connects to Postgres and applies migrations, or falls back to
// the in-memory store when no database is configured.
func openStore(ctx context.Context, cfg database.Config, log *slog.Logger) (service.Store, func(), error) {
	if cfg.URL == "" {
		log.Warn("DATABASE_URL not set, records are kept in memory")
		return store.NewInMemory(), func() {}, nil
	}

	pool, err := database.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(ctx, pool.DB(), migrations.FS); err != nil {
		_ = pool.Close()
		return nil, nil, err
	}

	closeFn := func() {
		if err := pool.Close(); err != nil {
			log.Error("failed to close database pool", "error", err)
		}
	}
	return store.NewPostgres(pool.DB()), closeFn, nil
}

// newPublisher logs upload events when no brokers are configured. Otherwise
// events go to Kafka, falling back to the log while the circuit is open.
func newPublisher(cfg config.Kafka, log *slog.Logger) (events.Publisher, func(), error) {
	if cfg.Brokers == "" {
		return events.NewLogPublisher(log), func() {}, nil
	}

	prod, err := producer.New(kafka.DefaultProducerConfig(cfg.Brokers), log)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = prod.Close(ctx)
	}
	publisher := events.NewResilientPublisher(
		events.NewKafkaPublisher(prod, cfg.UploadsTopic),
		events.NewLogPublisher(log),
		circuit.New("upload_events", circuit.WithSuccessThreshold(1)),
		log,
	)
	return publisher, closeFn, nil
}
