package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"MiniReviews/internal/config"
	"MiniReviews/internal/reviews"
	"MiniReviews/pkg/kit"
)

const service = "reviews"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("open store", zap.Error(err), zap.String("backend", cfg.StoreBackend))
	}
	defer func() { _ = store.Close() }()

	events := newPublisher(cfg, log)
	defer func() { _ = events.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &reviews.Server{
		Store:   store,
		Events:  events,
		Metrics: reviews.NewMetrics(reg, cfg.StoreBackend),
		Log:     log,
	}

	h := reviews.NewHandler(s, reviews.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	log.Info("reviews service configured",
		zap.Int("port", cfg.Port),
		zap.String("backend", cfg.StoreBackend),
		zap.Bool("events", len(cfg.KafkaBrokers) > 0),
	)

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log, cfg.ShutdownTimeout); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config) (reviews.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		s, err := reviews.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		return reviews.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKeyPrefix)
	default:
		return reviews.NewMemStore(), nil
	}
}

func newPublisher(cfg *config.Config, log *zap.Logger) reviews.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return reviews.NopPublisher{}
	}
	log.Info("publishing review events",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
	)
	return reviews.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, service)
}
