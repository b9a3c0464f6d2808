package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/mergington/internal/api"
	"example.com/mergington/internal/catalog"
	"example.com/mergington/internal/config"
	"example.com/mergington/internal/domain"
	"example.com/mergington/internal/outbox"
	"example.com/mergington/internal/persistence/memory"
	httptransport "example.com/mergington/internal/transport/http"
	"example.com/mergington/internal/web"
)

func main() {
	cfg := config.Load()

	logLevel := &slog.LevelVar{}
	logLevel.Set(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("activity-signup exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	seed, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return err
	}
	repo := memory.NewRepository(seed)
	logger.Info("activity catalog loaded", "activities", len(seed), "catalog_file", cfg.CatalogFile)

	var publisher domain.EventPublisher = domain.NoopPublisher{}
	var dispatcher *outbox.Dispatcher
	if cfg.EventsEnabled() {
		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()

		dispatcher = outbox.NewDispatcher(producer, outbox.Config{
			Topic:        cfg.SignupTopic,
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    cfg.OutboxBatchSize,
			BufferSize:   cfg.OutboxBuffer,
		}, logger.With("component", "outbox"))

		// The dispatcher outlives the signal context so signups finishing during
		// server.Shutdown still reach the queue; it is stopped once Shutdown returns.
		dispatchCtx, stopDispatch := context.WithCancel(context.Background())
		go dispatcher.Start(dispatchCtx)
		defer func() {
			stopDispatch()
			dispatcher.Wait()
		}()
		publisher = dispatcher
		logger.Info("signup events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.SignupTopic)
	}

	service := domain.NewService(repo, publisher, logger)
	if err := service.RecordRosterSizes(ctx); err != nil {
		return err
	}
	handler := api.NewHandler(service, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	if err := web.Register(mux, cfg.StaticDir); err != nil {
		return err
	}
	mux.Handle("GET /metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, httptransport.Chain(mux,
		httptransport.RequestLogger(logger),
		httptransport.CORS(cfg.CORSAllowedOrigin),
	))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("activity-signup listening", "addr", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", "error", err)
	}
	return nil
}
