package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"clinic-admin-api/internal/cache"
	"clinic-admin-api/internal/config"
	"clinic-admin-api/internal/database"
	"clinic-admin-api/internal/events"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options control the optional startup steps of Run
type Options struct {
	Migrate bool
	Seed    bool
}

// Run connects the backing services, serves HTTP until ctx is cancelled and
// then shuts down in order: HTTP, event dispatcher, cache, broker, database.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) error {
	gin.SetMode(cfg.Server.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get database instance: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	if opts.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if opts.Seed {
		if err := database.Seed(ctx, db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	listCache := cache.New(cfg.Redis, log)
	defer closeQuietly(log, "cache", listCache)

	publisher := newPublisher(cfg, log)
	defer closeQuietly(log, "event publisher", publisher)

	dispatcher := events.NewDispatcher(publisher, cfg.Events, log)
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()
	go dispatcher.Start(dispatchCtx)

	router := NewRouter(Deps{
		Config:   cfg,
		DB:       db,
		Cache:    listCache,
		Notifier: dispatcher,
		Log:      log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port),
			zap.String("tenant_strategy", cfg.Tenant.Strategy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown did not complete", zap.Error(err))
	}

	stopDispatch()
	select {
	case <-dispatcher.Done():
	case <-shutdownCtx.Done():
		log.Warn("Event dispatcher did not drain before the shutdown deadline")
	}

	log.Info("Server exited")
	return nil
}

// newPublisher connects to RabbitMQ when configured. An unreachable broker
// degrades to dropping events rather than refusing to start.
func newPublisher(cfg *config.Config, log *zap.Logger) events.Publisher {
	if cfg.RabbitMQ.URL == "" {
		log.Info("RABBITMQ_URL not set, events will be discarded")
		return events.NoopPublisher{Log: log}
	}
	pub, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, events will be discarded", zap.Error(err))
		return events.NoopPublisher{Log: log}
	}
	log.Info("Publishing events to RabbitMQ", zap.String("exchange", cfg.RabbitMQ.Exchange))
	return pub
}

func closeQuietly(log *zap.Logger, name string, v interface{}) {
	if c, ok := v.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn("Failed to close "+name, zap.Error(err))
		}
	}
}
