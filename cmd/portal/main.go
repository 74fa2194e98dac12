// @title        Staybook Portal API
// @version      1.0
// @description  Session, authentication and page routing front for the Staybook booking platform.
// @BasePath     /
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

	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/api"
	"github.com/staybook/portal/internal/api/middleware"
	"github.com/staybook/portal/internal/core/guard"
	"github.com/staybook/portal/internal/core/navigation"
	"github.com/staybook/portal/internal/core/ports"
	"github.com/staybook/portal/internal/core/service"
	"github.com/staybook/portal/internal/core/session"
	"github.com/staybook/portal/internal/infrastructure/backend"
	mongostore "github.com/staybook/portal/internal/infrastructure/db/mongo"
	redisstore "github.com/staybook/portal/internal/infrastructure/db/redis"
	"github.com/staybook/portal/internal/infrastructure/queue"
	"github.com/staybook/portal/internal/infrastructure/storage/memory"
	"github.com/staybook/portal/internal/pkg/config"
	"github.com/staybook/portal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portal",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped with error")
	}
	log.Info().Msg("portal stopped cleanly")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	stores, cleanup, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	registry := session.NewRegistry(stores, cfg.Session.CacheSize, cfg.Session.IdleTTL, logger.Component("session"))
	defer registry.Purge()

	// Queued visits are drained on shutdown, so workers must outlive the signal.
	visits := queue.NewDispatcher(cfg.Session.VisitWorkers,
		navigation.Visit.Key,
		func(ctx context.Context, v navigation.Visit) error { return v.Persist(ctx) },
		logger.Component("visits"),
	)
	visits.Start(context.WithoutCancel(ctx))
	defer visits.Stop()

	client := backend.NewClient(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout})

	e := api.NewRouter(api.Deps{
		Sessions:      registry,
		Gateway:       service.NewAuthGateway(client, logger.Component("auth_gateway")),
		Guard:         guard.New(logger.Component("guard")),
		Visits:        visits,
		Storage:       stores,
		StorageDriver: cfg.StorageDriver,
		Cookie:        middleware.CookieOptions{Secure: cfg.Session.CookieSecure},
		Log:           logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("portal started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStorage(ctx context.Context, cfg *config.Config) (ports.StoreProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverRedis:
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewStoreProvider(rdb), func() { _ = rdb.Close() }, nil

	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		provider := mongostore.NewStoreProvider(db)
		if err := provider.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return provider, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		return memory.NewProvider(), func() {}, nil
	}
}
