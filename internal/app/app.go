package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/ndmitriev/catalog-service/internal/adapter/cache"
	"github.com/ndmitriev/catalog-service/internal/adapter/postgres"
	productrepo "github.com/ndmitriev/catalog-service/internal/adapter/postgres/product"
	"github.com/ndmitriev/catalog-service/internal/adapter/search"
	"github.com/ndmitriev/catalog-service/internal/config"
	"github.com/ndmitriev/catalog-service/internal/service/product"
	"github.com/ndmitriev/catalog-service/internal/transport/middleware"
	"github.com/ndmitriev/catalog-service/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, wires the
// three backends behind the product service, and serves HTTP until ctx is
// cancelled, then shuts down within the configured timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, cfg.Database); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	productCache := cache.New(cfg.Cache)
	productCache.Start()
	defer productCache.Stop()

	searchIndex, err := search.New(cfg.Search)
	if err != nil {
		return fmt.Errorf("open search index: %w", err)
	}
	defer searchIndex.Close() //nolint:errcheck

	svc := product.NewService(
		logger,
		productrepo.New(pool),
		productCache,
		searchIndex,
		product.Config{
			CacheTTL:          cfg.Cache.TTL,
			DefaultSearchSize: cfg.Search.DefaultSize,
			MaxSearchSize:     cfg.Search.MaxSize,
			ReindexPageSize:   cfg.Search.ReindexPageSize,
		},
	)

	mux := http.NewServeMux()
	rest.NewProductHandler(svc, logger).Register(mux)
	rest.NewHealthHandler(pool, productCache, searchIndex, BuildVersion()).Register(mux)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Logger(logger),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
