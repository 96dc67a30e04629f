// Command seeder populates the catalog with a demo product set. Products
// are created through the orchestration service so the record store and
// the search index are both filled. Seeding is skipped if the store
// already holds products.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/ndmitriev/catalog-service/internal/adapter/cache"
	"github.com/ndmitriev/catalog-service/internal/adapter/postgres"
	productrepo "github.com/ndmitriev/catalog-service/internal/adapter/postgres/product"
	"github.com/ndmitriev/catalog-service/internal/adapter/search"
	"github.com/ndmitriev/catalog-service/internal/app"
	"github.com/ndmitriev/catalog-service/internal/config"
	"github.com/ndmitriev/catalog-service/internal/service/product"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	searchIndex, err := search.New(cfg.Search)
	if err != nil {
		return err
	}
	defer searchIndex.Close() //nolint:errcheck

	productCache := cache.New(cfg.Cache)

	svc := product.NewService(logger, productrepo.New(pool), productCache, searchIndex, product.Config{
		CacheTTL:          cfg.Cache.TTL,
		DefaultSearchSize: cfg.Search.DefaultSize,
		MaxSearchSize:     cfg.Search.MaxSize,
		ReindexPageSize:   cfg.Search.ReindexPageSize,
	})

	existing, err := svc.Count(ctx, product.ListInput{})
	if err != nil {
		return err
	}
	if existing > 0 {
		logger.Info("store already contains products, skipping seed", slog.Int("count", existing))
		return nil
	}

	inputs := demoProducts()
	logger.Info("seeding products", slog.Int("count", len(inputs)))

	for i, input := range inputs {
		res, err := svc.Create(ctx, input)
		if err != nil {
			return err
		}
		logger.Info("created",
			slog.Int("n", i+1),
			slog.String("name", res.Product.Name),
			slog.Int("partial_failures", len(res.Partial)),
		)
	}

	total, err := svc.Count(ctx, product.ListInput{})
	if err != nil {
		return err
	}
	logger.Info("seed complete", slog.Int("total", total))
	return nil
}

func demoProducts() []product.CreateInput {
	return []product.CreateInput{
		{
			Name:        "Laptop Pro 15",
			Description: ptr("High-performance laptop with 16GB RAM and 512GB SSD"),
			Price:       decimal.RequireFromString("1299.99"),
			Stock:       25,
			Category:    "Electronics",
		},
		{
			Name:        "Wireless Mouse",
			Description: ptr("Ergonomic wireless mouse with USB receiver"),
			Price:       decimal.RequireFromString("29.99"),
			Stock:       150,
			Category:    "Electronics",
		},
		{
			Name:        "Office Chair",
			Description: ptr("Ergonomic office chair with lumbar support"),
			Price:       decimal.RequireFromString("249.50"),
			Stock:       40,
			Category:    "Furniture",
		},
		{
			Name:        "Standing Desk",
			Description: ptr("Adjustable height standing desk, electric motor"),
			Price:       decimal.RequireFromString("599.00"),
			Stock:       15,
			Category:    "Furniture",
		},
		{
			Name:        "Python Programming Book",
			Description: ptr("Comprehensive guide to Python 3.11+"),
			Price:       decimal.RequireFromString("49.99"),
			Stock:       200,
			Category:    "Books",
		},
		{
			Name:        "Mechanical Keyboard",
			Description: ptr("RGB mechanical keyboard with Cherry MX switches"),
			Price:       decimal.RequireFromString("159.99"),
			Stock:       80,
			Category:    "Electronics",
		},
		{
			Name:        "USB-C Hub",
			Description: ptr("7-in-1 USB-C hub with HDMI, USB 3.0, SD card reader"),
			Price:       decimal.RequireFromString("39.99"),
			Stock:       120,
			Category:    "Electronics",
		},
		{
			Name:        "Monitor 27 inch 4K",
			Description: ptr("4K UHD monitor with HDR support"),
			Price:       decimal.RequireFromString("449.00"),
			Stock:       30,
			Category:    "Electronics",
		},
		{
			Name:        "Desk Lamp LED",
			Description: ptr("Adjustable LED desk lamp with touch controls"),
			Price:       decimal.RequireFromString("34.99"),
			Stock:       95,
			Category:    "Furniture",
		},
		{
			Name:        "Noise-Cancelling Headphones",
			Description: ptr("Premium over-ear headphones with active noise cancellation"),
			Price:       decimal.RequireFromString("299.99"),
			Stock:       60,
			Category:    "Electronics",
		},
		{
			Name:        "Webcam 1080p",
			Description: ptr("Full HD webcam with auto-focus and dual microphones"),
			Price:       decimal.RequireFromString("79.99"),
			Stock:       110,
			Category:    "Electronics",
			IsActive:    ptr(false),
		},
		{
			Name:        "Desk Organizer",
			Description: ptr("Bamboo desk organizer with multiple compartments"),
			Price:       decimal.RequireFromString("24.99"),
			Stock:       200,
			Category:    "Furniture",
		},
	}
}

func ptr[T any](v T) *T { return &v }
