package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitrinshop/vitrin/internal"
	"github.com/vitrinshop/vitrin/internal/bus"
	"github.com/vitrinshop/vitrin/internal/domain"
	"github.com/vitrinshop/vitrin/internal/query"
	"github.com/vitrinshop/vitrin/internal/service"
	"github.com/vitrinshop/vitrin/internal/storage"
	"github.com/vitrinshop/vitrin/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Metrics registry and endpoint
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(registry, "")
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		logger.Info("serving metrics", "address", cfg.MetricsAddr)
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	// Open storage and seed defaults
	backend, err := storage.NewBackend(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	store := storage.New(backend, internal.ComponentLogger(logger, "storage"), metrics)
	defer store.Close()

	if err := store.InitializeAll(ctx); err != nil {
		return fmt.Errorf("failed to seed defaults: %w", err)
	}
	logger.Info("store ready", "main_categories", len(store.Categories()))

	// Change bus and services
	changeBus := bus.New(internal.ComponentLogger(logger, "bus"), metrics)
	products := service.NewProductService(store, changeBus, internal.ComponentLogger(logger, "products"), metrics)
	cart := service.NewCartService(store, changeBus, internal.ComponentLogger(logger, "cart"), metrics)

	// Watch the catalog the way a storefront page would
	catalog := query.NewProducts(store, changeBus, logger, metrics, cfg.Latency, query.ProductsParams{
		MainCategoryID: "mc_grocery",
		Page:           1,
		Limit:          5,
	})
	defer catalog.Close()

	// Drive a few mutations so the watcher has something to react to
	demo := domain.Product{
		ID:             "p_demo_beans",
		Name:           "Single Origin Beans",
		Description:    "Washed-process beans, medium roast.",
		Price:          16.50,
		MainCategoryID: "mc_grocery",
		CategoryID:     "cat_pantry",
		Brand:          "Morning Range",
		Quantity:       8,
	}
	go func() {
		time.Sleep(cfg.Latency.Max + 50*time.Millisecond)

		if err := products.AddProduct(ctx, demo); err != nil {
			logger.Error("demo add failed", "error", err)
			return
		}
		if err := cart.AddItem(ctx, demo, "", 2); err != nil {
			logger.Error("demo cart add failed", "error", err)
		}
	}()

	baseline := -1
	for result := range catalog.Updates() {
		if result.Loading {
			logger.Info("catalog loading")
			continue
		}
		if result.Err != nil {
			logger.Error("catalog failed", "error", result.Err)
			continue
		}
		logger.Info("catalog ready",
			"count", len(result.Data.Products),
			"total", result.Data.Total,
			"page", result.Data.Page,
			"has_more", result.Data.HasMore,
		)
		if baseline < 0 {
			baseline = result.Data.Total
			continue
		}
		if result.Data.Total > baseline {
			break
		}
	}

	items, err := store.CartItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}
	for _, item := range items {
		logger.Info("cart line", "product_id", item.ProductID, "quantity", item.Quantity, "total", item.LineTotal())
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
