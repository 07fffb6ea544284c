package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/orderledger/backend/config"
	httpDelivery "github.com/orderledger/backend/internal/delivery/http"
	"github.com/orderledger/backend/internal/domain"
	"github.com/orderledger/backend/internal/infrastructure/cache"
	"github.com/orderledger/backend/internal/infrastructure/diagnostics"
	"github.com/orderledger/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting OrderLedger Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize infrastructure dependencies
	var reconcileCache domain.CacheRepository
	if cfg.Cache.Type == "memory" {
		memoryCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)
		defer memoryCache.Close()
		reconcileCache = memoryCache
		log.Printf("Cache TTL: %s", cfg.Cache.TTL)
	}

	// Debug diagnostics are always on in development
	debug := cfg.Reconcile.Debug || cfg.Server.Environment == "development"

	recorder, closer, err := openRecorder(cfg.Reconcile.DiagnosticsFile, debug)
	if err != nil {
		log.Fatalf("Failed to open diagnostics sink: %v", err)
	}
	defer closer.Close()

	// Initialize usecase layer
	reconciler, err := usecase.NewReconciliationService(
		reconcileCache,
		recorder,
		usecase.ReconciliationServiceConfig{
			BaseOrigin:         cfg.Reconcile.BaseOrigin,
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: debug,
		},
	)
	if err != nil {
		log.Fatalf("Failed to create reconciliation service: %v", err)
	}

	dates := usecase.NewDateNormalizer(nil)
	classifier := usecase.NewStatusClassifier(dates)
	exporter := usecase.NewExportBuilder(classifier, dates, recorder, cfg.Reconcile.Currency)

	log.Printf("Reconcile: origin=%s, currency=%s, debug=%v",
		cfg.Reconcile.BaseOrigin, cfg.Reconcile.Currency, debug)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(reconciler, exporter, classifier, dates)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openRecorder appends diagnostics to path, or to stdout when path is empty
func openRecorder(path string, debug bool) (*diagnostics.Recorder, io.Closer, error) {
	if path == "" {
		return diagnostics.NewRecorder(os.Stdout, debug), io.NopCloser(nil), nil
	}
	log.Printf("Diagnostics file: %s", path)
	return diagnostics.OpenFile(path, debug)
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
