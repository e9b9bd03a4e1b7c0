package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"drone-media-map/internal/catalog"
	"drone-media-map/internal/engine"
	"drone-media-map/internal/handlers"
	"drone-media-map/internal/logging"
	"drone-media-map/internal/metrics"
	"drone-media-map/internal/middleware"
	"drone-media-map/internal/registry"
	"drone-media-map/internal/spatial"
	"drone-media-map/internal/startup"
	"drone-media-map/internal/storage"
)

func main() {
	startTime := time.Now()
	ctx := context.Background()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Core state: registry as source of truth, spatial index following
	// it as a listener.
	idx, err := spatial.New(config.CellSizeDeg)
	if err != nil {
		startup.LogFatal("Spatial index error: %v", err)
	}
	reg := registry.New(idx)

	store, err := storage.New(config.UploadsDir)
	if err != nil {
		startup.LogFatal("Upload store error: %v", err)
	}

	var cat *catalog.Catalog
	if config.CatalogEnabled {
		catStart := time.Now()
		cat, err = catalog.New(ctx, config.CatalogPath)
		if err != nil {
			startup.LogFatal("Failed to initialize catalog: %v", err)
		}
		defer cat.Close()

		// Replay persisted records before the catalog starts listening,
		// so the restore does not echo back into the database.
		records, err := cat.LoadAll(ctx)
		if err != nil {
			startup.LogFatal("Failed to load catalog: %v", err)
		}
		for _, rec := range records {
			reg.Restore(rec)
		}
		reg.AddListener(cat)
		startup.LogCatalogInit(len(records), time.Since(catStart))
	}

	eng := engine.New(reg, idx, store)

	var collector *metrics.Collector
	if config.MetricsEnabled {
		collector = metrics.NewCollector(eng, time.Minute)
		collector.Start()
	}

	h := handlers.New(eng, store, config)
	router := setupRouter(h, config)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  2 * time.Minute,
	}

	go handleShutdown(srv, collector)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logger(middleware.LoggingConfig{
		LogHealthChecks: config.LogHealthChecks,
	}))
	if config.MetricsEnabled {
		r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	}

	h.RegisterRoutes(r, config.MetricsEnabled)

	// Map client
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

func handleShutdown(srv *http.Server, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
