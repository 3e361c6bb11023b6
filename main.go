package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photovault/internal/catalog"
	"photovault/internal/embedder"
	"photovault/internal/handlers"
	"photovault/internal/ingest"
	"photovault/internal/logging"
	"photovault/internal/media"
	"photovault/internal/metrics"
	"photovault/internal/middleware"
	"photovault/internal/objectstore"
	"photovault/internal/startup"
	"photovault/internal/vectorstore"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Optional .env for local development; environment always wins.
	if err := godotenv.Load(); err == nil {
		logging.Debug("loaded .env file")
	}

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()

	if err := media.InitVips(); err != nil {
		logging.Warn("libvips unavailable: %v", err)
		logging.Warn("HEIC/HEIF files will be skipped")
	}
	defer media.ShutdownVips()

	startup.LogMediaInit()

	store, err := objectstore.New(context.Background(), objectstore.Config{
		Bucket:          config.Bucket,
		Region:          config.Region,
		Endpoint:        config.Endpoint,
		AccessKeyID:     config.AccessKeyID,
		SecretAccessKey: config.SecretAccessKey,
		PathStyle:       config.PathStyle,
	})
	if err != nil {
		logging.Fatal("Failed to initialize object store: %v", err)
	}

	cat := catalog.NewClient(config.CatalogURL)
	vectors := vectorstore.NewClient(config.VectorURL)
	embed := embedder.NewClient(config.EmbedderURL, config.EmbeddingDims)

	thumbnailer := media.NewThumbnailer(config.ThumbnailMaxSize, config.ThumbnailQuality, config.VideoSeekOffset)
	processor := ingest.NewProcessor(thumbnailer, embed)
	gateway := ingest.NewGateway(store, cat, vectors)
	reporter := ingest.NewReporter()
	runner := ingest.NewRunner(cat, gateway, processor, reporter, config.BatchSize)

	h := handlers.New(runner, reporter, config)

	router := setupRouter(h)
	startup.LogHTTPRoutes(router)

	loggedHandler := middleware.Logger(middleware.DefaultLoggingConfig())(router)
	handler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go handleShutdown(srv, metricsSrv, runner)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ingest", h.StartIngest).Methods("POST")
	api.HandleFunc("/ingest/status", h.IngestStatus).Methods("GET")
	api.HandleFunc("/ingest/cancel", h.CancelIngest).Methods("POST")

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, runner *ingest.Runner) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// An active run stops at its next batch boundary; everything already
	// persisted stays persisted.
	if handle := runner.Active(); handle != nil {
		handle.Cancel()
		select {
		case <-handle.Done():
			startup.LogShutdownStepComplete("Ingestion run stopped")
		case <-ctx.Done():
			logging.Warn("Timed out waiting for ingestion run to stop")
		}
	}

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
