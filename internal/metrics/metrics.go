package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photovault_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photovault_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photovault_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Ingestion run metrics
var (
	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photovault_ingest_runs_total",
			Help: "Total number of ingestion runs by outcome",
		},
		[]string{"outcome"}, // "completed", "cancelled", "failed"
	)

	IngestRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photovault_ingest_running",
			Help: "Whether an ingestion run is currently active (1 = running, 0 = idle)",
		},
	)

	IngestBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photovault_ingest_batches_total",
			Help: "Total number of batches processed",
		},
	)

	IngestBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photovault_ingest_batch_duration_seconds",
			Help:    "Duration of one batch iteration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	IngestFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photovault_ingest_files_total",
			Help: "Total number of candidate files by outcome",
		},
		[]string{"outcome"}, // "persisted", "deduped", "failed"
	)
)

// Walker metrics
var (
	WalkerFilesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photovault_walker_files_found_total",
			Help: "Total number of media files discovered by the walker",
		},
	)
)

// Media transform metrics
var (
	ThumbnailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photovault_thumbnails_total",
			Help: "Total number of thumbnail generations by source kind and status",
		},
		[]string{"kind", "status"},
	)

	ThumbnailDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photovault_thumbnail_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)
)

// Embedding metrics
var (
	EmbeddingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photovault_embeddings_total",
			Help: "Total number of embedding service calls by status",
		},
		[]string{"status"},
	)
)

// Remote store metrics
var (
	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photovault_remote_call_duration_seconds",
			Help:    "Duration of remote service calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	ObjectStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photovault_objectstore_operations_total",
			Help: "Total number of object storage operations by type and status",
		},
		[]string{"operation", "status"},
	)

	ObjectStoreUploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photovault_objectstore_upload_bytes_total",
			Help: "Total bytes uploaded to object storage",
		},
	)
)
