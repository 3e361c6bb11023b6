// Package metrics defines the Prometheus metrics exported by the ingestion
// service: run/batch/file counters for the orchestrator, transform timings
// for thumbnails and embeddings, and call durations for the remote stores.
//
// Metrics are registered via promauto at package load. InitializeMetrics
// pre-populates known label combinations so dashboards see zero-valued
// series from the first scrape instead of gaps.
package metrics
