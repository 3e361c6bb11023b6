package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Ingestion outcomes ---
	for _, outcome := range []string{"completed", "cancelled", "failed"} {
		IngestRunsTotal.WithLabelValues(outcome)
	}
	for _, outcome := range []string{"persisted", "deduped", "failed"} {
		IngestFilesTotal.WithLabelValues(outcome)
	}

	// --- Thumbnail generation by source kind ---
	for _, kind := range []string{"image", "video"} {
		ThumbnailsTotal.WithLabelValues(kind, "success")
		ThumbnailsTotal.WithLabelValues(kind, "error")
		ThumbnailDuration.WithLabelValues(kind)
	}

	// --- Embedding service ---
	for _, status := range []string{"success", "error"} {
		EmbeddingsTotal.WithLabelValues(status)
	}

	// --- Remote stores ---
	remoteOps := map[string][]string{
		"catalog":     {"batch_existence", "upsert"},
		"vectorstore": {"store"},
		"embedder":    {"image"},
	}
	for service, ops := range remoteOps {
		for _, op := range ops {
			RemoteCallDuration.WithLabelValues(service, op)
		}
	}

	for _, op := range []string{"put", "get", "list"} {
		ObjectStoreOps.WithLabelValues(op, "success")
		ObjectStoreOps.WithLabelValues(op, "error")
	}
}
