// Package ingest orchestrates ingestion runs: batching walked candidates,
// skipping files the catalog already knows, fanning the per-file pipeline
// out across a batch, and persisting survivors through the storage gateway.
// Progress is published through a Reporter that handlers read concurrently.
package ingest
