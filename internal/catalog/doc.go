// Package catalog is the HTTP client for the relational metadata store.
//
// The store owns the canonical Record per ingested file, keyed by destination
// path. Three operations are used by the pipeline: batch existence checks
// (dedup), idempotent batch upserts returning generated ids, and a full path
// listing for the backfill tool.
package catalog
