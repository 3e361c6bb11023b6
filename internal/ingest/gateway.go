package ingest

import (
	"context"
	"fmt"
	"sync"

	"photovault/internal/catalog"
	"photovault/internal/logging"
	"photovault/internal/objectstore"
	"photovault/internal/workers"
)

// ObjectStore is the slice of the object store the gateway needs.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// RecordUpserter writes catalog rows and resolves their numeric ids.
type RecordUpserter interface {
	UpsertRecords(ctx context.Context, records []catalog.Record) (map[string]int64, error)
}

// VectorStore writes embeddings keyed by catalog row id.
type VectorStore interface {
	StoreEmbeddings(ctx context.Context, embeddings map[int64][]float32) error
}

// Gateway persists a processed batch across the three stores. Object uploads
// are best-effort per file; the catalog upsert and the embedding write are
// fatal on error because a half-written catalog cannot be reconciled later.
type Gateway struct {
	objects       ObjectStore
	records       RecordUpserter
	vectors       VectorStore
	uploadWorkers int
}

// NewGateway creates a Gateway. Upload concurrency scales with available
// CPUs since uploads are network-bound.
func NewGateway(objects ObjectStore, records RecordUpserter, vectors VectorStore) *Gateway {
	return &Gateway{
		objects:       objects,
		records:       records,
		vectors:       vectors,
		uploadWorkers: workers.ForIO(16),
	}
}

// Persist stores a batch of processed files: originals and thumbnails to the
// object store, rows to the catalog, vectors to the vector store. An upload
// failure is logged and skipped; an error from the catalog or vector store
// is returned and ends the run.
func (g *Gateway) Persist(ctx context.Context, files []*ProcessedFile) error {
	if len(files) == 0 {
		return nil
	}

	g.uploadAll(ctx, files)

	records := make([]catalog.Record, len(files))
	for i, pf := range files {
		records[i] = pf.Record
	}
	ids, err := g.records.UpsertRecords(ctx, records)
	if err != nil {
		return fmt.Errorf("upserting %d records: %w", len(records), err)
	}

	embeddings := make(map[int64][]float32, len(files))
	for _, pf := range files {
		id, ok := ids[pf.Record.Path]
		if !ok {
			return fmt.Errorf("no catalog id returned for %s", pf.Record.Path)
		}
		embeddings[id] = pf.Embedding
	}
	if err := g.vectors.StoreEmbeddings(ctx, embeddings); err != nil {
		return fmt.Errorf("storing %d embeddings: %w", len(embeddings), err)
	}

	logging.Info("persisted batch of %d files", len(files))
	return nil
}

// uploadAll pushes originals and thumbnails concurrently, bounded by the
// worker count. Two objects per file: the normalized original at its dest
// path and the preview under the thumbnail prefix.
func (g *Gateway) uploadAll(ctx context.Context, files []*ProcessedFile) {
	type upload struct {
		key         string
		data        []byte
		contentType string
	}

	jobs := make(chan upload)
	var wg sync.WaitGroup
	for i := 0; i < g.uploadWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				if err := g.objects.Put(ctx, u.key, u.data, u.contentType); err != nil {
					logging.Warn("upload of %s failed: %v", u.key, err)
				}
			}
		}()
	}

	for _, pf := range files {
		jobs <- upload{key: pf.File.DestPath, data: pf.File.Data, contentType: pf.File.MimeType}
		jobs <- upload{key: objectstore.ThumbnailKey(pf.File.DestPath), data: pf.Thumbnail, contentType: "image/jpeg"}
	}
	close(jobs)
	wg.Wait()
}
