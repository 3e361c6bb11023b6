package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"photovault/internal/catalog"
	"photovault/internal/embedder"
	"photovault/internal/ingest"
	"photovault/internal/logging"
	"photovault/internal/media"
	"photovault/internal/mediatypes"
	"photovault/internal/objectstore"
	"photovault/internal/startup"
	"photovault/internal/vectorstore"
	"photovault/internal/walker"

	"github.com/joho/godotenv"
)

// objectProcessor runs the per-file pipeline against bytes fetched from the
// object store instead of the local filesystem.
type objectProcessor struct {
	store *objectstore.Store
	inner *ingest.Processor
}

func (p *objectProcessor) Process(ctx context.Context, c walker.Candidate) (*ingest.ProcessedFile, error) {
	data, err := p.store.Get(ctx, c.DestPath)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", c.DestPath, err)
	}
	return p.inner.ProcessData(ctx, c, data)
}

func main() {
	_ = godotenv.Load()

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cancel, config); err != nil {
		logging.Fatal("Backfill failed: %v", err)
	}
}

func run(ctx context.Context, cancel context.CancelFunc, config *startup.Config) error {
	store, err := objectstore.New(ctx, objectstore.Config{
		Bucket:          config.Bucket,
		Region:          config.Region,
		Endpoint:        config.Endpoint,
		AccessKeyID:     config.AccessKeyID,
		SecretAccessKey: config.SecretAccessKey,
		PathStyle:       config.PathStyle,
	})
	if err != nil {
		return fmt.Errorf("initializing object store: %w", err)
	}

	cat := catalog.NewClient(config.CatalogURL)
	vectors := vectorstore.NewClient(config.VectorURL)
	embed := embedder.NewClient(config.EmbedderURL, config.EmbeddingDims)

	thumbnailer := media.NewThumbnailer(config.ThumbnailMaxSize, config.ThumbnailQuality, config.VideoSeekOffset)
	processor := &objectProcessor{store: store, inner: ingest.NewProcessor(thumbnailer, embed)}
	gateway := ingest.NewGateway(store, cat, vectors)
	reporter := ingest.NewReporter()
	runner := ingest.NewRunner(cat, gateway, processor, reporter, config.BatchSize)

	logging.Info("Listing bucket %s under %s/", config.Bucket, config.DestPrefix)
	keys, err := store.List(ctx, config.DestPrefix+"/")
	if err != nil {
		return fmt.Errorf("listing bucket: %w", err)
	}

	cataloged, err := cat.ListPaths(ctx)
	if err != nil {
		return fmt.Errorf("listing catalog paths: %w", err)
	}
	known := make(map[string]bool, len(cataloged))
	for _, p := range cataloged {
		known[p] = true
	}

	// Videos need a local file for frame extraction, so the backfill covers
	// stored images only.
	var candidates []walker.Candidate
	for _, key := range keys {
		if known[key] || mediatypes.KindOfPath(key) != mediatypes.KindImage {
			continue
		}
		candidates = append(candidates, walker.Candidate{
			DestPath:   key,
			SourcePath: key,
			Name:       path.Base(key),
			Kind:       mediatypes.KindImage,
		})
	}

	logging.Info("Found %d stored objects, %d cataloged, %d to backfill",
		len(keys), len(cataloged), len(candidates))
	if len(candidates) == 0 {
		logging.Info("Nothing to do")
		return nil
	}

	handle, err := runner.Start(ctx, candidates)
	if err != nil {
		return fmt.Errorf("starting run: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Warn("Received %s, stopping at the next batch boundary", sig)
		handle.Cancel()
		cancel()
	}()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-handle.Done():
			status := reporter.Snapshot()
			if status.Error != "" {
				return fmt.Errorf("run %s: %s", handle.ID(), status.Error)
			}
			logging.Info("Backfill complete: %d/%d files", status.Processed, status.Total)
			return nil
		case <-ticker.C:
			status := reporter.Snapshot()
			logging.Info("Progress: %d/%d", status.Processed, status.Total)
		}
	}
}
