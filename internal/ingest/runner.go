package ingest

import (
	"context"
	"errors"
	"sync"
	"time"

	"photovault/internal/logging"
	"photovault/internal/mediatypes"
	"photovault/internal/metrics"
	"photovault/internal/walker"
)

// ErrRunActive is returned by Start while a previous run is still in flight.
var ErrRunActive = errors.New("an ingestion run is already in progress")

// ExistenceChecker answers which destination paths are already cataloged.
type ExistenceChecker interface {
	CheckExisting(ctx context.Context, paths []string) (map[string]bool, error)
}

// Persister writes one processed batch to durable storage.
type Persister interface {
	Persist(ctx context.Context, files []*ProcessedFile) error
}

// FileProcessor runs the per-file pipeline for one candidate.
type FileProcessor interface {
	Process(ctx context.Context, c walker.Candidate) (*ProcessedFile, error)
}

// Runner drives ingestion runs. Batches run strictly one after another;
// inside a batch every surviving file is processed concurrently. A file
// that fails is dropped from its batch and the run keeps going; a
// persistence error ends the run.
type Runner struct {
	checker   ExistenceChecker
	persister Persister
	processor FileProcessor
	reporter  *Reporter
	batchSize int

	mu     sync.Mutex
	active *RunHandle
}

// DefaultBatchSize bounds how many files share one dedup round trip and one
// persistence call.
const DefaultBatchSize = 20

// NewRunner creates a Runner. A batchSize of zero or less selects
// DefaultBatchSize.
func NewRunner(checker ExistenceChecker, persister Persister, processor FileProcessor, reporter *Reporter, batchSize int) *Runner {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Runner{
		checker:   checker,
		persister: persister,
		processor: processor,
		reporter:  reporter,
		batchSize: batchSize,
	}
}

// Active returns the handle of the run in flight, or nil when idle.
func (r *Runner) Active() *RunHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Start launches a run over the given candidates in a background goroutine
// and returns its handle. Only one run may be in flight at a time.
func (r *Runner) Start(ctx context.Context, candidates []walker.Candidate) (*RunHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		return nil, ErrRunActive
	}
	handle := newRunHandle()
	r.active = handle
	metrics.IngestRunning.Set(1)
	go r.run(ctx, handle, candidates)
	return handle, nil
}

func (r *Runner) run(ctx context.Context, handle *RunHandle, candidates []walker.Candidate) {
	defer func() {
		r.mu.Lock()
		r.active = nil
		r.mu.Unlock()
		metrics.IngestRunning.Set(0)
		close(handle.done)
	}()

	status := Status{Total: len(candidates), IsProcessing: true}
	r.reporter.Publish(status)
	logging.Info("ingestion run %s started: %d candidates, batch size %d",
		handle.ID(), len(candidates), r.batchSize)

	outcome := "completed"
	start := time.Now()

	for i := 0; i < len(candidates); i += r.batchSize {
		if handle.Cancelled() || ctx.Err() != nil {
			outcome = "cancelled"
			break
		}

		end := i + r.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[i:end]
		batchStart := time.Now()

		survivors, err := r.dedup(ctx, batch)
		if err != nil {
			status.Error = "checking existing files: " + err.Error()
			outcome = "failed"
			break
		}
		metrics.IngestFilesTotal.WithLabelValues("deduped").Add(float64(len(batch) - len(survivors)))

		if len(survivors) > 0 {
			status.CurrentBatch = batchNames(survivors)
			r.reporter.Publish(status)

			processed := r.processBatch(ctx, survivors)
			metrics.IngestFilesTotal.WithLabelValues("failed").Add(float64(len(survivors) - len(processed)))

			if len(processed) > 0 {
				if err := r.persister.Persist(ctx, processed); err != nil {
					logging.Error("run %s: persisting batch failed: %v", handle.ID(), err)
					status.Error = "persisting batch: " + err.Error()
					status.CurrentBatch = nil
					outcome = "failed"
					break
				}
				metrics.IngestFilesTotal.WithLabelValues("persisted").Add(float64(len(processed)))
			}
		}

		// Progress counts every candidate the batch covered, deduped and
		// failed included, so Processed always converges on Total.
		status.Processed = end
		status.CurrentBatch = nil
		r.reporter.Publish(status)

		metrics.IngestBatchesTotal.Inc()
		metrics.IngestBatchDuration.Observe(time.Since(batchStart).Seconds())
	}

	status.IsProcessing = false
	status.CurrentBatch = nil
	r.reporter.Publish(status)
	metrics.IngestRunsTotal.WithLabelValues(outcome).Inc()
	logging.Info("ingestion run %s %s: %d/%d files in %s",
		handle.ID(), outcome, status.Processed, status.Total, time.Since(start).Round(time.Millisecond))
}

// dedup drops candidates whose destination path is already cataloged. The
// lookup uses normalized paths, the form the file will have after legacy
// format conversion, so a previously converted file is recognized.
func (r *Runner) dedup(ctx context.Context, batch []walker.Candidate) ([]walker.Candidate, error) {
	paths := make([]string, len(batch))
	for i, c := range batch {
		paths[i] = mediatypes.NormalizedPath(c.DestPath)
	}
	existing, err := r.checker.CheckExisting(ctx, paths)
	if err != nil {
		return nil, err
	}
	survivors := make([]walker.Candidate, 0, len(batch))
	for i, c := range batch {
		if existing[paths[i]] {
			logging.Debug("skipping %s: already cataloged", paths[i])
			continue
		}
		survivors = append(survivors, c)
	}
	return survivors, nil
}

// processBatch fans the per-file pipeline out over one batch and collects
// the successes. Order within the batch is not preserved beyond slot
// position; failures are logged and dropped.
func (r *Runner) processBatch(ctx context.Context, batch []walker.Candidate) []*ProcessedFile {
	results := make([]*ProcessedFile, len(batch))
	var wg sync.WaitGroup
	for i, c := range batch {
		wg.Add(1)
		go func(i int, c walker.Candidate) {
			defer wg.Done()
			pf, err := r.processor.Process(ctx, c)
			if err != nil {
				logging.Warn("skipping %s: %v", c.SourcePath, err)
				return
			}
			results[i] = pf
		}(i, c)
	}
	wg.Wait()

	processed := make([]*ProcessedFile, 0, len(batch))
	for _, pf := range results {
		if pf != nil {
			processed = append(processed, pf)
		}
	}
	return processed
}

func batchNames(batch []walker.Candidate) []string {
	names := make([]string, len(batch))
	for i, c := range batch {
		names[i] = c.Name
	}
	return names
}
