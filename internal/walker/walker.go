package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"photovault/internal/logging"
	"photovault/internal/mediatypes"
	"photovault/internal/metrics"
	"photovault/internal/workers"
)

// Candidate is a discovered source file eligible for ingestion.
type Candidate struct {
	// DestPath is the logical destination key: prefix + "/" + path relative
	// to the walked root. The ingestion key for dedup and object storage.
	DestPath string
	// SourcePath is the absolute path of the file on the local filesystem.
	SourcePath string
	// Name is the base file name.
	Name string
	// Kind classifies the file for the normalizer and thumbnailer.
	Kind mediatypes.Kind
	// Size is the file size in bytes.
	Size int64
}

// Config configures the parallel directory walker.
type Config struct {
	// NumWorkers is the number of parallel classification workers (0 = auto).
	NumWorkers int
	// ChannelBuffer is the size of the work channel buffer.
	ChannelBuffer int
	// SkipHidden skips files and directories starting with ".".
	SkipHidden bool
}

// DefaultConfig returns sensible defaults based on available resources.
func DefaultConfig() Config {
	return Config{
		NumWorkers:    workers.ForIO(8),
		ChannelBuffer: 1000,
		SkipHidden:    true,
	}
}

// fileJob represents a file to be classified.
type fileJob struct {
	path    string
	relPath string
	info    os.FileInfo
}

// Walker enumerates a directory tree into ingestion candidates.
type Walker struct {
	config Config

	filesFound   atomic.Int64
	filesSkipped atomic.Int64
	errorsCount  atomic.Int64
}

// New creates a Walker with the given configuration.
func New(config Config) *Walker {
	if config.NumWorkers <= 0 {
		config.NumWorkers = DefaultConfig().NumWorkers
	}
	if config.ChannelBuffer <= 0 {
		config.ChannelBuffer = DefaultConfig().ChannelBuffer
	}
	return &Walker{config: config}
}

// Walk recursively enumerates root and returns one Candidate per supported
// media file, with DestPath computed as destPrefix + "/" + relative path.
//
// A root that is not a directory is an error. Unreadable entries below the
// root are logged and skipped; the walk as a whole does not fail for them.
// Results are sorted by DestPath so batch slicing is deterministic.
func (w *Walker) Walk(ctx context.Context, root, destPrefix string) ([]Candidate, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	logging.Info("Walking %s with %d workers (prefix: %s)", root, w.config.NumWorkers, destPrefix)
	startTime := time.Now()

	jobs := make(chan fileJob, w.config.ChannelBuffer)
	results := make(chan Candidate, w.config.ChannelBuffer)

	var wg sync.WaitGroup
	for i := 0; i < w.config.NumWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for job := range jobs {
				c, ok := w.classify(job, destPrefix)
				if !ok {
					continue
				}
				select {
				case results <- c:
				case <-ctx.Done():
					return
				}
			}
		}(i)
	}

	var candidates []Candidate
	var collectorWg sync.WaitGroup
	collectorWg.Add(1)
	go func() {
		defer collectorWg.Done()
		for c := range results {
			candidates = append(candidates, c)
		}
	}()

	walkErr := w.enqueue(ctx, root, jobs)

	close(jobs)
	wg.Wait()
	close(results)
	collectorWg.Wait()

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DestPath < candidates[j].DestPath
	})

	logging.Info("Walk complete: %d candidates, %d skipped in %v (errors: %d)",
		w.filesFound.Load(), w.filesSkipped.Load(), time.Since(startTime), w.errorsCount.Load())
	metrics.WalkerFilesFound.Add(float64(w.filesFound.Load()))

	if walkErr != nil {
		return candidates, walkErr
	}
	if err := ctx.Err(); err != nil {
		return candidates, err
	}
	return candidates, nil
}

// enqueue walks the directory tree and sends file jobs to the workers.
func (w *Walker) enqueue(ctx context.Context, root string, jobs chan<- fileJob) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return fs.SkipAll
		default:
		}

		if err != nil {
			logging.Warn("Error accessing path %s: %v", path, err)
			w.errorsCount.Add(1)
			return nil // continue walking
		}

		if w.config.SkipHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			//nolint:nilerr // skip this file but process others
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logging.Warn("Error getting info for %s: %v", path, err)
			w.errorsCount.Add(1)
			return nil
		}

		select {
		case jobs <- fileJob{path: path, relPath: relPath, info: info}:
		case <-ctx.Done():
			return fs.SkipAll
		}

		return nil
	})
}

// classify turns a job into a Candidate, dropping unsupported file types.
func (w *Walker) classify(job fileJob, destPrefix string) (Candidate, bool) {
	ext := strings.ToLower(filepath.Ext(job.info.Name()))
	kind := mediatypes.KindOf(ext)

	if kind == mediatypes.KindOther {
		w.filesSkipped.Add(1)
		logging.Debug("Skipping unsupported file: %s", job.path)
		return Candidate{}, false
	}

	w.filesFound.Add(1)
	return Candidate{
		DestPath:   destPrefix + "/" + filepath.ToSlash(job.relPath),
		SourcePath: job.path,
		Name:       job.info.Name(),
		Kind:       kind,
		Size:       job.info.Size(),
	}, true
}

// Stats returns current walk statistics.
func (w *Walker) Stats() (found, skipped, errors int64) {
	return w.filesFound.Load(), w.filesSkipped.Load(), w.errorsCount.Load()
}
