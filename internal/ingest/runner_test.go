package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"photovault/internal/catalog"
	"photovault/internal/media"
	"photovault/internal/mediatypes"
	"photovault/internal/walker"
)

type fakeChecker struct {
	mu       sync.Mutex
	calls    [][]string
	existing map[string]bool
	err      error
}

func (f *fakeChecker) CheckExisting(_ context.Context, paths []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), paths...))
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		out[p] = f.existing[p]
	}
	return out, nil
}

type fakePersister struct {
	mu        sync.Mutex
	batches   [][]*ProcessedFile
	failOn    int // 1-based call index that fails, 0 = never
	onPersist func()
}

func (f *fakePersister) Persist(_ context.Context, files []*ProcessedFile) error {
	f.mu.Lock()
	f.batches = append(f.batches, files)
	call := len(f.batches)
	f.mu.Unlock()
	if f.onPersist != nil {
		f.onPersist()
	}
	if f.failOn != 0 && call == f.failOn {
		return errors.New("catalog write refused")
	}
	return nil
}

func (f *fakePersister) persisted() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

type fakeProcessor struct {
	failPaths map[string]bool
}

func (f *fakeProcessor) Process(_ context.Context, c walker.Candidate) (*ProcessedFile, error) {
	if f.failPaths[c.DestPath] {
		return nil, errors.New("decode failed")
	}
	return &ProcessedFile{
		File:      media.NormalizedFile{Name: c.Name, DestPath: c.DestPath, Kind: mediatypes.KindImage},
		Thumbnail: []byte("thumb"),
		Record:    catalog.Record{Path: c.DestPath, Name: c.Name, Orientation: 1},
		Embedding: []float32{0.5},
	}, nil
}

func makeCandidates(n int) []walker.Candidate {
	out := make([]walker.Candidate, n)
	for i := range out {
		name := fmt.Sprintf("img%03d.jpg", i)
		out[i] = walker.Candidate{
			DestPath:   "photos/" + name,
			SourcePath: "/photos/" + name,
			Name:       name,
			Kind:       mediatypes.KindImage,
		}
	}
	return out
}

func runToCompletion(t *testing.T, r *Runner, candidates []walker.Candidate) *RunHandle {
	t.Helper()
	handle, err := r.Start(context.Background(), candidates)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	select {
	case <-handle.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not finish")
	}
	return handle
}

func TestRunnerProcessesInBatches(t *testing.T) {
	checker := &fakeChecker{}
	persister := &fakePersister{}
	reporter := NewReporter()
	r := NewRunner(checker, persister, &fakeProcessor{}, reporter, 20)

	runToCompletion(t, r, makeCandidates(45))

	if len(checker.calls) != 3 {
		t.Fatalf("Existence checks = %d, want 3", len(checker.calls))
	}
	wantSizes := []int{20, 20, 5}
	for i, call := range checker.calls {
		if len(call) != wantSizes[i] {
			t.Errorf("Check %d covered %d paths, want %d", i, len(call), wantSizes[i])
		}
	}
	if len(persister.batches) != 3 {
		t.Errorf("Persist calls = %d, want 3", len(persister.batches))
	}
	if persister.persisted() != 45 {
		t.Errorf("Persisted files = %d, want 45", persister.persisted())
	}

	status := reporter.Snapshot()
	if status.Processed != 45 || status.Total != 45 {
		t.Errorf("Processed/Total = %d/%d, want 45/45", status.Processed, status.Total)
	}
	if status.IsProcessing {
		t.Error("IsProcessing still true after completion")
	}
	if status.Error != "" {
		t.Errorf("Unexpected error: %s", status.Error)
	}
	if status.CurrentBatch != nil {
		t.Errorf("CurrentBatch not cleared: %v", status.CurrentBatch)
	}
}

func TestRunnerSkipsExistingFiles(t *testing.T) {
	candidates := makeCandidates(5)
	checker := &fakeChecker{existing: map[string]bool{
		candidates[1].DestPath: true,
		candidates[3].DestPath: true,
	}}
	persister := &fakePersister{}
	reporter := NewReporter()
	r := NewRunner(checker, persister, &fakeProcessor{}, reporter, 20)

	runToCompletion(t, r, candidates)

	if persister.persisted() != 3 {
		t.Errorf("Persisted files = %d, want 3", persister.persisted())
	}
	// Skipped files still count as attempted
	if status := reporter.Snapshot(); status.Processed != 5 {
		t.Errorf("Processed = %d, want 5", status.Processed)
	}
}

func TestRunnerSkipsFullyDedupedBatch(t *testing.T) {
	candidates := makeCandidates(3)
	existing := make(map[string]bool)
	for _, c := range candidates {
		existing[c.DestPath] = true
	}
	persister := &fakePersister{}
	reporter := NewReporter()
	r := NewRunner(&fakeChecker{existing: existing}, persister, &fakeProcessor{}, reporter, 20)

	runToCompletion(t, r, candidates)

	if len(persister.batches) != 0 {
		t.Errorf("Persist calls = %d, want 0", len(persister.batches))
	}
	if status := reporter.Snapshot(); status.Processed != 3 || status.Error != "" {
		t.Errorf("Status = %+v", status)
	}
}

// Dedup must look up the path a file will have after normalization, so a
// HEIC converted on a previous run is recognized by its .jpg key.
func TestRunnerDedupsOnNormalizedPaths(t *testing.T) {
	candidates := []walker.Candidate{
		{DestPath: "photos/IMG_1.heic", Name: "IMG_1.heic", Kind: mediatypes.KindLegacyImage},
	}
	checker := &fakeChecker{existing: map[string]bool{"photos/IMG_1.jpg": true}}
	persister := &fakePersister{}
	r := NewRunner(checker, persister, &fakeProcessor{}, NewReporter(), 20)

	runToCompletion(t, r, candidates)

	if len(checker.calls) != 1 || checker.calls[0][0] != "photos/IMG_1.jpg" {
		t.Fatalf("Existence check used %v, want the normalized path", checker.calls)
	}
	if persister.persisted() != 0 {
		t.Errorf("Persisted files = %d, want 0", persister.persisted())
	}
}

func TestRunnerIsolatesFileFailures(t *testing.T) {
	candidates := makeCandidates(4)
	processor := &fakeProcessor{failPaths: map[string]bool{candidates[2].DestPath: true}}
	persister := &fakePersister{}
	reporter := NewReporter()
	r := NewRunner(&fakeChecker{}, persister, processor, reporter, 20)

	runToCompletion(t, r, candidates)

	if persister.persisted() != 3 {
		t.Errorf("Persisted files = %d, want 3", persister.persisted())
	}
	status := reporter.Snapshot()
	if status.Error != "" {
		t.Errorf("A single bad file must not fail the run, got error %q", status.Error)
	}
	if status.Processed != 4 {
		t.Errorf("Processed = %d, want 4", status.Processed)
	}
}

func TestRunnerStopsOnPersistFailure(t *testing.T) {
	checker := &fakeChecker{}
	persister := &fakePersister{failOn: 2}
	reporter := NewReporter()
	r := NewRunner(checker, persister, &fakeProcessor{}, reporter, 20)

	runToCompletion(t, r, makeCandidates(45))

	status := reporter.Snapshot()
	if status.Error == "" {
		t.Fatal("Expected a run error")
	}
	// Only batch 1 counts: batch 2 failed before its progress update
	if status.Processed != 20 {
		t.Errorf("Processed = %d, want 20", status.Processed)
	}
	if status.IsProcessing {
		t.Error("IsProcessing still true after failure")
	}
	if len(checker.calls) != 2 {
		t.Errorf("Existence checks = %d, want 2 (batch 3 must not start)", len(checker.calls))
	}
}

func TestRunnerStopsOnCheckerFailure(t *testing.T) {
	persister := &fakePersister{}
	reporter := NewReporter()
	r := NewRunner(&fakeChecker{err: errors.New("connection refused")}, persister, &fakeProcessor{}, reporter, 20)

	runToCompletion(t, r, makeCandidates(5))

	status := reporter.Snapshot()
	if status.Error == "" {
		t.Fatal("Expected a run error")
	}
	if status.Processed != 0 {
		t.Errorf("Processed = %d, want 0", status.Processed)
	}
	if len(persister.batches) != 0 {
		t.Errorf("Persist calls = %d, want 0", len(persister.batches))
	}
}

func TestRunnerCancelStopsAtBatchBoundary(t *testing.T) {
	checker := &fakeChecker{}
	reporter := NewReporter()

	var handle *RunHandle
	ready := make(chan struct{})
	persister := &fakePersister{}
	// Cancel while batch 1 is being persisted; the batch must still land.
	persister.onPersist = func() {
		<-ready
		handle.Cancel()
	}
	r := NewRunner(checker, persister, &fakeProcessor{}, reporter, 20)

	var err error
	handle, err = r.Start(context.Background(), makeCandidates(45))
	close(ready)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	select {
	case <-handle.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not finish")
	}

	if len(persister.batches) != 1 {
		t.Fatalf("Persist calls = %d, want 1", len(persister.batches))
	}
	if persister.persisted() != 20 {
		t.Errorf("Persisted files = %d, want 20", persister.persisted())
	}
	status := reporter.Snapshot()
	if status.Processed != 20 {
		t.Errorf("Processed = %d, want 20", status.Processed)
	}
	if status.Error != "" {
		t.Errorf("Cancellation is not an error, got %q", status.Error)
	}
	if status.IsProcessing {
		t.Error("IsProcessing still true after cancellation")
	}
}

func TestRunnerRejectsConcurrentRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	persister := &fakePersister{onPersist: func() {
		close(started)
		<-release
	}}
	r := NewRunner(&fakeChecker{}, persister, &fakeProcessor{}, NewReporter(), 20)

	handle, err := r.Start(context.Background(), makeCandidates(5))
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	<-started

	if _, err := r.Start(context.Background(), makeCandidates(5)); !errors.Is(err, ErrRunActive) {
		t.Errorf("Second Start error = %v, want ErrRunActive", err)
	}
	if r.Active() != handle {
		t.Error("Active() should return the running handle")
	}

	close(release)
	<-handle.Done()

	if r.Active() != nil {
		t.Error("Active() should be nil after the run finishes")
	}
}

func TestRunnerEmptyInput(t *testing.T) {
	persister := &fakePersister{}
	reporter := NewReporter()
	r := NewRunner(&fakeChecker{}, persister, &fakeProcessor{}, reporter, 20)

	runToCompletion(t, r, nil)

	status := reporter.Snapshot()
	if status.Total != 0 || status.Processed != 0 || status.IsProcessing || status.Error != "" {
		t.Errorf("Status = %+v", status)
	}
}

func TestRunnerReingestAfterPartialRun(t *testing.T) {
	candidates := makeCandidates(6)
	checker := &fakeChecker{existing: map[string]bool{}}
	persister := &fakePersister{failOn: 2}
	r := NewRunner(checker, persister, &fakeProcessor{}, NewReporter(), 3)

	// First run dies persisting batch 2; batch 1 landed.
	runToCompletion(t, r, candidates)
	for _, pf := range persister.batches[0] {
		checker.existing[pf.Record.Path] = true
	}

	second := &fakePersister{}
	r2 := NewRunner(checker, second, &fakeProcessor{}, NewReporter(), 3)
	runToCompletion(t, r2, candidates)

	// Only the files the first run never persisted are re-processed.
	if second.persisted() != 3 {
		t.Errorf("Second run persisted %d files, want 3", second.persisted())
	}
}
