package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"photovault/internal/catalog"
	"photovault/internal/ingest"
	"photovault/internal/media"
	"photovault/internal/startup"
	"photovault/internal/walker"
)

type stubChecker struct{}

func (stubChecker) CheckExisting(_ context.Context, paths []string) (map[string]bool, error) {
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		out[p] = false
	}
	return out, nil
}

type stubPersister struct {
	block chan struct{} // nil = don't block
}

func (s *stubPersister) Persist(context.Context, []*ingest.ProcessedFile) error {
	if s.block != nil {
		<-s.block
	}
	return nil
}

type stubProcessor struct{}

func (stubProcessor) Process(_ context.Context, c walker.Candidate) (*ingest.ProcessedFile, error) {
	return &ingest.ProcessedFile{
		File:   media.NormalizedFile{Name: c.Name, DestPath: c.DestPath},
		Record: catalog.Record{Path: c.DestPath, Name: c.Name, Orientation: 1},
	}, nil
}

func newTestHandlers(t *testing.T, persister ingest.Persister, sourceDir string) (*Handlers, *ingest.Runner, *ingest.Reporter) {
	t.Helper()
	reporter := ingest.NewReporter()
	runner := ingest.NewRunner(stubChecker{}, persister, stubProcessor{}, reporter, 20)
	h := New(runner, reporter, &startup.Config{
		SourceDir:   sourceDir,
		DestPrefix:  "photos",
		WalkWorkers: 2,
	})
	return h, runner, reporter
}

func TestIngestStatus(t *testing.T) {
	h, _, reporter := newTestHandlers(t, &stubPersister{}, t.TempDir())
	reporter.Publish(ingest.Status{Total: 9, Processed: 3, CurrentBatch: []string{"a.jpg"}, IsProcessing: true})

	rec := httptest.NewRecorder()
	h.IngestStatus(rec, httptest.NewRequest(http.MethodGet, "/api/ingest/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status code = %d", rec.Code)
	}
	var status ingest.Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("Decoding response: %v", err)
	}
	if status.Total != 9 || status.Processed != 3 || !status.IsProcessing {
		t.Errorf("Status = %+v", status)
	}
	if len(status.CurrentBatch) != 1 || status.CurrentBatch[0] != "a.jpg" {
		t.Errorf("CurrentBatch = %v", status.CurrentBatch)
	}
}

func TestStartIngestEmptyDirectory(t *testing.T) {
	h, runner, _ := newTestHandlers(t, &stubPersister{}, t.TempDir())

	rec := httptest.NewRecorder()
	h.StartIngest(rec, httptest.NewRequest(http.MethodPost, "/api/ingest", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("Status code = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp StartIngestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decoding response: %v", err)
	}
	if resp.RunID == "" {
		t.Error("Expected a run id")
	}
	if resp.Total != 0 {
		t.Errorf("Total = %d, want 0", resp.Total)
	}

	waitForIdle(t, runner)
}

func TestStartIngestMissingDirectory(t *testing.T) {
	h, _, _ := newTestHandlers(t, &stubPersister{}, filepath.Join(t.TempDir(), "missing"))

	rec := httptest.NewRecorder()
	h.StartIngest(rec, httptest.NewRequest(http.MethodPost, "/api/ingest", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want 400", rec.Code)
	}
}

func TestStartIngestInvalidBody(t *testing.T) {
	h, _, _ := newTestHandlers(t, &stubPersister{}, t.TempDir())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader("{not json"))
	h.StartIngest(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status code = %d, want 400", rec.Code)
	}
}

func TestStartIngestConflictAndCancel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("data"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	persister := &stubPersister{block: make(chan struct{})}
	h, runner, _ := newTestHandlers(t, persister, dir)

	rec := httptest.NewRecorder()
	h.StartIngest(rec, httptest.NewRequest(http.MethodPost, "/api/ingest", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("First start = %d, body: %s", rec.Code, rec.Body.String())
	}

	// Second start must be rejected while the run is blocked in persistence
	rec = httptest.NewRecorder()
	h.StartIngest(rec, httptest.NewRequest(http.MethodPost, "/api/ingest", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("Second start = %d, want 409", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.CancelIngest(rec, httptest.NewRequest(http.MethodPost, "/api/ingest/cancel", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Cancel = %d, want 200", rec.Code)
	}

	close(persister.block)
	waitForIdle(t, runner)

	// With no active run, cancel conflicts
	rec = httptest.NewRecorder()
	h.CancelIngest(rec, httptest.NewRequest(http.MethodPost, "/api/ingest/cancel", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("Cancel while idle = %d, want 409", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	h, _, reporter := newTestHandlers(t, &stubPersister{}, t.TempDir())
	reporter.Publish(ingest.Status{Total: 5, Processed: 2, IsProcessing: true})

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Status code = %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decoding response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Status = %q", resp.Status)
	}
	if !resp.Ingesting || resp.Processed != 2 || resp.Total != 5 {
		t.Errorf("Response = %+v", resp)
	}
	if resp.GoVersion == "" || resp.NumCPU == 0 {
		t.Errorf("System info missing: %+v", resp)
	}
}

func waitForIdle(t *testing.T, runner *ingest.Runner) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for runner.Active() != nil {
		select {
		case <-deadline:
			t.Fatal("Run did not finish")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
