package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"photovault/internal/ingest"
	"photovault/internal/logging"
	"photovault/internal/walker"
)

// StartIngestRequest is the optional body for StartIngest. An empty body
// ingests the configured source directory under the configured prefix.
type StartIngestRequest struct {
	Path   string `json:"path,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// StartIngestResponse reports the run that was launched.
type StartIngestResponse struct {
	RunID string `json:"runId"`
	Total int    `json:"total"`
}

// StartIngest walks the source directory and launches an ingestion run.
// Returns 409 while a previous run is still in flight.
func (h *Handlers) StartIngest(w http.ResponseWriter, r *http.Request) {
	if h.runner.Active() != nil {
		writeJSONError(w, "an ingestion run is already in progress", http.StatusConflict)
		return
	}

	var req StartIngestRequest
	if body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16)); err == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	root := req.Path
	if root == "" {
		root = h.sourceDir
	}
	prefix := strings.Trim(req.Prefix, "/")
	if prefix == "" {
		prefix = h.destPrefix
	}

	candidates, err := walker.New(h.walkConfig).Walk(r.Context(), root, prefix)
	if err != nil {
		logging.Error("walking %s failed: %v", root, err)
		writeJSONError(w, "walking source directory: "+err.Error(), http.StatusBadRequest)
		return
	}

	// The run outlives this request, so it must not inherit the request
	// context.
	handle, err := h.runner.Start(context.Background(), candidates)
	if err != nil {
		if errors.Is(err, ingest.ErrRunActive) {
			writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, StartIngestResponse{RunID: handle.ID(), Total: len(candidates)})
}

// IngestStatus returns the latest progress snapshot.
func (h *Handlers) IngestStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.reporter.Snapshot())
}

// CancelIngest requests a stop at the next batch boundary. Returns 409 when
// no run is in flight.
func (h *Handlers) CancelIngest(w http.ResponseWriter, _ *http.Request) {
	handle := h.runner.Active()
	if handle == nil {
		writeJSONError(w, "no ingestion run in progress", http.StatusConflict)
		return
	}
	handle.Cancel()
	writeJSONStatus(w, "cancelling")
}
