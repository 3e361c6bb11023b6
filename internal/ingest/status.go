package ingest

import "sync/atomic"

// Status is the observable progress record for one ingestion run.
// Processed counts attempted files: deduped and per-file-failed candidates
// advance it the same as persisted ones, so a progress bar over Total always
// reaches 100%.
type Status struct {
	Total        int      `json:"total"`
	Processed    int      `json:"processed"`
	CurrentBatch []string `json:"currentBatch"`
	Error        string   `json:"error,omitempty"`
	IsProcessing bool     `json:"isProcessing"`
}

// Reporter is a passive holder for the latest Status. The orchestrator is
// the only writer; external observers read snapshots at any time.
// Last write wins.
type Reporter struct {
	status atomic.Value
}

// NewReporter creates a Reporter holding an idle zero Status.
func NewReporter() *Reporter {
	r := &Reporter{}
	r.status.Store(Status{})
	return r
}

// Publish replaces the current status. The CurrentBatch slice is copied so
// later mutation by the caller cannot race with readers.
func (r *Reporter) Publish(s Status) {
	if s.CurrentBatch != nil {
		batch := make([]string, len(s.CurrentBatch))
		copy(batch, s.CurrentBatch)
		s.CurrentBatch = batch
	}
	r.status.Store(s)
}

// Snapshot returns the most recently published status.
func (r *Reporter) Snapshot() Status {
	if s, ok := r.status.Load().(Status); ok {
		return s
	}
	return Status{}
}
