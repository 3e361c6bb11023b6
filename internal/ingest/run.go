package ingest

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// RunHandle identifies one ingestion run and carries its cancellation flag.
// Cancellation is cooperative: the orchestrator observes the flag between
// batches, so the batch in flight always completes and persists before the
// run stops.
type RunHandle struct {
	id        string
	cancelled atomic.Bool
	done      chan struct{}
}

func newRunHandle() *RunHandle {
	return &RunHandle{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

// ID returns the unique identifier for this run.
func (h *RunHandle) ID() string {
	return h.id
}

// Cancel requests a stop at the next batch boundary. Safe to call more than
// once and from any goroutine.
func (h *RunHandle) Cancel() {
	h.cancelled.Store(true)
}

// Cancelled reports whether a stop has been requested.
func (h *RunHandle) Cancelled() bool {
	return h.cancelled.Load()
}

// Done returns a channel closed when the run has fully terminated.
func (h *RunHandle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the run has terminated.
func (h *RunHandle) Wait() {
	<-h.done
}
