package handlers

import (
	"net/http"
	"runtime"
	"time"

	"photovault/internal/startup"
)

const statusHealthy = "healthy"

var startTime = time.Now()

// HealthResponse contains the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Ingesting bool   `json:"ingesting"`

	// Progress info
	Processed int `json:"processed"`
	Total     int `json:"total"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	status := h.reporter.Snapshot()

	response := HealthResponse{
		Status:       statusHealthy,
		Version:      startup.Version,
		Uptime:       time.Since(startTime).Round(time.Second).String(),
		Ingesting:    status.IsProcessing,
		Processed:    status.Processed,
		Total:        status.Total,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, response)
}
