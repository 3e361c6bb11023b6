// Package workers provides utilities for determining worker pool sizes in
// containerized environments.
//
// Go 1.19+ sets GOMAXPROCS from container CPU limits, while runtime.NumCPU()
// still reports the host machine's core count. The helpers here size pools
// from GOMAXPROCS so the walker and the persistence gateway respect cgroup
// limits instead of the host.
//
// Usage:
//
//	// I/O-bound (object storage uploads), max 16 workers
//	n := workers.ForIO(16)
//
//	// CPU-bound (image decode), 1 per available CPU
//	n := workers.ForCPU(0)
//
// All functions respect the INGEST_WORKERS environment variable, allowing
// operators to override the automatic calculation.
package workers
