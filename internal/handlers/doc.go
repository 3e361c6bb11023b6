// Package handlers implements the HTTP API: starting, observing, and
// cancelling ingestion runs, plus the health endpoint.
package handlers
