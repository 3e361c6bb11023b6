// Package middleware provides HTTP middleware for the ingestion API.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics
//   - Configurable filtering for health checks and the metrics endpoint
package middleware
