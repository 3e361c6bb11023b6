// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - SOURCE_DIR: Path to the local photo directory to ingest (default: /photos)
//   - DEST_PREFIX: Object key prefix for uploaded originals (default: photos)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - S3_BUCKET: Object store bucket, required
//   - S3_REGION: Object store region (default: us-east-1)
//   - S3_ENDPOINT: Custom endpoint for S3-compatible stores such as MinIO
//   - S3_ACCESS_KEY_ID / S3_SECRET_ACCESS_KEY: Static credentials; the
//     default AWS credential chain applies when unset
//   - S3_PATH_STYLE: Use path-style addressing (default: true when
//     S3_ENDPOINT is set)
//   - CATALOG_URL: Metadata catalog service base URL (default: http://localhost:3001)
//   - VECTOR_URL: Vector store service base URL (default: http://localhost:3002)
//   - EMBEDDER_URL: Embedding service base URL (default: http://localhost:5000)
//   - EMBEDDING_DIMENSIONS: Expected embedding vector length (default: 512)
//   - BATCH_SIZE: Files per ingestion batch (default: 20)
//   - WALK_WORKERS: Directory walk concurrency
//   - THUMBNAIL_MAX_SIZE: Longest thumbnail side in pixels (default: 800)
//   - THUMBNAIL_QUALITY: Thumbnail JPEG quality (default: 80)
//   - VIDEO_SEEK_OFFSET: Where video frames are sampled, as a Go duration (default: 0s)
//   - INGEST_WORKERS: Per-batch pipeline concurrency override
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogMediaInit]: FFmpeg availability for video thumbnails
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
package startup
