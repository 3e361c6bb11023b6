// Package objectstore is the gateway to S3-compatible object storage.
//
// Originals are stored under their destination key (photos/<relative path>);
// thumbnails live under the same relative path with the thumbnails/ prefix.
// Custom endpoints (DigitalOcean Spaces, MinIO) are supported via the
// Endpoint and PathStyle settings.
package objectstore
