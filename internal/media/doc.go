// Package media provides per-file media transforms for the ingestion
// pipeline: format normalization and thumbnail generation.
//
// Normalize re-encodes legacy image containers (HEIC/HEIF) to JPEG via
// libvips so every stored original is browser-displayable; everything else
// passes through untouched.
//
// The Thumbnailer supports:
//   - Images: decode (imaging with stdlib fallback), fit to a bounded size
//   - Videos: single-frame extraction using FFmpeg, then the same resize path
package media
