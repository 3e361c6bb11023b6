// Package mediatypes provides shared type definitions and utilities for media
// file handling across the ingestion service.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions with no external dependencies beyond
// the standard library.
//
// # Source Kinds
//
// Every discovered file falls into one of a closed set of variants that the
// normalizer and thumbnailer dispatch on:
//
//	mediatypes.KindImage       // Directly displayable (jpg, png, webp, ...)
//	mediatypes.KindLegacyImage // Needs conversion to JPEG first (heic, heif)
//	mediatypes.KindVideo       // Thumbnails via frame extraction (mp4, mov, ...)
//	mediatypes.KindOther       // Not ingested
//
// Use KindOf to classify by extension:
//
//	ext := strings.ToLower(filepath.Ext(filename))
//	kind := mediatypes.KindOf(ext)
//
// # Name Normalization
//
// Legacy containers are re-encoded as JPEG during ingestion, which renames
// them. NormalizedName and NormalizedPath compute the post-conversion name so
// destination paths and dedup checks agree with what actually gets stored:
//
//	mediatypes.NormalizedPath("photos/trip/IMG_0001.heic") // "photos/trip/IMG_0001.jpg"
package mediatypes
