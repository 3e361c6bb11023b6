// Package exifdata extracts embedded EXIF tags (capture time, GPS, camera
// settings) from original media bytes.
//
// Extraction never fails a file: one with no tags, or with tags
// the parser cannot read, yields an empty Fields value rather than an error.
// Absence of metadata is not a processing failure.
package exifdata
