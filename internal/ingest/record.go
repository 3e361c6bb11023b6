package ingest

import (
	"photovault/internal/catalog"
	"photovault/internal/exifdata"
	"photovault/internal/media"
)

// buildRecord assembles the catalog row for a normalized file. The path is
// the post-normalization object key, so a re-ingest of the same source file
// resolves to the same row. Camera fields come from the original bytes, not
// the normalized ones.
func buildRecord(nf media.NormalizedFile, f exifdata.Fields) catalog.Record {
	return catalog.Record{
		Path:         nf.DestPath,
		Name:         nf.Name,
		TakenAt:      f.TakenAt,
		Latitude:     f.Latitude,
		Longitude:    f.Longitude,
		CameraMake:   f.CameraMake,
		CameraModel:  f.CameraModel,
		LensModel:    f.LensModel,
		Aperture:     f.Aperture,
		ISO:          f.ISO,
		ShutterSpeed: f.ShutterSpeed,
		FocalLength:  f.FocalLength,
		Orientation:  f.Orientation,
	}
}
