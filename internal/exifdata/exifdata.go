package exifdata

import (
	"bytes"
	"time"

	"photovault/internal/logging"

	"github.com/rwcarlsen/goexif/exif"
)

// Fields holds the embedded tags extracted from a media file. Every field is
// optional; a file without EXIF data yields the zero value with Orientation 1.
type Fields struct {
	TakenAt      *time.Time
	Latitude     *float64
	Longitude    *float64
	CameraMake   *string
	CameraModel  *string
	LensModel    *string
	Aperture     *float64
	ISO          *int
	ShutterSpeed *float64
	FocalLength  *float64
	Orientation  int
}

// Extract parses embedded EXIF tags from the original file bytes.
// Parse failures are expected (many files carry no tags) and produce an
// empty Fields value, never an error.
func Extract(data []byte) (f Fields) {
	f.Orientation = 1

	// goexif can panic on corrupt TIFF structures
	defer func() {
		if r := recover(); r != nil {
			logging.Debug("EXIF parse panic recovered: %v", r)
			f = Fields{Orientation: 1}
		}
	}()

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		logging.Debug("No EXIF data: %v", err)
		return f
	}

	if t, err := x.DateTime(); err == nil {
		f.TakenAt = &t
	}

	if lat, long, err := x.LatLong(); err == nil {
		f.Latitude = &lat
		f.Longitude = &long
	}

	if s, ok := stringTag(x, exif.Make); ok {
		f.CameraMake = &s
	}
	if s, ok := stringTag(x, exif.Model); ok {
		f.CameraModel = &s
	}
	if s, ok := stringTag(x, exif.LensModel); ok {
		f.LensModel = &s
	}

	if v, ok := ratioTag(x, exif.FNumber); ok {
		f.Aperture = &v
	}
	if v, ok := ratioTag(x, exif.ExposureTime); ok {
		f.ShutterSpeed = &v
	}
	if v, ok := ratioTag(x, exif.FocalLength); ok {
		f.FocalLength = &v
	}

	if tag, err := x.Get(exif.ISOSpeedRatings); err == nil {
		if iso, err := tag.Int(0); err == nil {
			f.ISO = &iso
		}
	}

	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil && o >= 1 && o <= 8 {
			f.Orientation = o
		}
	}

	return f
}

func stringTag(x *exif.Exif, name exif.FieldName) (string, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return "", false
	}
	s, err := tag.StringVal()
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func ratioTag(x *exif.Exif, name exif.FieldName) (float64, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, false
	}
	return float64(num) / float64(den), true
}
