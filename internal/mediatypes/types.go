package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind classifies a source file for the ingestion pipeline.
type Kind string

const (
	// KindImage represents an image format that is displayable as-is.
	KindImage Kind = "image"
	// KindLegacyImage represents an image container (HEIC/HEIF) that must be
	// converted to JPEG before display or thumbnailing.
	KindLegacyImage Kind = "legacy-image"
	// KindVideo represents a video file; thumbnails come from frame extraction.
	KindVideo Kind = "video"
	// KindOther represents an unknown or unsupported file type.
	KindOther Kind = "other"
)

// ImageExtensions maps file extensions to whether they are directly displayable images.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

// LegacyImageExtensions maps file extensions of image containers that need
// conversion before they can be displayed in a browser.
var LegacyImageExtensions = map[string]bool{
	".heic": true,
	".heif": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",

	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
}

// KindOf returns the Kind for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns KindOther if the extension is not recognized.
func KindOf(ext string) Kind {
	if ImageExtensions[ext] {
		return KindImage
	}
	if LegacyImageExtensions[ext] {
		return KindLegacyImage
	}
	if VideoExtensions[ext] {
		return KindVideo
	}
	return KindOther
}

// KindOfPath returns the Kind for a file path or name.
func KindOfPath(path string) Kind {
	return KindOf(strings.ToLower(filepath.Ext(path)))
}

// MimeType returns the MIME type for a given file extension.
// Returns "application/octet-stream" if the extension is not recognized.
func MimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsMediaFile returns true if the extension represents a supported media file.
func IsMediaFile(ext string) bool {
	return KindOf(ext) != KindOther
}

// NormalizedName returns the file name a source will carry after format
// normalization: legacy image containers are renamed to .jpg, everything
// else keeps its name.
func NormalizedName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if LegacyImageExtensions[ext] {
		return strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}
	return name
}

// NormalizedPath applies NormalizedName to the final element of a
// slash-separated destination path.
func NormalizedPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return NormalizedName(path)
	}
	return path[:idx+1] + NormalizedName(path[idx+1:])
}
