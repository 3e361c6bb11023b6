package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"photovault/internal/logging"
	"photovault/internal/mediatypes"

	"github.com/davidbyttow/govips/v2/vips"
)

// legacyJpegQuality is the quality used when re-encoding legacy containers.
const legacyJpegQuality = 90

// NormalizedFile is the output of format normalization: the bytes that will
// be uploaded as the original, under their final destination path.
type NormalizedFile struct {
	// Name is the file name after any extension rename.
	Name string
	// DestPath is the destination key after any extension rename.
	DestPath string
	// SourcePath is the local path of the source file, when it has one.
	// Frame extraction for videos reads from here instead of Data.
	SourcePath string
	// Data holds the (possibly re-encoded) file bytes.
	Data []byte
	// MimeType is the content type of Data.
	MimeType string
	// Kind is the post-normalization kind; legacy images become KindImage.
	Kind mediatypes.Kind
}

// Normalize converts legacy image containers (HEIC/HEIF) into JPEG, renaming
// the extension accordingly. Already-displayable images and videos pass
// through unchanged. Conversion failure is fatal for the file.
func Normalize(name, destPath, sourcePath string, kind mediatypes.Kind, data []byte) (NormalizedFile, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch kind {
	case mediatypes.KindLegacyImage:
		jpegData, err := convertToJpeg(data)
		if err != nil {
			return NormalizedFile{}, fmt.Errorf("failed to convert %s: %w", name, err)
		}
		logging.Debug("Converted %s to JPEG (%d -> %d bytes)", name, len(data), len(jpegData))
		return NormalizedFile{
			Name:       mediatypes.NormalizedName(name),
			DestPath:   mediatypes.NormalizedPath(destPath),
			SourcePath: sourcePath,
			Data:       jpegData,
			MimeType:   "image/jpeg",
			Kind:       mediatypes.KindImage,
		}, nil

	case mediatypes.KindImage, mediatypes.KindVideo:
		return NormalizedFile{
			Name:       name,
			DestPath:   destPath,
			SourcePath: sourcePath,
			Data:       data,
			MimeType:   mediatypes.MimeType(ext),
			Kind:       kind,
		}, nil

	default:
		return NormalizedFile{}, fmt.Errorf("unsupported file type for %s", name)
	}
}

// convertToJpeg decodes a legacy container with libvips and re-encodes JPEG.
func convertToJpeg(data []byte) ([]byte, error) {
	if !IsVipsAvailable() {
		return nil, fmt.Errorf("libvips not available")
	}

	ref, err := vips.LoadImageFromBuffer(data, vips.NewImportParams())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	jpegData, _, err := ref.ExportJpeg(&vips.JpegExportParams{
		Quality:        legacyJpegQuality,
		OptimizeCoding: true,
	})
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	return jpegData, nil
}
