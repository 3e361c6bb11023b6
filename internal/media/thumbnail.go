package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os/exec"
	"time"

	"photovault/internal/logging"
	"photovault/internal/mediatypes"
	"photovault/internal/metrics"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultMaxSize clamps the longer side of generated thumbnails.
	DefaultMaxSize = 800
	// DefaultQuality is the JPEG quality for generated thumbnails.
	DefaultQuality = 80
)

// Thumbnailer produces bounded-dimension JPEG previews from normalized files.
type Thumbnailer struct {
	maxSize    int
	quality    int
	seekOffset time.Duration
}

// NewThumbnailer creates a Thumbnailer. maxSize and quality fall back to the
// defaults when zero; seekOffset is where video frames are sampled from.
func NewThumbnailer(maxSize, quality int, seekOffset time.Duration) *Thumbnailer {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if quality <= 0 {
		quality = DefaultQuality
	}
	return &Thumbnailer{
		maxSize:    maxSize,
		quality:    quality,
		seekOffset: seekOffset,
	}
}

// Generate produces thumbnail bytes for a normalized file. For images the
// source is decoded from nf.Data; for videos a single frame is extracted
// from nf.SourcePath first. Any failure is fatal for the file.
func (t *Thumbnailer) Generate(nf NormalizedFile) ([]byte, error) {
	start := time.Now()

	var img image.Image
	var err error

	switch nf.Kind {
	case mediatypes.KindImage:
		img, err = decodeImage(nf.Data)
	case mediatypes.KindVideo:
		img, err = t.extractVideoFrame(nf.SourcePath)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", nf.Kind)
	}

	if err != nil {
		metrics.ThumbnailsTotal.WithLabelValues(string(nf.Kind), "error").Inc()
		return nil, fmt.Errorf("thumbnail generation failed for %s: %w", nf.Name, err)
	}

	thumb := imaging.Fit(img, t.maxSize, t.maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: t.quality}); err != nil {
		metrics.ThumbnailsTotal.WithLabelValues(string(nf.Kind), "error").Inc()
		return nil, fmt.Errorf("failed to encode thumbnail for %s: %w", nf.Name, err)
	}

	metrics.ThumbnailsTotal.WithLabelValues(string(nf.Kind), "success").Inc()
	metrics.ThumbnailDuration.WithLabelValues(string(nf.Kind)).Observe(time.Since(start).Seconds())
	logging.Debug("Thumbnail generated for %s: %dx%d, %d bytes in %v",
		nf.Name, thumb.Bounds().Dx(), thumb.Bounds().Dy(), buf.Len(), time.Since(start))

	return buf.Bytes(), nil
}

// decodeImage decodes image bytes, trying imaging (with auto-orientation)
// first and falling back to the registered stdlib decoders.
func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}

	logging.Debug("imaging.Decode failed: %v, trying standard decode", err)

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("all image decode methods failed: %w", err)
	}
	logging.Debug("Decoded image format: %s", format)
	return img, nil
}

// extractVideoFrame decodes a single frame from a video file at the
// configured seek offset using ffmpeg. An empty output (seek past the end of
// the media) is an error.
func (t *Thumbnailer) extractVideoFrame(sourcePath string) (image.Image, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}
	logging.Debug("Extracting video frame from %s (offset: %v)", sourcePath, t.seekOffset)

	args := []string{
		"-ss", fmt.Sprintf("%.3f", t.seekOffset.Seconds()),
		"-i", sourcePath,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}

	cmd := exec.Command(ffmpegPath, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("no frame at offset %v in %s", t.seekOffset, sourcePath)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}

	return img, nil
}
