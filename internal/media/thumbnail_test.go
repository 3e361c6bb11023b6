package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"photovault/internal/mediatypes"
)

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x % 256), A: 255})
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func decodeBounds(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestGenerateScalesDownLargeImages(t *testing.T) {
	tests := []struct {
		name       string
		srcW, srcH int
		maxSize    int
		wantW      int
		wantH      int
	}{
		{"Wide image bounded by width", 1600, 800, 800, 800, 400},
		{"Tall image bounded by height", 800, 1600, 800, 400, 800},
		{"Square image", 1000, 1000, 800, 800, 800},
		{"Custom max size", 1000, 500, 200, 200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewThumbnailer(tt.maxSize, 0, 0)
			thumb, err := gen.Generate(NormalizedFile{
				Name:     "test.jpg",
				Data:     encodeJPEG(t, tt.srcW, tt.srcH),
				MimeType: "image/jpeg",
				Kind:     mediatypes.KindImage,
			})
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}

			w, h := decodeBounds(t, thumb)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Thumbnail is %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestGenerateKeepsSmallImages(t *testing.T) {
	gen := NewThumbnailer(800, 80, 0)
	thumb, err := gen.Generate(NormalizedFile{
		Name: "small.jpg",
		Data: encodeJPEG(t, 100, 50),
		Kind: mediatypes.KindImage,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	w, h := decodeBounds(t, thumb)
	if w != 100 || h != 50 {
		t.Errorf("Thumbnail is %dx%d, want 100x50 (no upscaling)", w, h)
	}
}

func TestGeneratePNGSource(t *testing.T) {
	gen := NewThumbnailer(0, 0, 0)
	thumb, err := gen.Generate(NormalizedFile{
		Name: "shot.png",
		Data: encodePNG(t, 1200, 900),
		Kind: mediatypes.KindImage,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	w, h := decodeBounds(t, thumb)
	if w != 800 || h != 600 {
		t.Errorf("Thumbnail is %dx%d, want 800x600", w, h)
	}
}

func TestGenerateErrors(t *testing.T) {
	gen := NewThumbnailer(0, 0, time.Second)

	if _, err := gen.Generate(NormalizedFile{
		Name: "broken.jpg",
		Data: []byte("not an image"),
		Kind: mediatypes.KindImage,
	}); err == nil {
		t.Error("Expected error for undecodable image data")
	}

	if _, err := gen.Generate(NormalizedFile{
		Name: "weird.bin",
		Kind: mediatypes.KindOther,
	}); err == nil {
		t.Error("Expected error for unsupported kind")
	}
}

func TestNewThumbnailerDefaults(t *testing.T) {
	gen := NewThumbnailer(0, 0, 0)
	if gen.maxSize != DefaultMaxSize {
		t.Errorf("maxSize = %d, want %d", gen.maxSize, DefaultMaxSize)
	}
	if gen.quality != DefaultQuality {
		t.Errorf("quality = %d, want %d", gen.quality, DefaultQuality)
	}
}
