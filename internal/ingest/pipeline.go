package ingest

import (
	"context"
	"fmt"
	"os"

	"photovault/internal/catalog"
	"photovault/internal/exifdata"
	"photovault/internal/logging"
	"photovault/internal/media"
	"photovault/internal/walker"
)

// Embedder produces a vector for a rendered thumbnail.
type Embedder interface {
	EmbedImage(ctx context.Context, jpegData []byte) ([]float32, error)
}

// Thumbnailer renders a preview JPEG for a normalized file.
type Thumbnailer interface {
	Generate(nf media.NormalizedFile) ([]byte, error)
}

// ProcessedFile is the complete output of the per-file pipeline, ready for
// persistence.
type ProcessedFile struct {
	File      media.NormalizedFile
	Thumbnail []byte
	Record    catalog.Record
	Embedding []float32
}

// Processor runs the per-file stages: read, normalize, thumbnail, metadata
// extraction, embedding. Any stage error except metadata extraction fails
// the file; a file with unreadable metadata still ingests with empty camera
// fields.
type Processor struct {
	thumbnailer Thumbnailer
	embedder    Embedder
}

// NewProcessor creates a Processor over the given thumbnailer and embedder.
func NewProcessor(t Thumbnailer, e Embedder) *Processor {
	return &Processor{thumbnailer: t, embedder: e}
}

// Process runs the full pipeline for one walked candidate, reading its bytes
// from the local filesystem.
func (p *Processor) Process(ctx context.Context, c walker.Candidate) (*ProcessedFile, error) {
	data, err := os.ReadFile(c.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.SourcePath, err)
	}
	return p.ProcessData(ctx, c, data)
}

// ProcessData runs the pipeline for a candidate whose bytes are already in
// memory. Metadata is extracted from the original bytes, before any format
// conversion, because conversion strips camera tags.
func (p *Processor) ProcessData(ctx context.Context, c walker.Candidate, data []byte) (*ProcessedFile, error) {
	nf, err := media.Normalize(c.Name, c.DestPath, c.SourcePath, c.Kind, data)
	if err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", c.Name, err)
	}

	fields := exifdata.Extract(data)

	thumb, err := p.thumbnailer.Generate(nf)
	if err != nil {
		return nil, fmt.Errorf("thumbnail for %s: %w", nf.Name, err)
	}

	vec, err := p.embedder.EmbedImage(ctx, thumb)
	if err != nil {
		return nil, fmt.Errorf("embedding %s: %w", nf.Name, err)
	}

	logging.Debug("processed %s -> %s (%d thumbnail bytes, %d-dim vector)",
		c.SourcePath, nf.DestPath, len(thumb), len(vec))

	return &ProcessedFile{
		File:      nf,
		Thumbnail: thumb,
		Record:    buildRecord(nf, fields),
		Embedding: vec,
	}, nil
}
