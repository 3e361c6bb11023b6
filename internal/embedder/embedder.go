package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"photovault/internal/logging"
	"photovault/internal/metrics"
)

// DefaultDimension is the expected embedding vector length (CLIP ViT-B/32).
const DefaultDimension = 512

// Client talks to the external content-embedding service.
type Client struct {
	baseURL    string
	dimension  int
	httpClient *http.Client
}

// NewClient creates an embedding service client. dimension is the expected
// vector length; 0 disables the check.
func NewClient(baseURL string, dimension int) *Client {
	return &Client{
		baseURL:   baseURL,
		dimension: dimension,
		httpClient: &http.Client{
			// Model inference on a busy GPU can take a while
			Timeout: 2 * time.Minute,
		},
	}
}

// EmbedImage sends thumbnail bytes to the embedding service and returns the
// visual embedding vector. Failure is fatal for the file being processed.
func (c *Client) EmbedImage(ctx context.Context, jpegData []byte) ([]float32, error) {
	start := time.Now()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(jpegData); err != nil {
		return nil, fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed/image", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	vec, err := c.send(req)
	if err != nil {
		metrics.EmbeddingsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.EmbeddingsTotal.WithLabelValues("success").Inc()
	metrics.RemoteCallDuration.WithLabelValues("embedder", "image").Observe(time.Since(start).Seconds())
	logging.Debug("Embedded image (%d bytes -> %d dims) in %v", len(jpegData), len(vec), time.Since(start))
	return vec, nil
}

// EmbedText returns the embedding vector for a text query. Used by search
// surfaces to compare queries against stored image vectors.
func (c *Client) EmbedText(ctx context.Context, content string) ([]float32, error) {
	payload, err := json.Marshal(struct {
		Content string `json:"content"`
	}{Content: content})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed/text", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req)
}

func (c *Client) send(req *http.Request) ([]float32, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding service call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("embedding service returned %s: %s", resp.Status, string(snippet))
	}

	var result struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Embedding) == 0 {
		return nil, fmt.Errorf("embedding service returned an empty vector")
	}
	if c.dimension > 0 && len(result.Embedding) != c.dimension {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(result.Embedding), c.dimension)
	}

	return result.Embedding, nil
}
