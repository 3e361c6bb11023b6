package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"photovault/internal/logging"
	"photovault/internal/metrics"
)

// Client talks to the vector store over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a vector store client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// StoreEmbeddings batch-inserts embedding vectors keyed by metadata record id
// in a single remote call. An empty input short-circuits locally.
func (c *Client) StoreEmbeddings(ctx context.Context, embeddings map[int64][]float32) error {
	if len(embeddings) == 0 {
		return nil
	}

	start := time.Now()

	// JSON object keys are strings; ids are serialized as their decimal form.
	keyed := make(map[string][]float32, len(embeddings))
	for id, vec := range embeddings {
		keyed[strconv.FormatInt(id, 10)] = vec
	}

	payload, err := json.Marshal(struct {
		Embeddings map[string][]float32 `json:"embeddings"`
	}{Embeddings: keyed})
	if err != nil {
		return fmt.Errorf("failed to encode embeddings: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("embedding store call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("vector store returned %s: %s", resp.Status, string(snippet))
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("vector store rejected the batch")
	}

	metrics.RemoteCallDuration.WithLabelValues("vectorstore", "store").Observe(time.Since(start).Seconds())
	logging.Debug("Stored %d embeddings in %v", len(embeddings), time.Since(start))
	return nil
}
