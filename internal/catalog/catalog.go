package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"photovault/internal/logging"
	"photovault/internal/metrics"
)

// Record holds the non-embedding metadata persisted for one ingested file.
// Field names match the metadata store's wire contract; optional fields are
// nullable and serialize as JSON null when absent.
type Record struct {
	Path         string     `json:"path"`
	Name         string     `json:"name"`
	TakenAt      *time.Time `json:"taken_at"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	City         *string    `json:"city"`
	State        *string    `json:"state"`
	Country      *string    `json:"country"`
	CameraMake   *string    `json:"camera_make"`
	CameraModel  *string    `json:"camera_model"`
	LensModel    *string    `json:"lens_model"`
	Aperture     *float64   `json:"aperture"`
	ISO          *int       `json:"iso"`
	ShutterSpeed *float64   `json:"shutter_speed"`
	FocalLength  *float64   `json:"focal_length"`
	Orientation  int        `json:"orientation"`
}

// Client talks to the metadata store over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a metadata store client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CheckExisting returns, for each of the given destination paths, whether a
// record already exists in the metadata store. Makes a single remote call;
// an empty input short-circuits locally.
func (c *Client) CheckExisting(ctx context.Context, paths []string) (map[string]bool, error) {
	if len(paths) == 0 {
		return map[string]bool{}, nil
	}

	start := time.Now()
	reqBody := struct {
		Paths []string `json:"paths"`
	}{Paths: paths}

	var resp map[string]json.RawMessage
	if err := c.post(ctx, "/batch-existence", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("batch existence check failed: %w", err)
	}

	existing := make(map[string]bool, len(paths))
	for _, p := range paths {
		raw, ok := resp[p]
		existing[p] = ok && string(raw) != "null"
	}

	metrics.RemoteCallDuration.WithLabelValues("catalog", "batch_existence").Observe(time.Since(start).Seconds())
	logging.Debug("Existence check: %d paths in %v", len(paths), time.Since(start))
	return existing, nil
}

// UpsertRecords batch-inserts metadata records, idempotent on path, and
// returns the store-generated id for every path passed (newly inserted or
// pre-existing).
func (c *Client) UpsertRecords(ctx context.Context, records []Record) (map[string]int64, error) {
	if len(records) == 0 {
		return map[string]int64{}, nil
	}

	start := time.Now()
	reqBody := struct {
		Records []Record `json:"records"`
	}{Records: records}

	var resp struct {
		PathToID map[string]int64 `json:"pathToId"`
	}
	if err := c.post(ctx, "/metadata", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("metadata upsert failed: %w", err)
	}

	for _, r := range records {
		if _, ok := resp.PathToID[r.Path]; !ok {
			return nil, fmt.Errorf("metadata store returned no id for %s", r.Path)
		}
	}

	metrics.RemoteCallDuration.WithLabelValues("catalog", "upsert").Observe(time.Since(start).Seconds())
	logging.Debug("Upserted %d records in %v", len(records), time.Since(start))
	return resp.PathToID, nil
}

// ListPaths returns the destination paths of every record in the store.
// Used by the backfill tool to skip already-cataloged objects.
func (c *Client) ListPaths(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metadata", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var resp struct {
		Rows []struct {
			Path string `json:"path"`
		} `json:"rows"`
	}
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("metadata listing failed: %w", err)
	}

	paths := make([]string, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		paths = append(paths, row.Path)
	}
	return paths, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("metadata store returned %s: %s", resp.Status, string(snippet))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
