// Package hub acquires the dataset from a hosted-dataset rows API when the
// primary archive download is unavailable, remapping the source's split
// names onto the canonical layout.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dialogprep/internal/logging"
)

// SplitMap remaps source partition names to canonical split names. The
// source calls the development partition "validation"; the canonical
// layout calls it "dev".
var SplitMap = map[string]string{
	"train":      "train",
	"validation": "dev",
	"test":       "test",
}

// sourceSplits fixes the fetch order so logs and partial failures are
// deterministic.
var sourceSplits = []string{"train", "validation", "test"}

// FallbackFileName is the single dialogue file each split is written to.
const FallbackFileName = "dialogues_001.json"

const pageSize = 100

// FallbackError reports a failed fallback acquisition. There is no further
// fallback beyond this adapter, so it is always fatal.
type FallbackError struct {
	Split string // source split name, empty for non-split failures
	Err   error
}

func (e *FallbackError) Error() string {
	if e.Split != "" {
		return fmt.Sprintf("fallback split %q: %v", e.Split, e.Err)
	}
	return fmt.Sprintf("fallback: %v", e.Err)
}

func (e *FallbackError) Unwrap() error { return e.Err }

// Config holds hosted-dataset API settings.
type Config struct {
	BaseURL    string // e.g. https://datasets-server.huggingface.co
	Dataset    string // e.g. multi_woz_v22
	ConfigName string // e.g. v2.2
}

// Client fetches dataset partitions from the rows API.
type Client struct {
	HTTPClient *http.Client
	Config     Config
}

// NewClient returns a client with the given config and timeout.
func NewClient(cfg Config, timeout time.Duration) *Client {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		Config:     cfg,
	}
}

// rowsPage is the slice of a rows API response this adapter inspects;
// record contents stay opaque.
type rowsPage struct {
	Rows []struct {
		Row json.RawMessage `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

// FetchDataset retrieves all three partitions and materializes them as
// canonical split directories under targetDir, one JSON array file per
// split. Any retrieval or serialization failure is fatal.
func (c *Client) FetchDataset(ctx context.Context, targetDir string) error {
	logger := logging.New("fallback")
	logger.Info("fallback acquisition starting",
		"dataset", c.Config.Dataset, "target", targetDir)

	for _, src := range sourceSplits {
		canonical := SplitMap[src]

		records, err := c.fetchSplit(ctx, src)
		if err != nil {
			return &FallbackError{Split: src, Err: err}
		}
		if records == nil {
			// An empty partition still serializes as a JSON array.
			records = []json.RawMessage{}
		}

		dir := filepath.Join(targetDir, canonical)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &FallbackError{Split: src, Err: fmt.Errorf("create split dir: %w", err)}
		}

		data, err := json.Marshal(records)
		if err != nil {
			return &FallbackError{Split: src, Err: fmt.Errorf("marshal records: %w", err)}
		}

		path := filepath.Join(dir, FallbackFileName)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return &FallbackError{Split: src, Err: fmt.Errorf("write %s: %w", path, err)}
		}

		logger.Info("split written", "source", src, "split", canonical, "records", len(records))
	}

	logger.Info("fallback acquisition finished")
	return nil
}

// fetchSplit pages through one partition and returns its records in order.
func (c *Client) fetchSplit(ctx context.Context, split string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	offset := 0
	for {
		page, err := c.fetchPage(ctx, split, offset)
		if err != nil {
			return nil, err
		}
		for _, r := range page.Rows {
			all = append(all, r.Row)
		}
		offset += len(page.Rows)
		if len(page.Rows) < pageSize || offset >= page.NumRowsTotal {
			break
		}
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, split string, offset int) (*rowsPage, error) {
	q := url.Values{}
	q.Set("dataset", c.Config.Dataset)
	if c.Config.ConfigName != "" {
		q.Set("config", c.Config.ConfigName)
	}
	q.Set("split", split)
	q.Set("offset", fmt.Sprintf("%d", offset))
	q.Set("length", fmt.Sprintf("%d", pageSize))
	u := fmt.Sprintf("%s/rows?%s", c.Config.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rows %s: %s", resp.Status, string(body))
	}

	var page rowsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return &page, nil
}
