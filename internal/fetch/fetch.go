// Package fetch streams a single remote resource to a local file without
// ever holding the whole payload in memory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"dialogprep/internal/logging"
)

// DefaultChunkSize is the streaming copy buffer size.
const DefaultChunkSize = 8 * 1024

// NetworkError reports a failed primary fetch: transport failure, timeout,
// or a non-success HTTP status. The destination file is left in whatever
// partial state it reached; cleanup is the caller's responsibility.
type NetworkError struct {
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Progress receives byte counts during a download. total is -1 when the
// server did not declare a content length.
type Progress func(done, total int64)

// Fetcher downloads remote resources. The zero value is not usable;
// construct with New.
type Fetcher struct {
	HTTPClient *http.Client
	ChunkSize  int
	Progress   Progress
}

// New returns a Fetcher whose requests time out after the given duration.
// progress may be nil.
func New(timeout time.Duration, progress Progress) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{Timeout: timeout},
		ChunkSize:  DefaultChunkSize,
		Progress:   progress,
	}
}

// Fetch streams url to dest. On any failure it returns a *NetworkError and
// leaves dest partially written.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	logger := logging.New("fetch")
	logger.Info("download starting", "url", url, "dest", dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &NetworkError{URL: url, Err: fmt.Errorf("new request: %w", err)}
	}

	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{URL: url, StatusCode: resp.StatusCode}
	}

	out, err := os.Create(dest)
	if err != nil {
		return &NetworkError{URL: url, Err: fmt.Errorf("create %s: %w", dest, err)}
	}
	defer out.Close()

	total := resp.ContentLength // -1 when the server omits it
	chunk := f.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	var done int64
	buf := make([]byte, chunk)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return &NetworkError{URL: url, Err: fmt.Errorf("write %s: %w", dest, werr)}
			}
			done += int64(n)
			if f.Progress != nil {
				f.Progress(done, total)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return &NetworkError{URL: url, Err: fmt.Errorf("read body: %w", rerr)}
		}
	}

	if err := out.Sync(); err != nil {
		return &NetworkError{URL: url, Err: fmt.Errorf("sync %s: %w", dest, err)}
	}

	logger.Info("download finished", "url", url, "bytes", done)
	return nil
}
