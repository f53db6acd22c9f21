// Package acquire sequences the acquisition pipeline: cache check, primary
// archive download, normalization, and the hard fallback to the hosted
// dataset source.
package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dialogprep/internal/archive"
	"dialogprep/internal/config"
	"dialogprep/internal/dataset"
	"dialogprep/internal/fetch"
	"dialogprep/internal/hub"
	"dialogprep/internal/logging"
)

// Outcome classifies how an acquisition call produced its dataset root.
// Fatal failures are returned as errors, not outcomes.
type Outcome int

const (
	// OutcomeCacheHit means the target already held a valid split layout
	// and no network access occurred.
	OutcomeCacheHit Outcome = iota
	// OutcomePrimaryFetched means the archive path (download or staged
	// archive plus extraction) produced the dataset.
	OutcomePrimaryFetched
	// OutcomeFallbackUsed means the primary fetch failed and the hosted
	// dataset source produced the dataset.
	OutcomeFallbackUsed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCacheHit:
		return "cache-hit"
	case OutcomePrimaryFetched:
		return "primary-fetched"
	case OutcomeFallbackUsed:
		return "fallback-used"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is what a successful acquisition returns: the dataset root and
// the path taken to produce it.
type Result struct {
	Root    string
	Outcome Outcome
}

// Fetcher downloads one remote resource to a local file.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}

// Fallback materializes the dataset from the alternate hosted source.
type Fallback interface {
	FetchDataset(ctx context.Context, targetDir string) error
}

// Acquirer owns the acquisition policy. Component fields exist as seams;
// New wires the real implementations.
type Acquirer struct {
	Settings config.Settings
	Fetcher  Fetcher
	Fallback Fallback
	Extract  func(archivePath, targetDir string) error
}

// New returns an Acquirer using the real fetcher, hub client, and archive
// extractor. progress may be nil.
func New(settings config.Settings, progress fetch.Progress) *Acquirer {
	f := fetch.New(settings.Timeout(), progress)
	if settings.ChunkSize > 0 {
		f.ChunkSize = settings.ChunkSize
	}
	return &Acquirer{
		Settings: settings,
		Fetcher:  f,
		Fallback: hub.NewClient(hub.Config{
			BaseURL:    settings.HubBaseURL,
			Dataset:    settings.HubDataset,
			ConfigName: settings.HubConfig,
		}, settings.Timeout()),
		Extract: archive.Extract,
	}
}

// ArchivePath returns where the staged archive lives: next to the dataset
// root, so an interrupted run can resume extraction without re-downloading.
func (a *Acquirer) ArchivePath() string {
	root := a.Settings.DataDir
	return filepath.Join(filepath.Dir(root), a.Settings.ArchiveName)
}

// Acquire returns a dataset root holding the canonical split layout, or a
// fatal error (*archive.ExtractError or *hub.FallbackError). Repeated calls
// against an already-valid root perform no network access.
func (a *Acquirer) Acquire(ctx context.Context) (*Result, error) {
	logger := logging.New("acquire")
	root := a.Settings.DataDir

	if dataset.IsValid(root) {
		logger.Info("dataset already present, skipping acquisition", "root", root)
		return &Result{Root: root, Outcome: OutcomeCacheHit}, nil
	}

	archivePath := a.ArchivePath()
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
			return nil, fmt.Errorf("create staging dir: %w", err)
		}

		if err := a.Fetcher.Fetch(ctx, a.Settings.ArchiveURL, archivePath); err != nil {
			// Hard fallback: the partially staged archive is left
			// alone and the hub result is returned as-is.
			logger.Warn("primary fetch failed, switching to fallback source", "error", err)
			if ferr := a.Fallback.FetchDataset(ctx, root); ferr != nil {
				return nil, ferr
			}
			return &Result{Root: root, Outcome: OutcomeFallbackUsed}, nil
		}
	} else {
		logger.Info("using staged archive from a previous run", "archive", archivePath)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset root: %w", err)
	}

	// Extraction failure is fatal; no fallback once an archive is staged.
	if err := a.Extract(archivePath, root); err != nil {
		return nil, err
	}

	if err := os.Remove(archivePath); err != nil {
		logger.Warn("could not remove staged archive", "archive", archivePath, "error", err)
	} else {
		logger.Info("staged archive removed", "archive", archivePath)
	}

	return &Result{Root: root, Outcome: OutcomePrimaryFetched}, nil
}
