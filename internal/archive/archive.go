// Package archive extracts the dataset zip and normalizes its on-disk
// layout to the canonical split structure.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"

	"dialogprep/internal/logging"
)

// WrapperDir is the extraneous top-level directory some archive layouts
// wrap the split directories in. Its contents are lifted into the target
// root after extraction.
const WrapperDir = "data"

// ExtractError reports a corrupt or unreadable archive. The target
// directory is left in a partially-extracted state.
type ExtractError struct {
	Archive string
	Err     error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Archive, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// Extract unpacks archivePath into targetDir and flattens a single
// WrapperDir level if the archive produced one. Existing files are
// overwritten during extraction; flattening never overwrites (see
// flattenWrapper).
func Extract(archivePath, targetDir string) error {
	logger := logging.New("archive")
	logger.Info("extraction starting", "archive", archivePath, "target", targetDir)

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return &ExtractError{Archive: archivePath, Err: err}
	}
	defer r.Close()

	// Decode Deflate entries with the klauspost implementation.
	r.RegisterDecompressor(zip.Deflate, func(in io.Reader) io.ReadCloser {
		return flate.NewReader(in)
	})

	for _, f := range r.File {
		if err := extractEntry(f, targetDir); err != nil {
			return &ExtractError{Archive: archivePath, Err: err}
		}
	}

	if err := flattenWrapper(targetDir, logger); err != nil {
		return &ExtractError{Archive: archivePath, Err: err}
	}

	logger.Info("extraction finished", "entries", len(r.File))
	return nil
}

func extractEntry(f *zip.File, targetDir string) error {
	dest := filepath.Join(targetDir, filepath.FromSlash(f.Name))

	// Reject entries that escape the target directory.
	if rel, err := filepath.Rel(targetDir, dest); err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("entry %q escapes target directory", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create dir for %q: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %q: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %q: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("write %q: %w", dest, err)
	}
	return nil
}

// flattenWrapper lifts the contents of targetDir/WrapperDir up into
// targetDir and removes the emptied wrapper. Entries whose name already
// exists at the destination are skipped with a warning; the pre-existing
// file wins.
func flattenWrapper(targetDir string, logger *slog.Logger) error {
	wrapper := filepath.Join(targetDir, WrapperDir)
	info, err := os.Stat(wrapper)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat wrapper: %w", err)
	}
	if !info.IsDir() {
		return nil
	}

	entries, err := os.ReadDir(wrapper)
	if err != nil {
		return fmt.Errorf("read wrapper: %w", err)
	}

	moved := 0
	for _, e := range entries {
		src := filepath.Join(wrapper, e.Name())
		dst := filepath.Join(targetDir, e.Name())

		if _, err := os.Stat(dst); err == nil {
			logger.Warn("flatten collision, keeping existing entry", "name", e.Name())
			continue
		}

		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("move %q: %w", e.Name(), err)
		}
		moved++
	}

	// Remove the wrapper only once emptied; skipped collisions keep it.
	if rest, err := os.ReadDir(wrapper); err == nil && len(rest) == 0 {
		if err := os.Remove(wrapper); err != nil {
			return fmt.Errorf("remove wrapper: %w", err)
		}
	}

	logger.Info("wrapper flattened", "moved", moved)
	return nil
}
