// Package snapshot reads relational browser history stores through a
// private point-in-time copy, so a store the browser holds locked can still
// be queried.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ilexum-group/webtrail/internal/sources"
	"github.com/ilexum-group/webtrail/internal/utils"
)

// sidecars are the SQLite companion files that may hold uncheckpointed data
var sidecars = []string{"-wal", "-journal"}

// Snapshot is a private copy of a data file. Close removes it.
type Snapshot struct {
	Path  string
	files []string
}

// Acquire copies src (and any sidecar files next to it) into tempDir under
// a unique name. The caller must Close the returned snapshot.
func Acquire(fs sources.FileAccessor, src, tempDir string) (*Snapshot, error) {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	dst := filepath.Join(tempDir, fmt.Sprintf("webtrail-%s-%s", utils.GenerateRandomID(), filepath.Base(src)))
	snap := &Snapshot{Path: dst}

	if err := copyFile(fs, src, dst); err != nil {
		snap.files = append(snap.files, dst)
		_ = snap.Close()
		return nil, err
	}
	snap.files = append(snap.files, dst)

	for _, suffix := range sidecars {
		if _, err := fs.Stat(src + suffix); err != nil {
			continue
		}
		snap.files = append(snap.files, dst+suffix)
		if err := copyFile(fs, src+suffix, dst+suffix); err != nil {
			_ = snap.Close()
			return nil, err
		}
	}

	return snap, nil
}

// Close deletes the copy and every file SQLite may have created next to it.
// It is safe to call more than once.
func (s *Snapshot) Close() error {
	var errs []error
	files := append(s.files, s.Path+"-shm")
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	s.files = nil
	return errors.Join(errs...)
}

// copyFile copies a file from src to dst
func copyFile(fs sources.FileAccessor, src, dst string) error {
	sourceFile, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if err := sourceFile.Close(); err != nil {
			utils.LogDebug("Failed to close source file", map[string]string{"error": err.Error()})
		}
	}()

	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // G304: dst is generated under the temp dir
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		return err
	}
	return destFile.Close()
}
