package sources

import (
	"io/fs"
	"os"
)

// FileAccessor abstracts read access to browser data files so callers can
// point the pipeline at a fixture tree.
type FileAccessor interface {
	ReadFile(path string) ([]byte, error)
	Open(path string) (*os.File, error)
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
}

type hostFileAccessor struct{}

// HostFS returns a FileAccessor backed by the local filesystem
func HostFS() FileAccessor {
	return hostFileAccessor{}
}

//nolint:gosec // G304: paths come from the source registry
func (hostFileAccessor) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

//nolint:gosec // G304: paths come from the source registry
func (hostFileAccessor) Open(path string) (*os.File, error) {
	return os.Open(path)
}

func (hostFileAccessor) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (hostFileAccessor) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}
