package vfs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFS reads and writes the real vault on disk. The app only starts the
// settings watcher when it runs over an OSFS.
type OSFS struct{}

// NewOSFS returns the disk-backed VFS used by the opennotes binary.
func NewOSFS() *OSFS {
	return &OSFS{}
}

var _ VFS = (*OSFS)(nil)

func (f *OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *OSFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

// Stat follows symlinks, so a linked note resolves to its target.
func (f *OSFS) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return NewFileInfo(path, info.Name(), info.Size(), info.Mode(), info.ModTime(), info.IsDir()), nil
}

func (f *OSFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (f *OSFS) Join(elem ...string) string { return filepath.Join(elem...) }

func (f *OSFS) Dir(path string) string { return filepath.Dir(path) }

func (f *OSFS) Clean(path string) string { return filepath.Clean(path) }

// Exists treats any stat error, including permission denied, as absent.
func (f *OSFS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
