// Package vfs provides the file system abstraction the vault resolver,
// workspace and settings store read and write through.
//
// OSFS is used by the standalone host; MemFS backs tests.
package vfs

import (
	"io/fs"
	"time"
)

// VFS is the set of file operations the notes host needs: reading the
// settings document and config files, writing settings back, and checking
// that a shortcut's target exists in the vault.
type VFS interface {
	// ReadFile returns the whole file, e.g. the settings JSON.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file's contents. Callers create the parent
	// directory first with MkdirAll.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Stat describes path; the resolver uses it to reject directories.
	Stat(path string) (FileInfo, error)

	// MkdirAll ensures a directory chain exists, such as <vault>/.opennotes.
	MkdirAll(path string, perm fs.FileMode) error

	// Join builds a path in the file system's own separator style.
	Join(elem ...string) string

	// Dir strips the last element of path.
	Dir(path string) string

	// Clean normalises path before it is compared or stored.
	Clean(path string) string

	// Exists reports whether anything is present at path.
	Exists(path string) bool
}

// FileInfo is the subset of stat data the host inspects.
type FileInfo struct {
	path    string
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

// NewFileInfo is used by VFS implementations to build Stat results.
func NewFileInfo(path, name string, size int64, mode fs.FileMode, modTime time.Time, isDir bool) FileInfo {
	return FileInfo{
		path:    path,
		name:    name,
		size:    size,
		mode:    mode,
		modTime: modTime,
		isDir:   isDir,
	}
}

// Path returns the full path.
func (fi FileInfo) Path() string { return fi.path }

// Name returns the base name.
func (fi FileInfo) Name() string { return fi.name }

// Size returns the file size in bytes.
func (fi FileInfo) Size() int64 { return fi.size }

// Mode returns the file mode.
func (fi FileInfo) Mode() fs.FileMode { return fi.mode }

// ModTime returns the modification time.
func (fi FileInfo) ModTime() time.Time { return fi.modTime }

// IsDir returns true if this is a directory.
func (fi FileInfo) IsDir() bool { return fi.isDir }
