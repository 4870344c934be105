// Package vault resolves vault-relative note paths to files on a VFS.
package vault

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dshills/opennotes/internal/host"
	"github.com/dshills/opennotes/internal/vfs"
)

// ErrOutsideVault is returned when a path escapes the vault root.
var ErrOutsideVault = errors.New("path outside vault")

// Resolver looks files up inside a vault directory.
type Resolver struct {
	fs   vfs.VFS
	root string
}

// NewResolver creates a resolver for the vault rooted at root.
func NewResolver(fsys vfs.VFS, root string) *Resolver {
	return &Resolver{fs: fsys, root: root}
}

var _ host.FileResolver = (*Resolver)(nil)

// Root returns the vault directory.
func (r *Resolver) Root() string {
	return r.root
}

// ResolveByPath returns the regular file at the vault-relative path.
// Empty paths, absolute paths, paths escaping the vault and directories
// resolve as absent.
func (r *Resolver) ResolveByPath(p string) (host.File, bool) {
	rel, err := Normalize(p)
	if err != nil {
		return host.File{}, false
	}

	info, err := r.fs.Stat(r.fs.Join(r.root, rel))
	if err != nil || info.IsDir() {
		return host.File{}, false
	}

	return host.File{
		Path:    rel,
		Name:    path.Base(rel),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, true
}

// Read returns the contents of a resolved file.
func (r *Resolver) Read(f host.File) ([]byte, error) {
	rel, err := Normalize(f.Path)
	if err != nil {
		return nil, err
	}
	data, err := r.fs.ReadFile(r.fs.Join(r.root, rel))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	return data, nil
}

// Normalize cleans a vault-relative path.
func Normalize(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty path")
	}

	p = strings.ReplaceAll(p, "\\", "/")
	if path.IsAbs(p) {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, p)
	}

	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideVault, p)
	}
	return clean, nil
}
