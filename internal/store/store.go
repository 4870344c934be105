// Package store holds SettingsStore implementations.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/dshills/opennotes/internal/host"
	"github.com/dshills/opennotes/internal/vfs"
)

// FileStore keeps the settings document in a single JSON file.
type FileStore struct {
	mu   sync.Mutex
	fs   vfs.VFS
	path string
}

// NewFileStore creates a store for the file at path.
func NewFileStore(fsys vfs.VFS, path string) *FileStore {
	return &FileStore{fs: fsys, path: path}
}

var _ host.SettingsStore = (*FileStore)(nil)

// Path returns the settings file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the settings file. A missing file is not an error.
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading settings %s: %w", s.path, err)
	}
	return data, nil
}

// Save writes the settings file, creating its directory if needed.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(s.fs.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	if err := s.fs.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing settings %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore keeps the settings document in memory and records every
// save.
type MemoryStore struct {
	mu    sync.Mutex
	data  []byte
	saves [][]byte

	// SaveErr, when set, is returned by Save.
	SaveErr error
}

// NewMemoryStore creates a store holding data; nil means nothing stored.
func NewMemoryStore(data []byte) *MemoryStore {
	return &MemoryStore{data: copyBytes(data)}
}

var _ host.SettingsStore = (*MemoryStore)(nil)

// Load returns the stored document.
func (s *MemoryStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyBytes(s.data), nil
}

// Save records and stores data.
func (s *MemoryStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.data = copyBytes(data)
	s.saves = append(s.saves, copyBytes(data))
	return nil
}

// Saves returns every document saved so far, oldest first.
func (s *MemoryStore) Saves() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]byte, len(s.saves))
	for i, d := range s.saves {
		out[i] = copyBytes(d)
	}
	return out
}

// Data returns the current document.
func (s *MemoryStore) Data() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyBytes(s.data)
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
