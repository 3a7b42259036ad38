package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/muicebot/plugin-index/internal/logger"
)

// ErrCorruptRegistry is returned when the registry file exists but cannot be
// parsed. Nothing is written in that case.
var ErrCorruptRegistry = errors.New("corrupt registry")

// FileName is the conventional name of the registry document
const FileName = "plugins.json"

// Store reads and writes a registry document on a filesystem.
// It assumes a single writer; there is no locking.
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore returns a store for the registry document at path
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the location of the registry document
func (s *Store) Path() string {
	return s.path
}

// Load reads the registry document. A missing document yields an empty
// registry. An unparseable one yields an error wrapping ErrCorruptRegistry.
func (s *Store) Load(_ context.Context) (*Registry, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warnf("Registry %s does not exist, starting from an empty registry", s.path)
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read registry %s: %w", s.path, err)
	}

	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrCorruptRegistry, s.path, err)
	}

	logger.Debugf("Loaded registry %s with %d entries", s.path, reg.Len())
	return reg, nil
}

// Save replaces the registry document with reg. The document is written to
// a temporary file next to it and renamed into place.
func (s *Store) Save(_ context.Context, reg *Registry) error {
	data, err := reg.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create registry directory %s: %w", dir, err)
		}
	}

	tempPath := s.path + ".tmp"
	//nolint:gosec // The registry is committed to the repository and must be world readable
	if err := afero.WriteFile(s.fs, tempPath, data, 0644); err != nil {
		_ = s.fs.Remove(tempPath)
		return fmt.Errorf("failed to write temporary registry file %s: %w", tempPath, err)
	}

	if err := s.fs.Rename(tempPath, s.path); err != nil {
		_ = s.fs.Remove(tempPath)
		return fmt.Errorf("failed to replace registry %s: %w", s.path, err)
	}

	return nil
}

// Upsert loads the registry, stores entry under key and saves the result.
// Any existing entry for key is replaced. On error the document on disk is
// unchanged and no registry is returned.
func (s *Store) Upsert(ctx context.Context, key string, entry Entry) (*Registry, error) {
	if key == "" {
		return nil, fmt.Errorf("registry key cannot be empty")
	}

	reg, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	updated := reg.Clone()
	if _, exists := updated.Get(key); exists {
		logger.Infof("Updating existing registry entry %q", key)
	} else {
		logger.Infof("Adding registry entry %q", key)
	}
	updated.Set(key, entry)

	if err := s.Save(ctx, updated); err != nil {
		return nil, err
	}

	return updated, nil
}
