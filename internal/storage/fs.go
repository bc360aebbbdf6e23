package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/tiwaz/internal/checksum"
	"github.com/starford/tiwaz/internal/models"
)

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the data directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute data directory.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves a relative path against the data root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("storage: path is required")
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes data root: %s", rel)
	}
	return abs, nil
}

// Read returns the raw bytes of a data file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Stat returns size and checksum of a data file.
func (f *FS) Stat(path string) (models.FileMetadata, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return models.FileMetadata{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return models.FileMetadata{}, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return models.FileMetadata{}, fmt.Errorf("storage: %s is a directory", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return models.FileMetadata{}, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return models.FileMetadata{
		Path:     path,
		Checksum: checksum.Sum(data),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}, nil
}
