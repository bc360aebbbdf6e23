package storage

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/starford/tiwaz/internal/checksum"
	"github.com/starford/tiwaz/internal/models"
)

// SampleFile is the dataset file name inside the embedded sample.
const SampleFile = "objectives.yaml"

//go:embed sample
var sampleFS embed.FS

// Embedded implements Provider over a read-only fs.FS.
type Embedded struct {
	fsys fs.FS
}

// NewEmbedded wraps fsys. Paths are slash-separated and relative to its root.
func NewEmbedded(fsys fs.FS) *Embedded {
	return &Embedded{fsys: fsys}
}

// Sample returns the provider for the dataset compiled into the binary.
func Sample() *Embedded {
	sub, err := fs.Sub(sampleFS, "sample")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return NewEmbedded(sub)
}

// Root is empty: embedded data never changes and cannot be watched.
func (e *Embedded) Root() string {
	return ""
}

// Read returns the raw bytes of an embedded file.
func (e *Embedded) Read(p string) ([]byte, error) {
	if !fs.ValidPath(p) {
		return nil, fmt.Errorf("storage: invalid path: %s", p)
	}
	data, err := fs.ReadFile(e.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", p, err)
	}
	return data, nil
}

// Stat returns size and checksum of an embedded file.
func (e *Embedded) Stat(p string) (models.FileMetadata, error) {
	data, err := e.Read(path.Clean(p))
	if err != nil {
		return models.FileMetadata{}, err
	}
	return models.FileMetadata{
		Path:     p,
		Checksum: checksum.Sum(data),
		Size:     int64(len(data)),
	}, nil
}
