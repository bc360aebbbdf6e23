// Package storage defines where the static objectives dataset is read from.
package storage

import "github.com/starford/tiwaz/internal/models"

// Provider is the read-only interface over the data directory.
type Provider interface {
	// Stat returns metadata for the file at path (relative to the data root).
	Stat(path string) (models.FileMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the data root).
	Read(path string) ([]byte, error)
	// Root returns the absolute data directory, or "" when the provider
	// is not backed by the local file system.
	Root() string
}
