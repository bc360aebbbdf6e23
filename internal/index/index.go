package index

import "github.com/starford/tiwaz/internal/store"

// ObjectiveIndex defines the read/replace operations on the dataset mirror.
// Consumers depend on this interface rather than *DB.
type ObjectiveIndex interface {
	Replace(snap *store.Snapshot) error
	Checksum() (string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Stats() (Stats, error)
	Close() error
}

// Verify *DB satisfies ObjectiveIndex at compile time.
var _ ObjectiveIndex = (*DB)(nil)
