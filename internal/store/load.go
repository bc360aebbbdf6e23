package store

import (
	"fmt"
	"log/slog"

	"github.com/starford/tiwaz/internal/checksum"
	"github.com/starford/tiwaz/internal/dataset"
	"github.com/starford/tiwaz/internal/storage"
)

// Reload outcomes reported to watcher callbacks.
const (
	KindReloaded  = "reloaded"
	KindRejected  = "rejected"
	KindUnchanged = "unchanged"
)

// Loader reads and validates the dataset file from a storage provider.
type Loader struct {
	Provider storage.Provider
	File     string
	Strict   bool
	Logger   *slog.Logger
}

// Load builds a fresh snapshot from the provider. Warnings are logged and
// also returned so callers such as "tiwaz check" can print them.
func (l *Loader) Load() (*Snapshot, []dataset.Warning, error) {
	data, err := l.Provider.Read(l.File)
	if err != nil {
		return nil, nil, fmt.Errorf("store: load: %w", err)
	}
	ds, warnings, err := dataset.Parse(data, dataset.Strict(l.Strict))
	if err != nil {
		return nil, nil, fmt.Errorf("store: load %s: %w", l.File, err)
	}
	for _, w := range warnings {
		l.logger().Warn("dataset warning",
			slog.String("file", l.File),
			slog.Int("objective_id", w.ObjectiveID),
			slog.String("warning", w.Message))
	}
	return NewSnapshot(ds, checksum.Sum(data)), warnings, nil
}

// ReloadEvent describes the outcome of Reload.
type ReloadEvent struct {
	Kind     string
	Checksum string
	Err      error
}

// Reload re-reads the dataset and swaps it into st when its content changed.
// A dataset that fails validation leaves the current snapshot in place.
func (l *Loader) Reload(st *Store) ReloadEvent {
	meta, err := l.Provider.Stat(l.File)
	if err != nil {
		l.logger().Warn("reload: stat failed", slog.String("file", l.File), slog.String("error", err.Error()))
		return ReloadEvent{Kind: KindRejected, Err: err}
	}
	if meta.Checksum == st.Snapshot().Checksum() {
		return ReloadEvent{Kind: KindUnchanged, Checksum: meta.Checksum}
	}
	snap, _, err := l.Load()
	if err != nil {
		l.logger().Warn("reload: dataset rejected", slog.String("file", l.File), slog.String("error", err.Error()))
		return ReloadEvent{Kind: KindRejected, Checksum: meta.Checksum, Err: err}
	}
	st.Swap(snap)
	l.logger().Info("reload: dataset swapped",
		slog.String("file", l.File),
		slog.Int("objectives", len(snap.Objectives())),
		slog.Int("members", len(snap.Members())))
	return ReloadEvent{Kind: KindReloaded, Checksum: snap.Checksum()}
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}
