package index

import (
	"log/slog"

	"github.com/starford/tiwaz/internal/store"
)

// Sync brings the mirror up to date with snap. It is a no-op when the
// mirrored checksum already matches.
func Sync(db ObjectiveIndex, snap *store.Snapshot, logger *slog.Logger) error {
	current, err := db.Checksum()
	if err != nil {
		return err
	}
	if current != "" && current == snap.Checksum() {
		logger.Debug("sync: index up to date", slog.String("checksum", current))
		return nil
	}
	if err := db.Replace(snap); err != nil {
		return err
	}
	logger.Info("sync: index rebuilt",
		slog.Int("objectives", len(snap.Objectives())),
		slog.Int("members", len(snap.Members())))
	return nil
}
