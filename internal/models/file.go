package models

import "time"

// FileMetadata describes a file in the data directory.
type FileMetadata struct {
	Path     string    `json:"path"`
	Checksum string    `json:"checksum"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
}
