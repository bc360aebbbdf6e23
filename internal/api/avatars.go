package api

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tiwaz/internal/storage"
)

const avatarDir = "avatars"

// AvatarHandler serves member avatar images from the data provider.
type AvatarHandler struct {
	provider storage.Provider
}

// NewAvatarHandler creates a handler reading from provider's avatars dir.
func NewAvatarHandler(provider storage.Provider) *AvatarHandler {
	return &AvatarHandler{provider: provider}
}

// safeName validates that the filename is a plain name (no separators, no
// traversal) and returns its path relative to the provider root.
func safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := path.Clean(name)
	if cleaned != path.Base(cleaned) || strings.ContainsAny(cleaned, `/\`) || strings.HasPrefix(cleaned, ".") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	return path.Join(avatarDir, cleaned), nil
}

// ServeFile handles GET /avatars/{filename}.
func (h *AvatarHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	rel, err := safeName(chi.URLParam(r, "filename"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := h.provider.Read(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "read failed", http.StatusInternalServerError)
		return
	}
	var modTime time.Time
	if meta, err := h.provider.Stat(rel); err == nil {
		modTime = meta.ModTime
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, rel, modTime, bytes.NewReader(data))
}
