// Package web serves the HTML objectives dashboard.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/starford/tiwaz/internal/objectiveservice"
	"github.com/starford/tiwaz/internal/tree"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler renders the dashboard from the current snapshot.
type Handler struct {
	svc  *objectiveservice.Service
	tmpl *template.Template
}

// NewHandler parses the embedded templates.
func NewHandler(svc *objectiveservice.Service) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return &Handler{svc: svc, tmpl: tmpl}, nil
}

// Dashboard handles GET /. The ?open= query holds the expanded ids.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	expanded, err := tree.ParseExpanded(r.URL.Query().Get("open"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := h.svc.Snapshot()
	page := Page{
		KPIs:     toKPITiles(h.svc.ListKPIs(r.Context(), "")),
		Cards:    toCards(h.svc.Tree(r.Context(), expanded), expanded),
		Open:     expanded.String(),
		Checksum: snap.Checksum(),
		LoadedAt: snap.LoadedAt().Format(time.RFC3339),
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "dashboard.html", page); err != nil {
		slog.Error("render dashboard failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
