package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tiwaz/internal/objectiveservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events outside the ETag group.
func NewRouter(svc *objectiveservice.Service, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(ETag(svc.Checksum))

		r.Get("/objectives", h.ListObjectives)
		r.Get("/objectives/{id}", h.GetObjective)
		r.Get("/objectives/{id}/children", h.Children)
		r.Get("/members", h.Members)
		r.Get("/kpis", h.ListKPIs)
		r.Get("/kpis/{id}", h.GetKPI)
		r.Get("/tree", h.Tree)
		r.Get("/search", h.Search)
		r.Get("/stats", h.Stats)
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
