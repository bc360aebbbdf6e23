package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/objectiveservice"
	"github.com/starford/tiwaz/internal/tree"
)

// Handler holds API route handlers.
type Handler struct {
	svc *objectiveservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *objectiveservice.Service) *Handler {
	return &Handler{svc: svc}
}

// objectiveID parses the positive {id} URL parameter of objective and KPI routes.
func objectiveID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ListObjectives handles GET /api/objectives.
//
//	@Summary		List objectives in source order
//	@Tags			objectives
//	@Produce		json
//	@Param			tier	query		string	false	"Filter by tier"	Enums(company, department, individual)
//	@Param			status	query		string	false	"Filter by status"	Enums(in_progress, complete, late)
//	@Success		200		{object}	ObjectiveListResponse
//	@Failure		400		{object}	errResponse
//	@Router			/objectives [get]
func (h *Handler) ListObjectives(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := objectiveservice.Filter{
		Tier:   models.Tier(q.Get("tier")),
		Status: models.Status(q.Get("status")),
	}
	if f.Tier != "" && !validTier(f.Tier) {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown tier"))
		return
	}
	if f.Status != "" && !validStatus(f.Status) {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown status"))
		return
	}
	items := h.svc.ListObjectives(r.Context(), f)
	writeJSON(w, http.StatusOK, ObjectiveListResponse{Objectives: items, Total: len(items)})
}

// GetObjective handles GET /api/objectives/{id}.
//
//	@Summary		Get a single objective with its responsible, children and ancestors
//	@Tags			objectives
//	@Produce		json
//	@Param			id	path		int	true	"Objective id"
//	@Success		200	{object}	ObjectiveDetail
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Router			/objectives/{id} [get]
func (h *Handler) GetObjective(w http.ResponseWriter, r *http.Request) {
	id, ok := objectiveID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("id must be a positive integer"))
		return
	}
	detail, err := h.svc.GetObjective(r.Context(), id)
	if err != nil {
		h.writeError(w, "get objective failed", id, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Children handles GET /api/objectives/{id}/children.
//
//	@Summary		List the direct children of an objective
//	@Tags			objectives
//	@Produce		json
//	@Param			id	path		int	true	"Objective id"
//	@Success		200	{object}	ObjectiveListResponse
//	@Failure		404	{object}	errResponse
//	@Router			/objectives/{id}/children [get]
func (h *Handler) Children(w http.ResponseWriter, r *http.Request) {
	id, ok := objectiveID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("id must be a positive integer"))
		return
	}
	items, err := h.svc.Children(r.Context(), id)
	if err != nil {
		h.writeError(w, "list children failed", id, err)
		return
	}
	writeJSON(w, http.StatusOK, ObjectiveListResponse{Objectives: items, Total: len(items)})
}

// Members handles GET /api/members.
//
//	@Summary		List members
//	@Tags			members
//	@Produce		json
//	@Success		200	{object}	MemberListResponse
//	@Router			/members [get]
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MemberListResponse{Members: h.svc.Members(r.Context())})
}

// ListKPIs handles GET /api/kpis.
//
//	@Summary		List KPIs with attainment against target
//	@Tags			kpis
//	@Produce		json
//	@Param			category	query		string	false	"Filter by category"
//	@Success		200			{object}	KPIListResponse
//	@Router			/kpis [get]
func (h *Handler) ListKPIs(w http.ResponseWriter, r *http.Request) {
	items := h.svc.ListKPIs(r.Context(), r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, KPIListResponse{KPIs: items, Total: len(items)})
}

// GetKPI handles GET /api/kpis/{id}.
//
//	@Summary		Get a single KPI
//	@Tags			kpis
//	@Produce		json
//	@Param			id	path		int	true	"KPI id"
//	@Success		200	{object}	KPIItem
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Router			/kpis/{id} [get]
func (h *Handler) GetKPI(w http.ResponseWriter, r *http.Request) {
	id, ok := objectiveID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("id must be a positive integer"))
		return
	}
	kpi, err := h.svc.GetKPI(r.Context(), id)
	if err != nil {
		h.writeError(w, "get kpi failed", id, err)
		return
	}
	writeJSON(w, http.StatusOK, kpi)
}

// Tree handles GET /api/tree.
//
//	@Summary		Render the top-level view
//	@Tags			tree
//	@Produce		json
//	@Param			open	query		string	false	"Comma-separated expanded objective ids"
//	@Success		200		{object}	TreeResponse
//	@Failure		400		{object}	errResponse
//	@Router			/tree [get]
func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	expanded, err := tree.ParseExpanded(r.URL.Query().Get("open"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	nodes := h.svc.Tree(r.Context(), expanded)
	writeJSON(w, http.StatusOK, TreeResponse{
		Open:    expanded.IDs(),
		Visible: len(tree.Flatten(nodes)),
		Nodes:   nodes,
	})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across objectives
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Stats handles GET /api/stats.
//
//	@Summary		Objective counts by status and tier
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	Stats
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) writeError(w http.ResponseWriter, msg string, id int, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	slog.Error(msg, slog.Int("id", id), slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

func validTier(t models.Tier) bool {
	for _, known := range models.Tiers {
		if t == known {
			return true
		}
	}
	return false
}

func validStatus(s models.Status) bool {
	for _, known := range models.Statuses {
		if s == known {
			return true
		}
	}
	return false
}
