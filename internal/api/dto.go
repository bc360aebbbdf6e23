package api

import (
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/objectiveservice"
	"github.com/starford/tiwaz/internal/tree"
)

// ObjectiveItem is one objective in a list (aliased from the domain layer).
type ObjectiveItem = objectiveservice.ObjectiveItem

// ObjectiveDetail is the full objective response (aliased from the domain layer).
type ObjectiveDetail = objectiveservice.ObjectiveDetail

// Stats is the aggregate response (aliased from the domain layer).
type Stats = objectiveservice.Stats

// ObjectiveListResponse wraps objective listings.
type ObjectiveListResponse struct {
	Objectives []ObjectiveItem `json:"objectives" validate:"required"`
	Total      int             `json:"total" example:"8" validate:"required"`
}

// KPIItem is one KPI with its attainment (aliased from the domain layer).
type KPIItem = objectiveservice.KPIItem

// KPIListResponse wraps KPI listings.
type KPIListResponse struct {
	KPIs  []KPIItem `json:"kpis" validate:"required"`
	Total int       `json:"total" example:"4" validate:"required"`
}

// MemberListResponse wraps member listings.
type MemberListResponse struct {
	Members []models.Member `json:"members" validate:"required"`
}

// TreeResponse is the rendered top-level view.
type TreeResponse struct {
	Open    []int       `json:"open" validate:"required"`
	Visible int         `json:"visible" example:"4"`
	Nodes   []tree.Node `json:"nodes" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []objectiveservice.SearchResult `json:"results" validate:"required"`
}
