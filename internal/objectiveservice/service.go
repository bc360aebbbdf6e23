// Package objectiveservice is the read façade over the objective store and
// the optional search index, shared by the JSON API, the HTML dashboard and
// the MCP server.
package objectiveservice

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/dataset"
	"github.com/starford/tiwaz/internal/index"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/store"
	"github.com/starford/tiwaz/internal/tree"
)

// DefaultSearchLimit caps search results when the caller passes no limit.
const DefaultSearchLimit = 20

// ObjectiveItem is one objective in a list response.
type ObjectiveItem struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     string        `json:"due_date"`
	Progress    int           `json:"progress"`
	Responsible int           `json:"responsible"`
	Status      models.Status `json:"status"`
	Tier        models.Tier   `json:"tier"`
	ParentID    *int          `json:"parent_id"`
	Team        string        `json:"team,omitempty"`
}

// ObjectiveDetail is the full representation of an objective.
type ObjectiveDetail struct {
	ObjectiveItem
	ResponsibleName string          `json:"responsible_name"`
	StatusTone      tree.Tone       `json:"status_tone"`
	ChildIDs        []int           `json:"child_ids"`
	Ancestors       []ObjectiveItem `json:"ancestors"`
}

// KPIItem is a KPI with its attainment against target, in percent.
type KPIItem struct {
	models.KPI
	Attainment float64 `json:"attainment"`
}

// Filter narrows ListObjectives. Empty fields match everything.
type Filter struct {
	Tier   models.Tier
	Status models.Status
}

// Stats is re-exported so callers need not import the index package.
type Stats = index.Stats

// SearchResult is re-exported so callers need not import the index package.
type SearchResult = index.SearchResult

// Service answers read queries against the current snapshot.
type Service struct {
	store *store.Store
	db    index.ObjectiveIndex
}

// NewService creates a service. db may be nil, in which case search and
// stats are computed in memory.
func NewService(st *store.Store, db index.ObjectiveIndex) *Service {
	return &Service{store: st, db: db}
}

// Snapshot returns the snapshot requests should render from.
func (s *Service) Snapshot() *store.Snapshot {
	return s.store.Snapshot()
}

// Checksum identifies the current dataset version.
func (s *Service) Checksum() string {
	return s.store.Snapshot().Checksum()
}

// ListObjectives returns objectives in source order, optionally filtered.
func (s *Service) ListObjectives(_ context.Context, f Filter) []ObjectiveItem {
	items := []ObjectiveItem{}
	for _, o := range s.store.Snapshot().Objectives() {
		if f.Tier != "" && o.Tier != f.Tier {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		items = append(items, toItem(o))
	}
	return items
}

// GetObjective returns the detail view of id or apperr.ErrNotFound.
func (s *Service) GetObjective(_ context.Context, id int) (*ObjectiveDetail, error) {
	snap := s.store.Snapshot()
	o, ok := snap.Objective(id)
	if !ok {
		return nil, fmt.Errorf("objective %d: %w", id, apperr.ErrNotFound)
	}
	childIDs := []int{}
	for _, c := range snap.Children(id) {
		childIDs = append(childIDs, c.ID)
	}
	ancestors := []ObjectiveItem{}
	for _, a := range snap.Ancestors(id) {
		ancestors = append(ancestors, toItem(a))
	}
	return &ObjectiveDetail{
		ObjectiveItem:   toItem(o),
		ResponsibleName: tree.NewRenderer(snap).ResolveResponsible(o.Responsible),
		StatusTone:      tree.StatusTone(o.Status),
		ChildIDs:        childIDs,
		Ancestors:       ancestors,
	}, nil
}

// Children returns the direct children of id in source order.
func (s *Service) Children(_ context.Context, id int) ([]ObjectiveItem, error) {
	snap := s.store.Snapshot()
	if _, ok := snap.Objective(id); !ok {
		return nil, fmt.Errorf("objective %d: %w", id, apperr.ErrNotFound)
	}
	items := []ObjectiveItem{}
	for _, c := range snap.Children(id) {
		items = append(items, toItem(c))
	}
	return items, nil
}

// Members returns all members in source order.
func (s *Service) Members(_ context.Context) []models.Member {
	return s.store.Snapshot().Members()
}

// ResolveResponsible returns the member name for id or the fallback label.
func (s *Service) ResolveResponsible(_ context.Context, memberID int) string {
	return tree.NewRenderer(s.store.Snapshot()).ResolveResponsible(memberID)
}

// ListKPIs returns KPIs in source order. A non-empty category keeps only
// KPIs in that category, compared case-insensitively.
func (s *Service) ListKPIs(_ context.Context, category string) []KPIItem {
	items := []KPIItem{}
	for _, k := range s.store.Snapshot().KPIs() {
		if category != "" && !strings.EqualFold(k.Category, category) {
			continue
		}
		items = append(items, toKPIItem(k))
	}
	return items
}

// GetKPI returns the KPI with id or apperr.ErrNotFound.
func (s *Service) GetKPI(_ context.Context, id int) (*KPIItem, error) {
	k, ok := s.store.Snapshot().KPI(id)
	if !ok {
		return nil, fmt.Errorf("kpi %d: %w", id, apperr.ErrNotFound)
	}
	item := toKPIItem(k)
	return &item, nil
}

// Tree renders the top-level view with the given nodes expanded.
func (s *Service) Tree(_ context.Context, expanded tree.Expanded) []tree.Node {
	return tree.NewRenderer(s.store.Snapshot(), tree.WithExpanded(expanded)).TopLevelView()
}

// ExpandAll returns the expanded set that opens every node with children.
func (s *Service) ExpandAll(_ context.Context) tree.Expanded {
	return tree.ExpandAll(s.store.Snapshot())
}

// Search finds objectives whose text matches query.
func (s *Service) Search(_ context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if s.db != nil {
		results, err := s.db.Search(query, limit)
		if err != nil {
			return nil, err
		}
		return nonNilSlice(results), nil
	}

	snap := s.store.Snapshot()
	r := tree.NewRenderer(snap)
	q := strings.ToLower(query)
	out := []SearchResult{}
	for _, o := range snap.Objectives() {
		if len(out) == limit {
			break
		}
		if !containsFold(q, o.Title, o.Description, o.Team, r.ResolveResponsible(o.Responsible)) {
			continue
		}
		out = append(out, SearchResult{ID: o.ID, Title: o.Title, Tier: string(o.Tier), Snippet: truncate(o.Description, 200)})
	}
	return out, nil
}

// Stats counts objectives by status and tier.
func (s *Service) Stats(_ context.Context) (Stats, error) {
	if s.db != nil {
		return s.db.Stats()
	}
	st := Stats{ByStatus: map[string]int{}, ByTier: map[string]int{}}
	sum := 0
	for _, o := range s.store.Snapshot().Objectives() {
		st.Total++
		st.ByStatus[string(o.Status)]++
		st.ByTier[string(o.Tier)]++
		sum += o.Progress
	}
	if st.Total > 0 {
		st.AverageProgress = float64(sum) / float64(st.Total)
	}
	return st, nil
}

func toItem(o models.Objective) ObjectiveItem {
	return ObjectiveItem{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		DueDate:     o.DueDate.Format(dataset.DateLayout),
		Progress:    o.Progress,
		Responsible: o.Responsible,
		Status:      o.Status,
		Tier:        o.Tier,
		ParentID:    o.ParentID,
		Team:        o.Team,
	}
}

func toKPIItem(k models.KPI) KPIItem {
	return KPIItem{KPI: k, Attainment: math.Round(k.Attainment()*10) / 10}
}

func containsFold(lowerQuery string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerQuery) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
