// Package tree derives the objectives hierarchy from parent references and
// renders it as nested view nodes with per-node expand/collapse state.
package tree

import (
	"strconv"
	"time"

	"github.com/starford/tiwaz/internal/models"
)

// FallbackResponsible is shown when an objective's responsible member does
// not exist.
const FallbackResponsible = "Unassigned"

// DefaultDateLayout formats due dates on cards.
const DefaultDateLayout = "Jan 2, 2006"

// Source is the read side of the objective store the renderer needs.
type Source interface {
	Objectives() []models.Objective
	Children(id int) []models.Objective
	Member(id int) (models.Member, bool)
}

// Tone is the colour semantics of a status badge.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneDanger  Tone = "danger"

	TonePrimary   Tone = "primary"
	ToneSecondary Tone = "secondary"
	ToneAccent    Tone = "accent"
	ToneNeutral   Tone = "neutral"
)

// StatusTone maps a status to its badge tone. Anything that is neither
// complete nor late reads as in progress.
func StatusTone(s models.Status) Tone {
	switch s {
	case models.StatusComplete:
		return ToneSuccess
	case models.StatusLate:
		return ToneDanger
	default:
		return ToneInfo
	}
}

// TierTone maps a tier to its badge tone; unknown tiers are neutral.
func TierTone(t models.Tier) Tone {
	switch t {
	case models.TierCompany:
		return TonePrimary
	case models.TierDepartment:
		return ToneSecondary
	case models.TierIndividual:
		return ToneAccent
	default:
		return ToneNeutral
	}
}

// Node is one rendered objective card. Children holds the rendered child
// cards and is empty unless the node is expanded.
type Node struct {
	ID            int           `json:"id"`
	Depth         int           `json:"depth"`
	Tier          models.Tier   `json:"tier"`
	TierLabel     string        `json:"tier_label"`
	TierTone      Tone          `json:"tier_tone"`
	Team          string        `json:"team,omitempty"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Status        models.Status `json:"status"`
	StatusLabel   string        `json:"status_label"`
	StatusTone    Tone          `json:"status_tone"`
	DueDate       time.Time     `json:"due_date"`
	DueLabel      string        `json:"due_label"`
	Responsible   string        `json:"responsible"`
	Progress      int           `json:"progress"`
	ProgressWidth string        `json:"progress_width"`
	HasChildren   bool          `json:"has_children"`
	ChildCount    int           `json:"child_count"`
	Expanded      bool          `json:"expanded"`
	Cyclic        bool          `json:"cyclic,omitempty"`
	Children      []Node        `json:"children,omitempty"`
}

// Renderer builds view nodes from a Source. It owns the expanded set; a
// Renderer is meant for a single view and is not safe for concurrent use.
type Renderer struct {
	src        Source
	expanded   Expanded
	dateLayout string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithExpanded seeds the expanded set.
func WithExpanded(e Expanded) Option {
	return func(r *Renderer) {
		r.expanded = e
	}
}

// WithDateLayout overrides DefaultDateLayout.
func WithDateLayout(layout string) Option {
	return func(r *Renderer) {
		if layout != "" {
			r.dateLayout = layout
		}
	}
}

// NewRenderer returns a renderer over src with every node collapsed.
func NewRenderer(src Source, opts ...Option) *Renderer {
	r := &Renderer{
		src:        src,
		expanded:   NewExpanded(),
		dateLayout: DefaultDateLayout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveResponsible returns the member's name, or FallbackResponsible.
func (r *Renderer) ResolveResponsible(memberID int) string {
	if m, ok := r.src.Member(memberID); ok {
		return m.Name
	}
	return FallbackResponsible
}

// ChildrenOf returns every objective whose parent is id, in source order.
func (r *Renderer) ChildrenOf(id int) []models.Objective {
	return r.src.Children(id)
}

// ToggleExpanded flips id's membership in the expanded set.
func (r *Renderer) ToggleExpanded(id int) {
	r.expanded = r.expanded.Toggle(id)
}

// Expanded returns the current expanded set.
func (r *Renderer) Expanded() Expanded {
	return r.expanded
}

// Render renders obj and, when it is expanded, its descendants at depth+1.
func (r *Renderer) Render(obj models.Objective, depth int) Node {
	return r.render(obj, depth, map[int]struct{}{})
}

func (r *Renderer) render(obj models.Objective, depth int, path map[int]struct{}) Node {
	children := r.ChildrenOf(obj.ID)
	n := Node{
		ID:            obj.ID,
		Depth:         depth,
		Tier:          obj.Tier,
		TierLabel:     obj.Tier.Label(),
		TierTone:      TierTone(obj.Tier),
		Team:          obj.Team,
		Title:         obj.Title,
		Description:   obj.Description,
		Status:        obj.Status,
		StatusLabel:   obj.Status.Label(),
		StatusTone:    StatusTone(obj.Status),
		DueDate:       obj.DueDate,
		DueLabel:      r.formatDate(obj.DueDate),
		Responsible:   r.ResolveResponsible(obj.Responsible),
		Progress:      obj.Progress,
		ProgressWidth: strconv.Itoa(obj.Progress) + "%",
		HasChildren:   len(children) > 0,
		ChildCount:    len(children),
		Expanded:      len(children) > 0 && r.expanded.Has(obj.ID),
	}
	if !n.Expanded {
		return n
	}

	path[obj.ID] = struct{}{}
	defer delete(path, obj.ID)

	n.Children = make([]Node, 0, len(children))
	for _, child := range children {
		if _, onPath := path[child.ID]; onPath {
			// The parent chain loops back; show the card once, unexpanded.
			n.Children = append(n.Children, Node{
				ID:     child.ID,
				Depth:  depth + 1,
				Title:  child.Title,
				Tier:   child.Tier,
				Cyclic: true,
			})
			continue
		}
		n.Children = append(n.Children, r.render(child, depth+1, path))
	}
	return n
}

// TopLevelView renders every company-tier objective at depth 0.
func (r *Renderer) TopLevelView() []Node {
	out := []Node{}
	for _, obj := range r.src.Objectives() {
		if obj.Tier == models.TierCompany {
			out = append(out, r.Render(obj, 0))
		}
	}
	return out
}

func (r *Renderer) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(r.dateLayout)
}

// ExpandAll returns the set of every objective id that has children.
func ExpandAll(src Source) Expanded {
	var ids []int
	for _, obj := range src.Objectives() {
		if len(src.Children(obj.ID)) > 0 {
			ids = append(ids, obj.ID)
		}
	}
	return NewExpanded(ids...)
}

// Flatten lists the visible nodes depth-first, parents before children.
// Children of the returned nodes are left in place.
func Flatten(nodes []Node) []Node {
	var out []Node
	var walk func([]Node)
	walk = func(ns []Node) {
		for _, n := range ns {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(nodes)
	return out
}
