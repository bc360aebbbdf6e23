// Package dataset parses and validates the static YAML objectives source.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/models"
)

// DateLayout is the calendar date format used in the source file.
const DateLayout = "2006-01-02"

// Dataset is a validated, ordered set of members, objectives and KPIs.
type Dataset struct {
	Members    []models.Member
	Objectives []models.Objective
	KPIs       []models.KPI
}

// Warning describes a record that loaded but will render degraded.
type Warning struct {
	ObjectiveID int
	Message     string
}

func (w Warning) String() string {
	return fmt.Sprintf("objective %d: %s", w.ObjectiveID, w.Message)
}

type options struct {
	strict bool
}

// Option configures Parse.
type Option func(*options)

// Strict rejects objectives whose progress lies outside 0..100 instead of
// reporting a warning.
func Strict(on bool) Option {
	return func(o *options) {
		o.strict = on
	}
}

type document struct {
	Members    []rawMember    `yaml:"members"`
	Objectives []rawObjective `yaml:"objectives"`
	KPIs       []rawKPI       `yaml:"kpis"`
}

type rawMember struct {
	ID     int    `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Role   string `yaml:"role" json:"role"`
	Avatar string `yaml:"avatar" json:"avatar"`
	Team   string `yaml:"team" json:"team"`
}

func (m *rawMember) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.ID, validation.Required, validation.Min(1)),
		validation.Field(&m.Name, validation.Required),
	)
}

type rawKPI struct {
	ID       int     `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	Value    float64 `yaml:"value" json:"value"`
	Target   float64 `yaml:"target" json:"target"`
	Unit     string  `yaml:"unit" json:"unit"`
	Trend    string  `yaml:"trend" json:"trend"`
	Category string  `yaml:"category" json:"category"`
}

func (k *rawKPI) Validate() error {
	return validation.ValidateStruct(k,
		validation.Field(&k.ID, validation.Required, validation.Min(1)),
		validation.Field(&k.Name, validation.Required),
		validation.Field(&k.Trend, validation.Required, validation.In(stringsOf(models.Trends)...)),
	)
}

type rawObjective struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	DueDate     string `yaml:"due_date" json:"due_date"`
	Progress    int    `yaml:"progress" json:"progress"`
	Responsible int    `yaml:"responsible" json:"responsible"`
	Status      string `yaml:"status" json:"status"`
	Tier        string `yaml:"tier" json:"tier"`
	ParentID    *int   `yaml:"parent_id" json:"parent_id"`
	Team        string `yaml:"team" json:"team"`
}

func (o *rawObjective) validate(strict bool) error {
	return validation.ValidateStruct(o,
		validation.Field(&o.ID, validation.Required, validation.Min(1)),
		validation.Field(&o.Title, validation.Required),
		validation.Field(&o.DueDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&o.Progress, validation.When(strict, validation.Min(0), validation.Max(100))),
		validation.Field(&o.Status, validation.Required, validation.In(stringsOf(models.Statuses)...)),
		validation.Field(&o.Tier, validation.Required, validation.In(stringsOf(models.Tiers)...)),
	)
}

// Parse decodes a YAML dataset and validates it. Record-level problems are
// collected and returned together, wrapped in apperr.ErrInvalidData; a
// cyclic parent chain is reported as apperr.ErrCycle.
func Parse(data []byte, opts ...Option) (*Dataset, []Warning, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("dataset: decode: %w: %v", apperr.ErrInvalidData, err)
	}

	var errs []error
	members := make([]models.Member, 0, len(doc.Members))
	memberIDs := make(map[int]struct{}, len(doc.Members))
	for i := range doc.Members {
		m := &doc.Members[i]
		if err := m.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("member[%d]: %w", i, err))
			continue
		}
		if _, dup := memberIDs[m.ID]; dup {
			errs = append(errs, fmt.Errorf("member[%d]: duplicate id %d", i, m.ID))
			continue
		}
		memberIDs[m.ID] = struct{}{}
		members = append(members, models.Member{
			ID:     m.ID,
			Name:   m.Name,
			Role:   m.Role,
			Avatar: m.Avatar,
			Team:   m.Team,
		})
	}

	objectives := make([]models.Objective, 0, len(doc.Objectives))
	objectiveIDs := make(map[int]struct{}, len(doc.Objectives))
	for i := range doc.Objectives {
		r := &doc.Objectives[i]
		if err := r.validate(o.strict); err != nil {
			errs = append(errs, fmt.Errorf("objective[%d]: %w", i, err))
			continue
		}
		if _, dup := objectiveIDs[r.ID]; dup {
			errs = append(errs, fmt.Errorf("objective[%d]: duplicate id %d", i, r.ID))
			continue
		}
		objectiveIDs[r.ID] = struct{}{}
		due, _ := time.Parse(DateLayout, r.DueDate) // checked by validation.Date
		objectives = append(objectives, models.Objective{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			DueDate:     due,
			Progress:    r.Progress,
			Responsible: r.Responsible,
			Status:      models.Status(r.Status),
			Tier:        models.Tier(r.Tier),
			ParentID:    r.ParentID,
			Team:        r.Team,
		})
	}

	kpis := make([]models.KPI, 0, len(doc.KPIs))
	kpiIDs := make(map[int]struct{}, len(doc.KPIs))
	for i := range doc.KPIs {
		k := &doc.KPIs[i]
		if err := k.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("kpi[%d]: %w", i, err))
			continue
		}
		if _, dup := kpiIDs[k.ID]; dup {
			errs = append(errs, fmt.Errorf("kpi[%d]: duplicate id %d", i, k.ID))
			continue
		}
		kpiIDs[k.ID] = struct{}{}
		kpis = append(kpis, models.KPI{
			ID:       k.ID,
			Name:     k.Name,
			Value:    k.Value,
			Target:   k.Target,
			Unit:     k.Unit,
			Trend:    models.Trend(k.Trend),
			Category: k.Category,
		})
	}

	if len(errs) > 0 {
		return nil, nil, fmt.Errorf("dataset: %w: %w", apperr.ErrInvalidData, errors.Join(errs...))
	}

	if cycle := FindCycle(objectives); cycle != nil {
		return nil, nil, fmt.Errorf("dataset: %w through objectives %v", apperr.ErrCycle, cycle)
	}

	var warnings []Warning
	for _, obj := range objectives {
		if obj.ParentID != nil {
			if _, ok := objectiveIDs[*obj.ParentID]; !ok {
				warnings = append(warnings, Warning{obj.ID, fmt.Sprintf("parent %d does not exist; objective is unreachable", *obj.ParentID)})
			}
		}
		if _, ok := memberIDs[obj.Responsible]; !ok {
			warnings = append(warnings, Warning{obj.ID, fmt.Sprintf("responsible member %d does not exist", obj.Responsible)})
		}
		if obj.Progress < 0 || obj.Progress > 100 {
			warnings = append(warnings, Warning{obj.ID, fmt.Sprintf("progress %d is outside 0..100", obj.Progress)})
		}
	}

	return &Dataset{Members: members, Objectives: objectives, KPIs: kpis}, warnings, nil
}

// FindCycle returns the objective ids forming the first parent cycle found,
// in parent-chain order, or nil when the hierarchy is a forest.
func FindCycle(objectives []models.Objective) []int {
	parent := make(map[int]int, len(objectives))
	for _, o := range objectives {
		if o.ParentID != nil {
			parent[o.ID] = *o.ParentID
		}
	}

	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[int]int, len(objectives))

	for _, o := range objectives {
		if state[o.ID] != unvisited {
			continue
		}
		var path []int
		id := o.ID
		for state[id] != done {
			if state[id] == onPath {
				for i, p := range path {
					if p == id {
						return append([]int(nil), path[i:]...)
					}
				}
			}
			state[id] = onPath
			path = append(path, id)
			next, ok := parent[id]
			if !ok {
				break
			}
			id = next
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}

func stringsOf[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
