// Package store holds the in-memory, read-only objectives dataset.
package store

import (
	"sync/atomic"
	"time"

	"github.com/starford/tiwaz/internal/dataset"
	"github.com/starford/tiwaz/internal/models"
)

// Snapshot is one immutable loaded dataset together with its lookup indexes.
// All slices returned by a Snapshot are shared and must not be modified.
type Snapshot struct {
	objectives []models.Objective
	members    []models.Member
	kpis       []models.KPI

	objectiveByID map[int]int   // id -> position in objectives
	memberByID    map[int]int   // id -> position in members
	kpiByID       map[int]int
	children      map[int][]int // parent id -> child positions, in collection order

	checksum string
	loadedAt time.Time
}

// NewSnapshot indexes ds. The indexes are built once, in a single pass over
// each collection.
func NewSnapshot(ds *dataset.Dataset, sum string) *Snapshot {
	s := &Snapshot{
		checksum: sum,
		loadedAt: time.Now(),
	}
	if ds == nil {
		ds = &dataset.Dataset{}
	}
	s.objectives = ds.Objectives
	s.members = ds.Members
	s.kpis = ds.KPIs
	s.objectiveByID = make(map[int]int, len(s.objectives))
	s.memberByID = make(map[int]int, len(s.members))
	s.children = make(map[int][]int)

	for i, o := range s.objectives {
		s.objectiveByID[o.ID] = i
		if o.ParentID != nil {
			s.children[*o.ParentID] = append(s.children[*o.ParentID], i)
		}
	}
	for i, m := range s.members {
		s.memberByID[m.ID] = i
	}
	s.kpiByID = make(map[int]int, len(s.kpis))
	for i, k := range s.kpis {
		s.kpiByID[k.ID] = i
	}
	return s
}

// Objectives returns every objective in source order.
func (s *Snapshot) Objectives() []models.Objective {
	if s.objectives == nil {
		return []models.Objective{}
	}
	return s.objectives
}

// Members returns every member in source order.
func (s *Snapshot) Members() []models.Member {
	if s.members == nil {
		return []models.Member{}
	}
	return s.members
}

// KPIs returns every KPI in source order.
func (s *Snapshot) KPIs() []models.KPI {
	if s.kpis == nil {
		return []models.KPI{}
	}
	return s.kpis
}

// KPI looks up a KPI by id.
func (s *Snapshot) KPI(id int) (models.KPI, bool) {
	i, ok := s.kpiByID[id]
	if !ok {
		return models.KPI{}, false
	}
	return s.kpis[i], true
}

// Objective looks up an objective by id.
func (s *Snapshot) Objective(id int) (models.Objective, bool) {
	i, ok := s.objectiveByID[id]
	if !ok {
		return models.Objective{}, false
	}
	return s.objectives[i], true
}

// Member looks up a member by id.
func (s *Snapshot) Member(id int) (models.Member, bool) {
	i, ok := s.memberByID[id]
	if !ok {
		return models.Member{}, false
	}
	return s.members[i], true
}

// Children returns the objectives whose parent is id, in source order.
// The result is empty (never nil) when id is not used as a parent.
func (s *Snapshot) Children(id int) []models.Objective {
	positions := s.children[id]
	out := make([]models.Objective, len(positions))
	for i, p := range positions {
		out[i] = s.objectives[p]
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first. The walk stops
// at a dangling parent reference or when an id repeats.
func (s *Snapshot) Ancestors(id int) []models.Objective {
	var out []models.Objective
	seen := map[int]struct{}{id: {}}
	cur, ok := s.Objective(id)
	for ok && cur.ParentID != nil {
		if _, loop := seen[*cur.ParentID]; loop {
			break
		}
		seen[*cur.ParentID] = struct{}{}
		cur, ok = s.Objective(*cur.ParentID)
		if ok {
			out = append(out, cur)
		}
	}
	return out
}

// Checksum returns the digest of the source bytes this snapshot was built from.
func (s *Snapshot) Checksum() string {
	return s.checksum
}

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Store publishes the current snapshot. Readers take one snapshot per
// operation; reloads replace it wholesale.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// New returns a store serving snap. A nil snap serves an empty dataset.
func New(snap *Snapshot) *Store {
	if snap == nil {
		snap = NewSnapshot(nil, "")
	}
	st := &Store{}
	st.current.Store(snap)
	return st
}

// Snapshot returns the current snapshot.
func (st *Store) Snapshot() *Snapshot {
	return st.current.Load()
}

// Swap installs snap and returns the previous snapshot.
func (st *Store) Swap(snap *Snapshot) *Snapshot {
	return st.current.Swap(snap)
}
