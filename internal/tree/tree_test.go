package tree

import (
	"testing"
	"time"

	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/testutil"
)

// sliceSource scans the flat collection on every call.
type sliceSource struct {
	objectives []models.Objective
	members    []models.Member
}

func (s sliceSource) Objectives() []models.Objective { return s.objectives }

func (s sliceSource) Children(id int) []models.Objective {
	out := []models.Objective{}
	for _, o := range s.objectives {
		if o.ParentID != nil && *o.ParentID == id {
			out = append(out, o)
		}
	}
	return out
}

func (s sliceSource) Member(id int) (models.Member, bool) {
	for _, m := range s.members {
		if m.ID == id {
			return m, true
		}
	}
	return models.Member{}, false
}

func ref(id int) *int { return &id }

func chain() sliceSource {
	return sliceSource{
		objectives: []models.Objective{
			{ID: 1, Title: "one", Tier: models.TierCompany, Status: models.StatusInProgress, Responsible: 7},
			{ID: 2, Title: "two", Tier: models.TierDepartment, Status: models.StatusComplete, ParentID: ref(1), Team: "Sales"},
			{ID: 3, Title: "three", Tier: models.TierIndividual, Status: models.StatusLate, ParentID: ref(2), Responsible: 999},
		},
		members: []models.Member{{ID: 7, Name: "Grace Hopper"}},
	}
}

func visibleIDs(nodes []Node) []int {
	var out []int
	for _, n := range Flatten(nodes) {
		out = append(out, n.ID)
	}
	return out
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTopLevelView_ExpandStepByStep(t *testing.T) {
	r := NewRenderer(chain())

	view := r.TopLevelView()
	if got := visibleIDs(view); !sameInts(got, []int{1}) {
		t.Fatalf("initial view = %v, want [1]", got)
	}
	if !view[0].HasChildren || view[0].Expanded {
		t.Errorf("root should show a collapsed toggle: %+v", view[0])
	}

	r.ToggleExpanded(1)
	view = r.TopLevelView()
	if got := visibleIDs(view); !sameInts(got, []int{1, 2}) {
		t.Fatalf("after toggle(1) = %v, want [1 2]", got)
	}
	if view[0].Children[0].Depth != 1 {
		t.Errorf("child depth = %d, want 1", view[0].Children[0].Depth)
	}

	r.ToggleExpanded(2)
	view = r.TopLevelView()
	if got := visibleIDs(view); !sameInts(got, []int{1, 2, 3}) {
		t.Fatalf("after toggle(2) = %v, want [1 2 3]", got)
	}
	leaf := view[0].Children[0].Children[0]
	if leaf.Depth != 2 || leaf.HasChildren {
		t.Errorf("leaf = %+v", leaf)
	}
}

func TestExpandingGrandchildAloneKeepsItHidden(t *testing.T) {
	r := NewRenderer(chain(), WithExpanded(NewExpanded(2)))
	if got := visibleIDs(r.TopLevelView()); !sameInts(got, []int{1}) {
		t.Errorf("view = %v, want [1] while 1 is collapsed", got)
	}
}

func TestResolveResponsible(t *testing.T) {
	r := NewRenderer(chain())
	if got := r.ResolveResponsible(7); got != "Grace Hopper" {
		t.Errorf("ResolveResponsible(7) = %q", got)
	}
	for _, id := range []int{999, 0, -3} {
		if got := r.ResolveResponsible(id); got != FallbackResponsible {
			t.Errorf("ResolveResponsible(%d) = %q, want %q", id, got, FallbackResponsible)
		}
	}
}

func TestRender_MissingMemberUsesFallback(t *testing.T) {
	r := NewRenderer(chain())
	n := r.Render(chain().objectives[2], 0)
	if n.Responsible != "Unassigned" {
		t.Errorf("responsible = %q, want Unassigned", n.Responsible)
	}
}

func TestChildrenOf(t *testing.T) {
	r := NewRenderer(chain())
	if got := r.ChildrenOf(1); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("ChildrenOf(1) = %+v", got)
	}
	for _, id := range []int{3, 42} {
		if got := r.ChildrenOf(id); len(got) != 0 {
			t.Errorf("ChildrenOf(%d) = %+v, want empty", id, got)
		}
	}
}

func TestToggleTwiceRestoresSet(t *testing.T) {
	start := NewExpanded(4, 9)
	r := NewRenderer(chain(), WithExpanded(start))
	for _, id := range []int{1, 4, 100} {
		r.ToggleExpanded(id)
		r.ToggleExpanded(id)
		if !r.Expanded().Equal(start) {
			t.Errorf("double toggle of %d changed set to %v", id, r.Expanded())
		}
	}
}

func TestRender_CardFields(t *testing.T) {
	src := chain()
	src.objectives[1].DueDate = time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	src.objectives[1].Description = "desc"
	r := NewRenderer(src, WithDateLayout("2006-01-02"))

	n := r.Render(src.objectives[1], 3)
	if n.TierLabel != "Department" || n.TierTone != ToneSecondary || n.Team != "Sales" {
		t.Errorf("badges = %q (%s) / %q", n.TierLabel, n.TierTone, n.Team)
	}
	if n.StatusTone != ToneSuccess || n.StatusLabel != "complete" {
		t.Errorf("status = %s / %s", n.StatusTone, n.StatusLabel)
	}
	if n.DueLabel != "2025-03-09" {
		t.Errorf("due = %q", n.DueLabel)
	}
	if n.Depth != 3 || n.Description != "desc" {
		t.Errorf("node = %+v", n)
	}
	if n.Responsible != FallbackResponsible {
		t.Errorf("responsible = %q", n.Responsible)
	}
}

func TestStatusTone(t *testing.T) {
	tests := []struct {
		status models.Status
		want   Tone
	}{
		{models.StatusComplete, ToneSuccess},
		{models.StatusLate, ToneDanger},
		{models.StatusInProgress, ToneInfo},
		{"", ToneInfo},
	}
	for _, tt := range tests {
		if got := StatusTone(tt.status); got != tt.want {
			t.Errorf("StatusTone(%q) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestTierTone(t *testing.T) {
	tests := []struct {
		tier models.Tier
		want Tone
	}{
		{models.TierCompany, TonePrimary},
		{models.TierDepartment, ToneSecondary},
		{models.TierIndividual, ToneAccent},
		{"regional", ToneNeutral},
	}
	for _, tt := range tests {
		if got := TierTone(tt.tier); got != tt.want {
			t.Errorf("TierTone(%q) = %s, want %s", tt.tier, got, tt.want)
		}
	}
}

func TestProgressWidthPassThrough(t *testing.T) {
	tests := []struct {
		progress int
		want     string
	}{
		{0, "0%"},
		{100, "100%"},
		{35, "35%"},
		{140, "140%"},
		{-5, "-5%"},
	}
	for _, tt := range tests {
		r := NewRenderer(sliceSource{})
		n := r.Render(models.Objective{ID: 1, Progress: tt.progress}, 0)
		if n.ProgressWidth != tt.want || n.Progress != tt.progress {
			t.Errorf("progress %d rendered as %q", tt.progress, n.ProgressWidth)
		}
	}
}

func TestRender_CycleGuard(t *testing.T) {
	src := sliceSource{objectives: []models.Objective{
		{ID: 1, Tier: models.TierCompany, ParentID: ref(2)},
		{ID: 2, Tier: models.TierDepartment, ParentID: ref(1)},
	}}
	r := NewRenderer(src, WithExpanded(NewExpanded(1, 2)))

	n := r.Render(src.objectives[0], 0)
	if len(n.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(n.Children))
	}
	second := n.Children[0]
	if len(second.Children) != 1 || !second.Children[0].Cyclic {
		t.Fatalf("expected the loop back to 1 to be marked cyclic: %+v", second)
	}
	if second.Children[0].Children != nil {
		t.Error("cyclic node must not recurse")
	}
}

func TestExpandAll(t *testing.T) {
	got := ExpandAll(chain())
	if !got.Equal(NewExpanded(1, 2)) {
		t.Errorf("ExpandAll = %v, want 1,2", got)
	}
}

func TestTopLevelView_EmptySource(t *testing.T) {
	view := NewRenderer(sliceSource{}).TopLevelView()
	if view == nil || len(view) != 0 {
		t.Errorf("view = %v, want empty", view)
	}
}

// Every reachable non-root objective appears exactly once, directly under
// its parent, when the whole tree is expanded.
func TestFullyExpandedTreePlacesEachObjectiveOnce(t *testing.T) {
	st, _ := testutil.TestStore(t, testutil.ChainYAML)
	snap := st.Snapshot()
	r := NewRenderer(snap, WithExpanded(ExpandAll(snap)))

	seen := map[int]int{}
	parentOf := map[int]int{}
	var walk func(ns []Node, parent int)
	walk = func(ns []Node, parent int) {
		for _, n := range ns {
			seen[n.ID]++
			parentOf[n.ID] = parent
			walk(n.Children, n.ID)
		}
	}
	walk(r.TopLevelView(), 0)

	for _, obj := range snap.Objectives() {
		if obj.Tier == models.TierCompany {
			continue
		}
		if obj.ParentID == nil {
			continue
		}
		if _, ok := snap.Objective(*obj.ParentID); !ok {
			continue
		}
		if seen[obj.ID] != 1 {
			t.Errorf("objective %d rendered %d times", obj.ID, seen[obj.ID])
		}
		if parentOf[obj.ID] != *obj.ParentID {
			t.Errorf("objective %d under %d, want %d", obj.ID, parentOf[obj.ID], *obj.ParentID)
		}
	}
}
