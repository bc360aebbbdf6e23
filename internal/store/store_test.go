package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/tiwaz/internal/dataset"
	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/storage"
)

const chainYAML = `
members:
  - {id: 10, name: Ada}
objectives:
  - {id: 1, title: root, due_date: 2025-01-01, responsible: 10, status: in_progress, tier: company}
  - {id: 2, title: a, due_date: 2025-01-01, responsible: 10, status: complete, tier: department, parent_id: 1}
  - {id: 5, title: other root, due_date: 2025-01-01, responsible: 10, status: late, tier: company}
  - {id: 3, title: b, due_date: 2025-01-01, responsible: 10, status: late, tier: department, parent_id: 1}
  - {id: 4, title: c, due_date: 2025-01-01, responsible: 10, status: late, tier: individual, parent_id: 2}
  - {id: 6, title: orphan, due_date: 2025-01-01, responsible: 10, status: late, tier: individual, parent_id: 77}
`

func testLoader(t *testing.T, content string) (string, *Loader) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "objectives.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, &Loader{Provider: fs, File: "objectives.yaml"}
}

func ids(objs []models.Objective) []int {
	out := make([]int, len(objs))
	for i, o := range objs {
		out[i] = o.ID
	}
	return out
}

func equalInts(a, b []int) bool {
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

func TestSnapshotChildrenOrder(t *testing.T) {
	_, l := testLoader(t, chainYAML)
	snap, warnings, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want the orphan only", warnings)
	}

	if got := ids(snap.Children(1)); !equalInts(got, []int{2, 3}) {
		t.Errorf("Children(1) = %v, want [2 3]", got)
	}
	if got := ids(snap.Children(2)); !equalInts(got, []int{4}) {
		t.Errorf("Children(2) = %v, want [4]", got)
	}
	if got := snap.Children(4); got == nil || len(got) != 0 {
		t.Errorf("Children(4) = %v, want empty", got)
	}
}

func TestSnapshotChildrenOfUnreferencedID(t *testing.T) {
	_, l := testLoader(t, chainYAML)
	snap, _, _ := l.Load()
	for _, id := range []int{4, 5, 6, 1000, 0, -1} {
		got := snap.Children(id)
		if got == nil || len(got) != 0 {
			t.Errorf("Children(%d) = %v, want empty non-nil", id, got)
		}
	}
}

func TestSnapshotLookups(t *testing.T) {
	_, l := testLoader(t, chainYAML)
	snap, _, _ := l.Load()

	if o, ok := snap.Objective(3); !ok || o.Title != "b" {
		t.Errorf("Objective(3) = %+v, %v", o, ok)
	}
	if _, ok := snap.Objective(99); ok {
		t.Error("Objective(99) should not exist")
	}
	if m, ok := snap.Member(10); !ok || m.Name != "Ada" {
		t.Errorf("Member(10) = %+v, %v", m, ok)
	}
	if got := ids(snap.Ancestors(4)); !equalInts(got, []int{2, 1}) {
		t.Errorf("Ancestors(4) = %v, want [2 1]", got)
	}
	if got := snap.Ancestors(6); len(got) != 0 {
		t.Errorf("Ancestors(orphan) = %v, want empty", ids(got))
	}
	if snap.Checksum() == "" {
		t.Error("checksum should be set")
	}
}

func TestSnapshotEmpty(t *testing.T) {
	snap := NewSnapshot(nil, "")
	if snap.Objectives() == nil || snap.Members() == nil || snap.KPIs() == nil {
		t.Fatal("empty snapshot must return empty slices, not nil")
	}
	if len(snap.Objectives()) != 0 {
		t.Error("expected no objectives")
	}
	st := New(nil)
	if len(st.Snapshot().Objectives()) != 0 {
		t.Error("New(nil) should serve an empty dataset")
	}
}

func TestSnapshotKPIs(t *testing.T) {
	ds := &dataset.Dataset{KPIs: []models.KPI{
		{ID: 4, Name: "NPS", Trend: models.TrendStable},
		{ID: 2, Name: "Churn", Trend: models.TrendDown},
	}}
	snap := NewSnapshot(ds, "k")
	if got := snap.KPIs(); len(got) != 2 || got[0].ID != 4 {
		t.Errorf("KPIs = %+v, want source order", got)
	}
	if k, ok := snap.KPI(2); !ok || k.Name != "Churn" {
		t.Errorf("KPI(2) = %+v, %v", k, ok)
	}
	if _, ok := snap.KPI(9); ok {
		t.Error("KPI(9) should not exist")
	}
}

func TestSnapshotFromDataset(t *testing.T) {
	p := 1
	ds := &dataset.Dataset{Objectives: []models.Objective{{ID: 1}, {ID: 2, ParentID: &p}}}
	snap := NewSnapshot(ds, "sum")
	if got := ids(snap.Children(1)); !equalInts(got, []int{2}) {
		t.Errorf("Children(1) = %v", got)
	}
}

func TestReload(t *testing.T) {
	dir, l := testLoader(t, chainYAML)
	snap, _, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	st := New(snap)

	if ev := l.Reload(st); ev.Kind != KindUnchanged {
		t.Errorf("reload of same content = %s, want unchanged", ev.Kind)
	}

	updated := chainYAML + "  - {id: 7, title: new, due_date: 2025-01-01, responsible: 10, status: late, tier: company}\n"
	if err := os.WriteFile(filepath.Join(dir, "objectives.yaml"), []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
	ev := l.Reload(st)
	if ev.Kind != KindReloaded {
		t.Fatalf("reload = %s (%v), want reloaded", ev.Kind, ev.Err)
	}
	if _, ok := st.Snapshot().Objective(7); !ok {
		t.Error("new objective not visible after reload")
	}

	broken := "objectives:\n  - {id: 1, title: x, due_date: 2025-01-01, status: late, tier: company, parent_id: 1}\n"
	if err := os.WriteFile(filepath.Join(dir, "objectives.yaml"), []byte(broken), 0o644); err != nil {
		t.Fatal(err)
	}
	ev = l.Reload(st)
	if ev.Kind != KindRejected || ev.Err == nil {
		t.Fatalf("reload of cyclic data = %s, want rejected", ev.Kind)
	}
	if _, ok := st.Snapshot().Objective(7); !ok {
		t.Error("rejected reload must keep the previous snapshot")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, l := testLoader(t, chainYAML)
	l.File = "missing.yaml"
	if _, _, err := l.Load(); err == nil {
		t.Fatal("expected error for missing file")
	}
}
