// Package testutil provides shared test helpers for datasets and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/tiwaz/internal/index"
	"github.com/starford/tiwaz/internal/storage"
	"github.com/starford/tiwaz/internal/store"
)

// DataFile is the dataset file name used by test data directories.
const DataFile = "objectives.yaml"

// ChainYAML is a three-level chain: 1 (company) → 2 (department) → 3
// (individual), plus a second root, an objective owned by a missing member
// and two KPIs.
const ChainYAML = `
members:
  - {id: 10, name: Ada Lovelace, role: CEO, avatar: ada.png, team: Direction}
  - {id: 11, name: Alan Turing, role: Head of Research, avatar: alan.png, team: Research}
objectives:
  - id: 1
    title: Company objective
    description: Root of the chain
    due_date: 2025-12-31
    progress: 0
    responsible: 10
    status: in_progress
    tier: company
  - id: 2
    title: Department objective
    description: Child of 1
    due_date: 2025-09-30
    progress: 100
    responsible: 11
    status: complete
    tier: department
    parent_id: 1
    team: Research
  - id: 3
    title: Individual objective
    description: Child of 2
    due_date: 2025-06-30
    progress: 35
    responsible: 999
    status: late
    tier: individual
    parent_id: 2
  - id: 4
    title: Second company objective
    description: Another root
    due_date: 2026-03-31
    progress: 50
    responsible: 11
    status: in_progress
    tier: company
kpis:
  - {id: 1, name: Revenue, value: 450, target: 600, unit: k EUR, trend: up, category: Finance}
  - {id: 2, name: Churn, value: 3, target: 0, unit: "%", trend: down, category: Customers}
`

// TestDB creates a temporary SQLite index that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "tiwaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataDir creates a temporary data directory holding content as DataFile.
func TestDataDir(t *testing.T, content string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	WriteDataset(t, dir, content)
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// WriteDataset (re)writes DataFile inside dir.
func WriteDataset(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, DataFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestStore loads content into a ready-to-use store.
func TestStore(t *testing.T, content string) (*store.Store, *store.Loader) {
	t.Helper()
	_, fs := TestDataDir(t, content)
	l := &store.Loader{Provider: fs, File: DataFile}
	snap, _, err := l.Load()
	if err != nil {
		t.Fatalf("load dataset: %v", err)
	}
	return store.New(snap), l
}
