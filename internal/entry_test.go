package internal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/starford/tiwaz/internal/apperr"
	"github.com/starford/tiwaz/internal/testutil"
)

func embeddedConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.SQLite.Enabled = false
	return cfg
}

func dirConfig(t *testing.T, content string) *Config {
	t.Helper()
	dir, _ := testutil.TestDataDir(t, content)
	cfg := embeddedConfig()
	cfg.Data.Dir = dir
	cfg.Data.File = testutil.DataFile
	return cfg
}

func TestCheck_EmbeddedSample(t *testing.T) {
	var out bytes.Buffer
	if err := Check(context.Background(), &out, WithConfig(embeddedConfig())); err != nil {
		t.Fatalf("Check: %v", err)
	}
	report := out.String()
	if !strings.Contains(report, "ok: 8 objectives, 5 members, 4 kpis, 1 warnings") {
		t.Errorf("report = %q", report)
	}
	if !strings.Contains(report, "responsible member 99 does not exist") {
		t.Errorf("missing warning in %q", report)
	}
}

func TestCheck_RejectsCycle(t *testing.T) {
	cyclic := `
objectives:
  - {id: 1, title: A, due_date: 2025-01-01, progress: 0, responsible: 1, status: late, tier: company, parent_id: 2}
  - {id: 2, title: B, due_date: 2025-01-01, progress: 0, responsible: 1, status: late, tier: department, parent_id: 1}
`
	var out bytes.Buffer
	err := Check(context.Background(), &out, WithConfig(dirConfig(t, cyclic)))
	if !errors.Is(err, apperr.ErrCycle) {
		t.Fatalf("err = %v, want ErrCycle", err)
	}
	if !strings.HasPrefix(out.String(), "invalid:") {
		t.Errorf("report = %q", out.String())
	}
}

func TestPrintTree(t *testing.T) {
	cfg := dirConfig(t, testutil.ChainYAML)
	ctx := context.Background()

	var out bytes.Buffer
	err := PrintTree(ctx, &out, TreeOptions{Plain: true}, WithConfig(cfg), WithLogOutput(io.Discard))
	if err != nil {
		t.Fatalf("PrintTree: %v", err)
	}
	if !strings.Contains(out.String(), "Company objective") || strings.Contains(out.String(), "Department objective") {
		t.Errorf("collapsed output:\n%s", out.String())
	}

	out.Reset()
	err = PrintTree(ctx, &out, TreeOptions{All: true, Plain: true}, WithConfig(cfg), WithLogOutput(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Individual objective") || !strings.Contains(out.String(), "Unassigned") {
		t.Errorf("expanded output:\n%s", out.String())
	}
	if strings.Contains(out.String(), "\x1b[") {
		t.Error("plain output should carry no ANSI escapes")
	}
}

func TestPrintTree_BadOpen(t *testing.T) {
	var out bytes.Buffer
	err := PrintTree(context.Background(), &out, TreeOptions{Open: "1,x"}, WithConfig(embeddedConfig()), WithLogOutput(io.Discard))
	if err == nil {
		t.Fatal("expected error for bad open list")
	}
}

func TestRequiresConfig(t *testing.T) {
	if err := Check(context.Background(), io.Discard); err == nil {
		t.Error("Check without config should fail")
	}
}

func TestBootstrap_WithIndex(t *testing.T) {
	cfg := dirConfig(t, testutil.ChainYAML)
	cfg.SQLite.Enabled = true
	cfg.SQLite.Path = t.TempDir() + "/tiwaz.db"

	app, err := newApplication([]Option{WithConfig(cfg), WithLogOutput(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}
	rt, err := app.bootstrap(app.newLogger(), true)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer rt.close()

	if rt.db == nil {
		t.Fatal("index should be open")
	}
	cs, err := rt.db.Checksum()
	if err != nil || cs != rt.store.Snapshot().Checksum() {
		t.Errorf("index checksum = %q, %v", cs, err)
	}
	if !rt.watchable() {
		t.Error("file-backed dataset with watch enabled should be watchable")
	}
}
