package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/objectiveservice"
	"github.com/starford/tiwaz/internal/testutil"
	"github.com/starford/tiwaz/internal/tree"
)

func testHandler(t *testing.T, content string) *Handler {
	t.Helper()
	st, _ := testutil.TestStore(t, content)
	h, err := NewHandler(objectiveservice.NewService(st, nil))
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	return h
}

func dashboard(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.Dashboard(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestDashboard_Collapsed(t *testing.T) {
	h := testHandler(t, testutil.ChainYAML)
	w := dashboard(t, h, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content-type = %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{"Company objective", "Second company objective", `href="/?open=1"`, "Modify", "Delete", "New objective", `class="badge badge-primary">Company`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	if strings.Contains(body, "Department objective") {
		t.Error("child should be hidden while its parent is collapsed")
	}
}

func TestDashboard_ExpandStepByStep(t *testing.T) {
	h := testHandler(t, testutil.ChainYAML)

	body := dashboard(t, h, "/?open=1").Body.String()
	if !strings.Contains(body, "Department objective") {
		t.Error("child should show once 1 is open")
	}
	if strings.Contains(body, "Individual objective") {
		t.Error("grandchild should stay hidden until 2 is open")
	}
	// Toggling 1 again closes it; toggling 2 opens both.
	if !strings.Contains(body, `href="/"`) {
		t.Error("missing collapse link for 1")
	}
	if !strings.Contains(body, `href="/?open=1,2"`) {
		t.Error("missing expand link for 2")
	}

	body = dashboard(t, h, "/?open=1,2").Body.String()
	if !strings.Contains(body, "Individual objective") {
		t.Error("grandchild should show once 2 is open")
	}
	if !strings.Contains(body, tree.FallbackResponsible) {
		t.Error("objective with missing member should read Unassigned")
	}
	if !strings.Contains(body, `style="width: 35%"`) {
		t.Error("progress width should pass the stored percentage through")
	}
	if !strings.Contains(body, `class="badge badge-danger"`) {
		t.Error("late objective should use the danger badge")
	}
	if !strings.Contains(body, `class="badge badge-secondary">Department`) || !strings.Contains(body, `class="badge badge-accent">Individual`) {
		t.Error("department and individual tiers should use their own badge tones")
	}
	if !strings.Contains(body, "Research") {
		t.Error("department team badge missing")
	}
}

func TestDashboard_BadOpen(t *testing.T) {
	h := testHandler(t, testutil.ChainYAML)
	if w := dashboard(t, h, "/?open=abc"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDashboard_Empty(t *testing.T) {
	h := testHandler(t, "objectives: []\n")
	body := dashboard(t, h, "/").Body.String()
	if !strings.Contains(body, "no company objectives") {
		t.Error("empty dataset should render the empty state")
	}
}

func TestToCards(t *testing.T) {
	nodes := []tree.Node{
		{ID: 1, HasChildren: true, Expanded: true, Children: []tree.Node{{ID: 2}}},
		{ID: 3},
	}
	cards := toCards(nodes, tree.NewExpanded(1))
	if cards[0].ToggleURL != "/" {
		t.Errorf("toggle for open node = %q, want /", cards[0].ToggleURL)
	}
	if cards[1].ToggleURL != "" {
		t.Errorf("leaf should have no toggle, got %q", cards[1].ToggleURL)
	}
	if len(cards[0].Children) != 1 || cards[0].Children[0].ID != 2 {
		t.Errorf("children = %+v", cards[0].Children)
	}
}

func TestDashboard_KPIStrip(t *testing.T) {
	h := testHandler(t, testutil.ChainYAML)
	body := dashboard(t, h, "/").Body.String()
	for _, want := range []string{
		`<span class="value">450</span> / 600 k EUR`,
		"75% of target",
		`class="trend-up"`,
		`class="trend-down"`,
		"Churn",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	empty := dashboard(t, testHandler(t, "objectives: []\n"), "/").Body.String()
	if strings.Contains(empty, `<section class="kpis">`) {
		t.Error("KPI strip should be omitted without KPIs")
	}
}

func TestToKPITiles(t *testing.T) {
	tiles := toKPITiles([]objectiveservice.KPIItem{
		{KPI: models.KPI{Name: "Churn", Value: 2.5, Target: 2, Unit: "%", Trend: models.TrendStable}, Attainment: 125},
	})
	if len(tiles) != 1 {
		t.Fatalf("tiles = %d", len(tiles))
	}
	got := tiles[0]
	if got.Value != "2.5" || got.Target != "2" || got.Attainment != "125%" || got.Arrow != "■" {
		t.Errorf("tile = %+v", got)
	}
}
