package web

import (
	"strconv"

	"github.com/starford/tiwaz/internal/models"
	"github.com/starford/tiwaz/internal/objectiveservice"
	"github.com/starford/tiwaz/internal/tree"
)

// Card is one objective card on the dashboard.
type Card struct {
	tree.Node
	ToggleURL string
	Children  []Card
}

// KPITile is one KPI in the dashboard header strip.
type KPITile struct {
	Name       string
	Category   string
	Value      string
	Target     string
	Unit       string
	Trend      models.Trend
	Arrow      string
	Attainment string
}

// Page is the dashboard template data.
type Page struct {
	KPIs     []KPITile
	Cards    []Card
	Open     string
	Checksum string
	LoadedAt string
}

// toCards maps rendered nodes to cards. Each toggle link carries the
// expanded set with that node's id flipped, so view state lives in the URL.
func toCards(nodes []tree.Node, expanded tree.Expanded) []Card {
	out := make([]Card, 0, len(nodes))
	for _, n := range nodes {
		c := Card{Node: n}
		if n.HasChildren && !n.Cyclic {
			c.ToggleURL = dashboardURL(expanded.Toggle(n.ID))
		}
		c.Children = toCards(n.Children, expanded)
		out = append(out, c)
	}
	return out
}

func dashboardURL(e tree.Expanded) string {
	if e.Len() == 0 {
		return "/"
	}
	return "/?open=" + e.String()
}

func toKPITiles(items []objectiveservice.KPIItem) []KPITile {
	out := make([]KPITile, 0, len(items))
	for _, k := range items {
		out = append(out, KPITile{
			Name:       k.Name,
			Category:   k.Category,
			Value:      formatNumber(k.Value),
			Target:     formatNumber(k.Target),
			Unit:       k.Unit,
			Trend:      k.Trend,
			Arrow:      trendArrow(k.Trend),
			Attainment: formatNumber(k.Attainment) + "%",
		})
	}
	return out
}

func trendArrow(t models.Trend) string {
	switch t {
	case models.TrendUp:
		return "\u25b2"
	case models.TrendDown:
		return "\u25bc"
	default:
		return "\u25a0"
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
