package models

// Trend is the recent direction of a KPI value.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Trends lists every known trend.
var Trends = []Trend{TrendUp, TrendDown, TrendStable}

// KPI is a tracked indicator with a target value.
type KPI struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Target   float64 `json:"target"`
	Unit     string  `json:"unit"`
	Trend    Trend   `json:"trend"`
	Category string  `json:"category,omitempty"`
}

// Attainment is Value as a percentage of Target, or 0 when no target is set.
func (k KPI) Attainment() float64 {
	if k.Target == 0 {
		return 0
	}
	return k.Value / k.Target * 100
}
