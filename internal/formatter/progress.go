package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░]  45%. The bar is drawn
// from the percentage limited to 0..100, but the label shows the stored
// value unchanged.
func (p Printer) RenderProgress(pct int) string {
	width := p.BarWidth
	if width < 2 {
		width = 10
	}

	drawn := pct
	if drawn < 0 {
		drawn = 0
	}
	if drawn > 100 {
		drawn = 100
	}
	filled := drawn * width / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if drawn < 33 {
		style = StyleRed
	} else if drawn < 66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", p.render(style, bar), pct)
}
