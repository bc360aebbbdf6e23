package formatter

import (
	"fmt"
	"strings"

	"github.com/starford/tiwaz/internal/tree"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "

	markerCollapsed = "▸ "
	markerExpanded  = "▾ "
	markerLeaf      = "• "
)

// RenderTree renders the visible part of a top-level view: one header line
// per card (toggle marker, tier and team badges, title, status) followed by
// a detail line (due date, responsible, progress).
func (p Printer) RenderTree(nodes []tree.Node) string {
	if len(nodes) == 0 {
		return p.render(StyleDim, "no company objectives") + "\n"
	}
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteString("\n")
		}
		p.writeNode(&b, n, "", "")
	}
	return b.String()
}

func (p Printer) writeNode(b *strings.Builder, n tree.Node, lead, childLead string) {
	marker := markerLeaf
	switch {
	case n.Expanded:
		marker = markerExpanded
	case n.HasChildren:
		marker = markerCollapsed
	}

	if n.Cyclic {
		b.WriteString(lead + p.render(StyleRed, fmt.Sprintf("↺ #%d %s (cycle)", n.ID, n.Title)) + "\n")
		return
	}

	badges := p.render(ToneStyle(n.TierTone), "["+n.TierLabel+"]")
	if n.Team != "" {
		badges += " " + p.render(StyleDim, "["+n.Team+"]")
	}
	status := p.render(ToneStyle(n.StatusTone), "( "+n.StatusLabel+" )")
	fmt.Fprintf(b, "%s%s%s %s %s %s\n",
		lead, marker, badges, p.render(StyleDim, fmt.Sprintf("#%d", n.ID)), p.render(StyleBold, n.Title), status)

	detailLead := childLead + treeBlank
	if len(n.Children) > 0 {
		detailLead = childLead + treePipe
	}
	if n.Description != "" {
		b.WriteString(detailLead + p.render(StyleDim, n.Description) + "\n")
	}
	fmt.Fprintf(b, "%sdue %s · %s · %s\n", detailLead, n.DueLabel, n.Responsible, p.RenderProgress(n.Progress))

	for i, c := range n.Children {
		last := i == len(n.Children)-1
		connector, next := treeBranch, treePipe
		if last {
			connector, next = treeCorner, treeBlank
		}
		p.writeNode(b, c, childLead+connector, childLead+next)
	}
}
