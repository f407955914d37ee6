package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treepick/pkg/model"
	"github.com/vanderheijden86/treepick/pkg/tree"
)

// row is one visible line of the tree.
type row struct {
	node  *model.Node
	depth int
	// lastAt[d] reports whether the ancestor at depth d (or the node itself
	// at its own depth) is the last of its siblings.
	lastAt []bool
}

// flatten returns the visible rows in pre-order, skipping the children of
// collapsed folders.
func flatten(roots []*model.Node) []row {
	nodes, depths := tree.Visible(roots)

	// A node is the last of its siblings when no later node at the same
	// depth appears before the walk climbs above it.
	last := make([]bool, len(nodes))
	var seen []bool
	for i := len(nodes) - 1; i >= 0; i-- {
		d := depths[i]
		for len(seen) <= d {
			seen = append(seen, false)
		}
		last[i] = !seen[d]
		seen[d] = true
		seen = seen[:d+1]
	}

	rows := make([]row, 0, len(nodes))
	var path []bool
	for i, n := range nodes {
		path = append(path[:depths[i]], last[i])
		rows = append(rows, row{node: n, depth: depths[i], lastAt: append([]bool(nil), path...)})
	}
	return rows
}

// branchPrefix draws the connector lines for r. Roots have none.
func branchPrefix(r row, indent int) string {
	if r.depth == 0 {
		return ""
	}
	if indent < 1 {
		indent = 1
	}
	pad := strings.Repeat(" ", indent)
	var sb strings.Builder
	for d := 1; d < r.depth; d++ {
		if r.lastAt[d] {
			sb.WriteString(" " + pad)
		} else {
			sb.WriteString("│" + pad)
		}
	}
	arm := strings.Repeat("─", indent-1) + " "
	if r.lastAt[r.depth] {
		sb.WriteString("└" + arm)
	} else {
		sb.WriteString("├" + arm)
	}
	return sb.String()
}

// rowOptions controls how a row is drawn.
type rowOptions struct {
	width   int
	indent  int
	showIDs bool
}

// renderRow draws one line: [branches] [marker] [glyph] title [id].
func renderRow(theme Theme, r row, opts rowOptions) string {
	n := r.node
	prefix := branchPrefix(r, opts.indent)

	var marker string
	switch n.Selection {
	case model.Selected:
		marker = theme.Checked.Render(Marker(n.Selection))
	case model.Indeterminate:
		marker = theme.Mixed.Render(Marker(n.Selection))
	default:
		marker = theme.Unchecked.Render(Marker(n.Selection))
	}

	var suffix string
	if opts.showIDs {
		suffix = " " + theme.IDText.Render(n.ID)
	}

	used := lipgloss.Width(prefix) + 3 + 1 + 1 + 1 + lipgloss.Width(suffix)
	title := n.Title
	if opts.width > 0 {
		title = truncateRunesHelper(title, opts.width-used-1, "…")
	}
	if n.IsFolder() {
		title = theme.FolderTitle.Render(title)
	} else {
		title = theme.ItemTitle.Render(title)
	}

	return theme.Branch.Render(prefix) + marker + " " + expandIndicator(n) + " " + title + suffix
}

// PlainTree renders the forest without styling, one node per line. Used by
// print mode and tests.
func PlainTree(roots []*model.Node, indent int, showIDs bool) string {
	var sb strings.Builder
	for _, r := range flatten(roots) {
		sb.WriteString(branchPrefix(r, indent))
		sb.WriteString(Marker(r.node.Selection))
		sb.WriteString(" ")
		sb.WriteString(expandIndicator(r.node))
		sb.WriteString(" ")
		sb.WriteString(r.node.Title)
		if showIDs {
			sb.WriteString(" (")
			sb.WriteString(r.node.ID)
			sb.WriteString(")")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
