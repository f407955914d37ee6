package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treepick/pkg/model"
)

// truncateRunesHelper truncates s to maxWidth display cells, appending suffix
// when something was cut. Wide characters count as two cells.
func truncateRunesHelper(s string, maxWidth int, suffix string) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	suffixWidth := runewidth.StringWidth(suffix)
	if maxWidth <= suffixWidth {
		return runewidth.Truncate(suffix, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth-suffixWidth, "") + suffix
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Marker returns the checkbox for a selection state.
func Marker(s model.Selection) string {
	switch s {
	case model.Selected:
		return "[x]"
	case model.Indeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

// expandIndicator returns the collapse glyph for folders, "•" for items.
func expandIndicator(n *model.Node) string {
	switch {
	case !n.IsFolder():
		return "•"
	case n.Collapsed:
		return "▸"
	default:
		return "▾"
	}
}
