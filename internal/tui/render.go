package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typeline/internal/session"
)

// renderActiveLine lays out the committed hits, the pending error buffer
// overlaid on upcoming targets, and the untouched remainder of the line.
func renderActiveLine(hits []session.Hit, errors []rune, targets []rune) string {
	var b strings.Builder
	for _, hit := range hits {
		style := textStyle
		if hit.Dirty {
			style = missStyle
		}
		b.WriteString(style.Render(string(hit.Target)))
	}
	// Pending mistakes shadow the targets they occupy; a mistyped space
	// is made visible.
	for _, e := range errors {
		if e == ' ' {
			e = '░'
		}
		b.WriteString(errorStyle.Render(string(e)))
	}
	for i := len(errors); i < len(targets); i++ {
		b.WriteString(pendingStyle.Render(string(targets[i])))
	}
	return b.String()
}

// renderTargetIndicator underlines the active column, but only while the
// error buffer is empty.
func renderTargetIndicator(column int, show bool) string {
	if !show {
		return ""
	}
	return strings.Repeat(" ", column) + targetStyle.Render("―")
}

// severityColor maps a metric value in [0, 1] onto the proficiency
// palette, red for low and green for high.
func severityColor(v float64) lipgloss.Color {
	switch {
	case v < 0.25:
		return lipgloss.Color("#FF4D4F")
	case v < 0.5:
		return lipgloss.Color("#E8833A")
	case v < 0.75:
		return lipgloss.Color("#C8C83A")
	default:
		return lipgloss.Color("#52C41A")
	}
}
