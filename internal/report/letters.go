// Package report renders plain-text proficiency reports.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/typeline/internal/metric"
	"github.com/verte-zerg/typeline/internal/proficiency"
)

const (
	terminalWidthBackup = 80
	maxBarWidth         = 40
)

// TerminalWidth returns the current terminal width or a backup value.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// Letters prints a per-letter proficiency table for one profile. Severity
// comes from the TriplePoint metric applied to each cleanliness ratio.
func Letters(w io.Writer, profileName string, letters []proficiency.LetterRatio, m metric.TriplePoint, totalWidth int) error {
	if _, err := fmt.Fprintf(w, "Letters for %s\n", profileName); err != nil {
		return err
	}
	if len(letters) == 0 {
		_, err := fmt.Fprintln(w, "No letters tracked yet.")
		return err
	}

	barWidth := totalWidth - 20
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < 4 {
		barWidth = 4
	}

	headers := []string{"Char", "Clean", "Severity"}
	rows := make([][]string, 0, len(letters))
	for _, lr := range letters {
		label := string(lr.Char)
		if lr.Char == ' ' {
			label = "<space>"
		}
		rows = append(rows, []string{
			label,
			fmt.Sprintf("%.1f%%", lr.Ratio*100),
			severityBar(m.Value(lr.Ratio), barWidth),
		})
	}

	rightAlign := map[int]bool{1: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// severityBar renders v in [0, 1] as a fixed-width bar. A full bar means
// full proficiency.
func severityBar(v float64, width int) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	filled := int(v*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("·", width-filled)
}
