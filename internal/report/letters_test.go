package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/typeline/internal/metric"
	"github.com/verte-zerg/typeline/internal/proficiency"
)

func TestLettersRendersRows(t *testing.T) {
	letters := []proficiency.LetterRatio{
		{Char: 'a', Ratio: 1.0},
		{Char: 'z', Ratio: 0.0},
	}
	var buf bytes.Buffer
	if err := Letters(&buf, "default", letters, metric.Default(), 80); err != nil {
		t.Fatalf("Letters failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Letters for default") {
		t.Fatalf("missing title: %q", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title, header, and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[2], "a") {
		t.Fatalf("expected row for 'a' first, got %q", lines[2])
	}
}

func TestLettersEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Letters(&buf, "default", nil, metric.Default(), 80); err != nil {
		t.Fatalf("Letters failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No letters tracked yet.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestSeverityBarBounds(t *testing.T) {
	if got := severityBar(0, 4); got != "····" {
		t.Fatalf("expected empty bar, got %q", got)
	}
	if got := severityBar(1, 4); got != "████" {
		t.Fatalf("expected full bar, got %q", got)
	}
	if got := severityBar(0.5, 4); got != "██··" {
		t.Fatalf("expected half bar, got %q", got)
	}
}

func TestFormatTableAlignment(t *testing.T) {
	lines := formatTable(
		[]string{"Char", "Clean"},
		[][]string{{"a", "100.0%"}, {"<space>", "50.0%"}},
		map[int]bool{1: true},
	)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "a       100.0%" {
		t.Fatalf("unexpected row formatting: %q", lines[1])
	}
}
