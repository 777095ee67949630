package proficiency

import (
	"math"
	"testing"

	"github.com/verte-zerg/typeline/internal/session"
)

func lineOf(hits ...session.Hit) session.Line {
	return session.Line{Hits: hits}
}

func TestAddLineAccumulatesCleanAndDirty(t *testing.T) {
	tr := New(0, 100, 0.9)
	tr.AddLine(lineOf(
		session.Hit{Target: 'a'},
		session.Hit{Target: 'a', Dirty: true},
		session.Hit{Target: 'a'},
		session.Hit{Target: 'b', Dirty: true},
	))

	letters := tr.CleanLetters()
	if len(letters) != 2 {
		t.Fatalf("expected 2 letters, got %d", len(letters))
	}
	if letters[0].Char != 'a' || letters[1].Char != 'b' {
		t.Fatalf("expected ascending order [a b], got %q %q", letters[0].Char, letters[1].Char)
	}
	if math.Abs(letters[0].Ratio-2.0/3.0) > 1e-9 {
		t.Fatalf("expected ratio 2/3 for 'a', got %v", letters[0].Ratio)
	}
	if letters[1].Ratio != 0 {
		t.Fatalf("expected ratio 0 for 'b', got %v", letters[1].Ratio)
	}
}

func TestRatioDefaultsToNeutral(t *testing.T) {
	var stat LetterStat
	if got := stat.Ratio(); got != 1.0 {
		t.Fatalf("expected neutral ratio 1.0, got %v", got)
	}
}

func TestSpacesExcludedFromStatistics(t *testing.T) {
	tr := New(0, 100, 0.9)
	tr.AddLine(lineOf(
		session.Hit{Target: 'a'},
		session.Hit{Target: ' ', Dirty: true},
		session.Hit{Target: 'b'},
	))
	for _, lr := range tr.CleanLetters() {
		if lr.Char == ' ' {
			t.Fatalf("space must not be tracked as a letter")
		}
	}
}

func TestAddLineRequestsWordsWhenInventoryLow(t *testing.T) {
	tr := New(4, 6, 0.9)

	line := lineOf(
		session.Hit{Target: 'a'}, session.Hit{Target: ' '},
		session.Hit{Target: 'b'}, session.Hit{Target: ' '},
		session.Hit{Target: 'c'},
	)
	// Inventory starts at 6; one 3-word line leaves 3 < threshold 4.
	req, ok := tr.AddLine(line)
	if !ok {
		t.Fatalf("expected a word request once inventory dropped below threshold")
	}
	if req.Count != 6 {
		t.Fatalf("expected request for 6 words, got %d", req.Count)
	}

	// Refilled inventory covers the next line.
	if _, ok := tr.AddLine(lineOf(session.Hit{Target: 'a'})); ok {
		t.Fatalf("unexpected request right after refill")
	}
}

func TestWeakLettersBelowThreshold(t *testing.T) {
	tr := New(0, 100, 0.9)
	tr.AddLine(lineOf(
		session.Hit{Target: 'a'},
		session.Hit{Target: 'z', Dirty: true},
	))
	weak := tr.WeakLetters()
	if _, ok := weak['z']; !ok {
		t.Fatalf("expected 'z' in weak set")
	}
	if _, ok := weak['a']; ok {
		t.Fatalf("clean letter 'a' must not be weak")
	}
}

func TestStatsRoundTrip(t *testing.T) {
	tr := New(0, 100, 0.9)
	tr.AddLine(lineOf(
		session.Hit{Target: 'q'},
		session.Hit{Target: 'q', Dirty: true},
	))

	restored := NewWithStats(tr.Stats(), 0, 100, 0.9)
	letters := restored.CleanLetters()
	if len(letters) != 1 || letters[0].Char != 'q' {
		t.Fatalf("expected restored stats for 'q', got %+v", letters)
	}
	if math.Abs(letters[0].Ratio-0.5) > 1e-9 {
		t.Fatalf("expected ratio 0.5, got %v", letters[0].Ratio)
	}

	// Mutating the restored tracker must not touch the source snapshot.
	restored.AddLine(lineOf(session.Hit{Target: 'q'}))
	if tr.Stats()['q'].Clean != 1 {
		t.Fatalf("source tracker mutated through snapshot")
	}
}
