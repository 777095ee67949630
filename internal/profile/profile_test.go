package profile

import (
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/typeline/internal/corpus"
	"github.com/verte-zerg/typeline/internal/model"
)

func testConfig() model.Config {
	return model.Config{
		LineWidth:       30,
		MaxErrors:       5,
		NextLines:       2,
		RefillThreshold: 10,
		RefillBatch:     20,
		MinCleanPct:     0.9,
	}
}

func testSource(t *testing.T) *corpus.Source {
	t.Helper()
	src, err := corpus.Load(strings.NewReader("word 1\nmore 1\n"))
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	return src
}

func TestNewListSeedsDefaultProfile(t *testing.T) {
	l := NewList(nil, 0, testSource(t), testConfig())
	if l.Len() != 1 {
		t.Fatalf("expected seeded default profile, got %d profiles", l.Len())
	}
	if l.Active().Name != DefaultName {
		t.Fatalf("expected default profile active, got %q", l.Active().Name)
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("seeded list must satisfy the invariant: %v", err)
	}
}

func TestNewListClampsActiveIndex(t *testing.T) {
	records := []model.ProfileRecord{{Name: "a", Layout: "qwerty"}}
	l := NewList(records, 7, testSource(t), testConfig())
	if l.ActiveIndex() != 0 {
		t.Fatalf("expected clamped active index 0, got %d", l.ActiveIndex())
	}
}

func TestSelectKeepsTrackerStateAndResetsActivatedSession(t *testing.T) {
	records := []model.ProfileRecord{
		{Name: "a", Layout: "qwerty", Letters: map[rune]model.LetterCounts{'q': {Clean: 2}}},
		{Name: "b", Layout: "colemak"},
	}
	l := NewList(records, 0, testSource(t), testConfig())

	// Leave a pending mistake in profile a, then switch away and back.
	l.Session().ApplyChar('0')
	if err := l.Select(1); err != nil {
		t.Fatalf("select: %v", err)
	}
	if l.Active().Name != "b" {
		t.Fatalf("expected profile b active, got %q", l.Active().Name)
	}
	if err := l.Select(0); err != nil {
		t.Fatalf("select back: %v", err)
	}
	// Activation starts a fresh line; tracker statistics survive.
	if len(l.Session().Errors()) != 0 {
		t.Fatalf("expected reset session on activation")
	}
	if got := l.Active().Tracker.Stats()['q'].Clean; got != 2 {
		t.Fatalf("tracker state lost across switches: clean = %d", got)
	}
}

func TestSelectOutOfRange(t *testing.T) {
	l := NewList(nil, 0, testSource(t), testConfig())
	if err := l.Select(3); err == nil {
		t.Fatalf("expected error for out-of-range index")
	}
}

func TestSelectByName(t *testing.T) {
	records := []model.ProfileRecord{
		{Name: "a", Layout: "qwerty"},
		{Name: "b", Layout: "dvorak"},
	}
	l := NewList(records, 0, testSource(t), testConfig())
	if err := l.SelectByName("b"); err != nil {
		t.Fatalf("select by name: %v", err)
	}
	if l.Active().Layout != "dvorak" {
		t.Fatalf("expected dvorak layout, got %q", l.Active().Layout)
	}
	if err := l.SelectByName("missing"); err == nil {
		t.Fatalf("expected error for unknown profile")
	}
}

func TestRecordsRoundTripLetterCounts(t *testing.T) {
	records := []model.ProfileRecord{{
		Name:   "a",
		Layout: "qwerty",
		Letters: map[rune]model.LetterCounts{
			'q': {Clean: 3, Dirty: 1},
		},
	}}
	l := NewList(records, 0, testSource(t), testConfig())

	out := l.Records()
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	counts, ok := out[0].Letters['q']
	if !ok || counts.Clean != 3 || counts.Dirty != 1 {
		t.Fatalf("letter counts lost in round trip: %+v", out[0].Letters)
	}
}

func TestValidateDetectsBrokenInvariant(t *testing.T) {
	l := &List{}
	if err := l.Validate(); !errors.Is(err, ErrNoActiveProfile) {
		t.Fatalf("expected ErrNoActiveProfile, got %v", err)
	}
}
