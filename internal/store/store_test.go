package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typeline/internal/model"
	"github.com/verte-zerg/typeline/internal/profile"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "typeline.db")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestLoadProfilesSynthesizesDefault(t *testing.T) {
	st := openTestStore(t)

	records, active, err := st.LoadProfiles(context.Background())
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 synthesized record, got %d", len(records))
	}
	if records[0].Name != profile.DefaultName {
		t.Fatalf("expected default profile name, got %q", records[0].Name)
	}
	if active != 0 {
		t.Fatalf("expected active index 0, got %d", active)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	records := []model.ProfileRecord{
		{
			Name:   "alice",
			Layout: "qwerty",
			Letters: map[rune]model.LetterCounts{
				'a': {Clean: 10, Dirty: 2},
				'z': {Clean: 1, Dirty: 5},
			},
		},
		{
			Name:    "bob",
			Layout:  "colemak",
			Letters: map[rune]model.LetterCounts{},
		},
	}
	if err := st.SaveProfiles(ctx, records, 1); err != nil {
		t.Fatalf("save profiles: %v", err)
	}

	loaded, active, err := st.LoadProfiles(ctx)
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if loaded[0].Name != "alice" || loaded[1].Name != "bob" {
		t.Fatalf("order lost: %q, %q", loaded[0].Name, loaded[1].Name)
	}
	if active != 1 {
		t.Fatalf("expected active index 1, got %d", active)
	}
	counts := loaded[0].Letters['a']
	if counts.Clean != 10 || counts.Dirty != 2 {
		t.Fatalf("letter counts lost: %+v", counts)
	}
	if len(loaded[1].Letters) != 0 {
		t.Fatalf("expected no letters for bob, got %d", len(loaded[1].Letters))
	}
}

func TestSaveReplacesPreviousState(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first := []model.ProfileRecord{{Name: "old", Layout: "qwerty", Letters: map[rune]model.LetterCounts{'x': {Dirty: 1}}}}
	if err := st.SaveProfiles(ctx, first, 0); err != nil {
		t.Fatalf("save first: %v", err)
	}
	second := []model.ProfileRecord{{Name: "new", Layout: "dvorak", Letters: map[rune]model.LetterCounts{}}}
	if err := st.SaveProfiles(ctx, second, 0); err != nil {
		t.Fatalf("save second: %v", err)
	}

	loaded, _, err := st.LoadProfiles(ctx)
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "new" {
		t.Fatalf("expected only the replacement profile, got %+v", loaded)
	}
}

func TestSaveRejectsEmptyList(t *testing.T) {
	st := openTestStore(t)
	if err := st.SaveProfiles(context.Background(), nil, 0); err == nil {
		t.Fatalf("expected error for empty profile list")
	}
}
