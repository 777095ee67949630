// Package profile pairs proficiency trackers with typing sessions and
// tracks which profile is active.
package profile

import (
	"errors"
	"fmt"

	"github.com/verte-zerg/typeline/internal/corpus"
	"github.com/verte-zerg/typeline/internal/feed"
	"github.com/verte-zerg/typeline/internal/model"
	"github.com/verte-zerg/typeline/internal/proficiency"
	"github.com/verte-zerg/typeline/internal/session"
)

// ErrNoActiveProfile reports a broken non-empty invariant. It indicates a
// programming error, never a user-facing condition.
var ErrNoActiveProfile = errors.New("no active profile")

const (
	// DefaultName labels the profile synthesized on first run.
	DefaultName = "default"
	// DefaultLayout is the layout identifier used when none is recorded.
	DefaultLayout = "qwerty"
)

// Profile couples one proficiency tracker with one live session.
type Profile struct {
	Name    string
	Layout  string
	Tracker *proficiency.Tracker
	Session *session.Session
}

// newProfile builds a live Profile from a persisted record.
func newProfile(rec model.ProfileRecord, src *corpus.Source, cfg model.Config) *Profile {
	stats := make(map[rune]proficiency.LetterStat, len(rec.Letters))
	for r, counts := range rec.Letters {
		stats[r] = proficiency.LetterStat{Clean: counts.Clean, Dirty: counts.Dirty}
	}
	f := feed.New(src, cfg.LineWidth, cfg.NextLines)
	return &Profile{
		Name:    rec.Name,
		Layout:  rec.Layout,
		Tracker: proficiency.NewWithStats(stats, cfg.RefillThreshold, cfg.RefillBatch, cfg.MinCleanPct),
		Session: session.New(f, cfg.MaxErrors),
	}
}

// Record converts the profile back to its persisted shape.
func (p *Profile) Record() model.ProfileRecord {
	stats := p.Tracker.Stats()
	letters := make(map[rune]model.LetterCounts, len(stats))
	for r, s := range stats {
		letters[r] = model.LetterCounts{Clean: s.Clean, Dirty: s.Dirty}
	}
	return model.ProfileRecord{Name: p.Name, Layout: p.Layout, Letters: letters}
}

// List is a non-empty ordered collection of profiles with an always-valid
// active index.
type List struct {
	profiles []*Profile
	active   int
}

// NewList builds live profiles from records, sharing one corpus source.
// An empty record set is seeded with a default profile so the non-empty
// invariant holds from construction.
func NewList(records []model.ProfileRecord, active int, src *corpus.Source, cfg model.Config) *List {
	if len(records) == 0 {
		records = []model.ProfileRecord{{Name: DefaultName, Layout: DefaultLayout}}
	}
	if active < 0 || active >= len(records) {
		active = 0
	}
	profiles := make([]*Profile, 0, len(records))
	for _, rec := range records {
		profiles = append(profiles, newProfile(rec, src, cfg))
	}
	return &List{profiles: profiles, active: active}
}

// Active returns the current profile.
func (l *List) Active() *Profile {
	return l.profiles[l.active]
}

// ActiveIndex returns the index of the current profile.
func (l *List) ActiveIndex() int {
	return l.active
}

// Session returns the active profile's session.
func (l *List) Session() *session.Session {
	return l.Active().Session
}

// Len reports the number of profiles.
func (l *List) Len() int {
	return len(l.profiles)
}

// Profiles returns the ordered profiles.
func (l *List) Profiles() []*Profile {
	return l.profiles
}

// Add appends a new profile built from rec and returns its index.
func (l *List) Add(rec model.ProfileRecord, src *corpus.Source, cfg model.Config) int {
	l.profiles = append(l.profiles, newProfile(rec, src, cfg))
	return len(l.profiles) - 1
}

// Select switches the active profile. The previous profile keeps its
// session and tracker state; the newly active session starts a fresh line.
func (l *List) Select(index int) error {
	if index < 0 || index >= len(l.profiles) {
		return fmt.Errorf("profile index %d out of range [0, %d)", index, len(l.profiles))
	}
	if index == l.active {
		return nil
	}
	l.active = index
	l.Active().Session.Reset()
	return nil
}

// SelectByName switches the active profile by name.
func (l *List) SelectByName(name string) error {
	for i, p := range l.profiles {
		if p.Name == name {
			return l.Select(i)
		}
	}
	return fmt.Errorf("unknown profile %q", name)
}

// Records converts every profile to its persisted shape, preserving order.
func (l *List) Records() []model.ProfileRecord {
	out := make([]model.ProfileRecord, 0, len(l.profiles))
	for _, p := range l.profiles {
		out = append(out, p.Record())
	}
	return out
}

// Validate checks the non-empty invariant. A failure is fatal for the
// caller.
func (l *List) Validate() error {
	if len(l.profiles) == 0 || l.active < 0 || l.active >= len(l.profiles) {
		return ErrNoActiveProfile
	}
	return nil
}
