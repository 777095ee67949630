// Package proficiency accumulates per-letter clean/dirty statistics.
package proficiency

import (
	"sort"

	"github.com/verte-zerg/typeline/internal/session"
)

// LetterStat holds clean and dirty hit counts for one character.
type LetterStat struct {
	Clean int
	Dirty int
}

// Ratio is the cleanliness ratio in [0, 1], defaulting to 1 with no data.
func (s LetterStat) Ratio() float64 {
	total := s.Clean + s.Dirty
	if total == 0 {
		return 1.0
	}
	return float64(s.Clean) / float64(total)
}

// LetterRatio pairs a character with its cleanliness ratio.
type LetterRatio struct {
	Char  rune
	Ratio float64
}

// WordRequest asks the caller for a fresh batch of vocabulary, optionally
// biased toward the listed weak letters.
type WordRequest struct {
	Count int
	Weak  map[rune]struct{}
}

// Tracker scores completed lines and signals when the word inventory runs
// low. Space hits are scored for line completion but excluded from letter
// statistics.
type Tracker struct {
	letters   map[rune]*LetterStat
	inventory int
	threshold int
	batch     int
	minClean  float64
}

// New returns an empty Tracker. threshold is the inventory level below
// which AddLine requests batch more words; minClean is the cleanliness
// ratio under which a letter counts as weak.
func New(threshold, batch int, minClean float64) *Tracker {
	return &Tracker{
		letters:   map[rune]*LetterStat{},
		inventory: batch,
		threshold: threshold,
		batch:     batch,
		minClean:  minClean,
	}
}

// NewWithStats returns a Tracker seeded with persisted letter statistics.
func NewWithStats(stats map[rune]LetterStat, threshold, batch int, minClean float64) *Tracker {
	t := New(threshold, batch, minClean)
	for r, s := range stats {
		copied := s
		t.letters[r] = &copied
	}
	return t
}

// AddLine scores every hit of the completed line. When the remaining word
// inventory drops below the refill threshold it returns a WordRequest with
// ok = true.
func (t *Tracker) AddLine(line session.Line) (WordRequest, bool) {
	for _, hit := range line.Hits {
		if hit.Target == ' ' {
			continue
		}
		stat := t.stat(hit.Target)
		if hit.Dirty {
			stat.Dirty++
		} else {
			stat.Clean++
		}
	}

	t.inventory -= line.Words()
	if t.inventory >= t.threshold {
		return WordRequest{}, false
	}
	t.inventory += t.batch
	return WordRequest{Count: t.batch, Weak: t.WeakLetters()}, true
}

// CleanLetters returns every tracked letter with its cleanliness ratio,
// ordered ascending by character code for stable display.
func (t *Tracker) CleanLetters() []LetterRatio {
	out := make([]LetterRatio, 0, len(t.letters))
	for r, stat := range t.letters {
		out = append(out, LetterRatio{Char: r, Ratio: stat.Ratio()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Char < out[j].Char
	})
	return out
}

// WeakLetters returns the letters whose cleanliness ratio falls below the
// configured minimum.
func (t *Tracker) WeakLetters() map[rune]struct{} {
	weak := map[rune]struct{}{}
	for r, stat := range t.letters {
		if stat.Ratio() < t.minClean {
			weak[r] = struct{}{}
		}
	}
	return weak
}

// Stats returns a copy of the letter statistics for persistence.
func (t *Tracker) Stats() map[rune]LetterStat {
	out := make(map[rune]LetterStat, len(t.letters))
	for r, stat := range t.letters {
		out[r] = *stat
	}
	return out
}

func (t *Tracker) stat(r rune) *LetterStat {
	stat, ok := t.letters[r]
	if !ok {
		stat = &LetterStat{}
		t.letters[r] = stat
	}
	return stat
}
