// Package model defines shared data structures.
package model

// Config defines practice settings.
type Config struct {
	Lang            string
	LineWidth       int
	MaxErrors       int
	NextLines       int
	RefillThreshold int
	RefillBatch     int
	WeakFactor      float64
	MinCleanPct     float64
}

// ProfileRecord is the persisted shape of a profile.
type ProfileRecord struct {
	Name    string
	Layout  string
	Letters map[rune]LetterCounts
}

// LetterCounts stores persisted clean/dirty counts for one character.
type LetterCounts struct {
	Clean int
	Dirty int
}
