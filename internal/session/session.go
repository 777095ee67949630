// Package session implements the per-keystroke character-matching state
// machine.
package session

import (
	"strings"
	"unicode"

	"github.com/verte-zerg/typeline/internal/feed"
)

// Hit is one committed keystroke outcome. Dirty is true when at least one
// mistake preceded the matching keystroke.
type Hit struct {
	Target rune
	Dirty  bool
}

// Line is the full hit record of a completed line.
type Line struct {
	Hits []Hit
}

// String reconstructs the line's target text.
func (l Line) String() string {
	var b strings.Builder
	for _, h := range l.Hits {
		b.WriteRune(h.Target)
	}
	return b.String()
}

// Words counts the whitespace-separated words of the line.
func (l Line) Words() int {
	return len(strings.Fields(l.String()))
}

// Session tracks the active line: committed hits, pending targets, and the
// in-flight error buffer. Input never blocks and never fails; characters
// outside the accepted classes are ignored.
type Session struct {
	feed      *feed.Feed
	maxErrors int

	hits    []Hit
	targets []rune
	errors  []rune
}

// New returns a Session reading lines from f. The error buffer holds at
// most maxErrors-1 pending mistakes.
func New(f *feed.Feed, maxErrors int) *Session {
	if maxErrors < 1 {
		maxErrors = 1
	}
	s := &Session{feed: f, maxErrors: maxErrors}
	s.loadNextLine()
	return s
}

// ApplyChar feeds one input character through the state machine. On line
// completion the full hit record is returned with ok = true and the next
// buffered line becomes active.
func (s *Session) ApplyChar(r rune) (Line, bool) {
	if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
		return Line{}, false
	}
	if len(s.targets) == 0 {
		s.loadNextLine()
	}
	if r != s.targets[0] {
		// Mistakes beyond the buffer bound are dropped, not queued.
		if len(s.errors) < s.maxErrors-1 {
			s.errors = append(s.errors, r)
		}
		return Line{}, false
	}

	s.hits = append(s.hits, Hit{Target: r, Dirty: len(s.errors) > 0})
	s.errors = s.errors[:0]
	s.targets = s.targets[1:]
	if len(s.targets) > 0 {
		return Line{}, false
	}

	line := Line{Hits: append([]Hit(nil), s.hits...)}
	s.loadNextLine()
	return line, true
}

// Backspace pops the most recent pending mistake. Committed hits are never
// retracted; with an empty error buffer this is a no-op.
func (s *Session) Backspace() {
	if len(s.errors) == 0 {
		return
	}
	s.errors = s.errors[:len(s.errors)-1]
}

// FillNextLines tops up the feed's lookahead buffer.
func (s *Session) FillNextLines() {
	s.feed.FillNextLines()
}

// UpdateWords injects a batch of words ahead of freshly sampled ones in
// the feed. Used to fulfill proficiency refill requests.
func (s *Session) UpdateWords(words []string) {
	s.feed.UpdateWords(words)
}

// Reset discards the active line and starts over from the next buffered
// line. Called when a profile becomes active.
func (s *Session) Reset() {
	s.loadNextLine()
}

// Hits returns the committed hits of the active line.
func (s *Session) Hits() []Hit {
	return s.hits
}

// Errors returns the pending mistakes for the active target.
func (s *Session) Errors() []rune {
	return s.errors
}

// ActiveTarget returns the character the user must type next.
func (s *Session) ActiveTarget() (rune, bool) {
	if len(s.targets) == 0 {
		return 0, false
	}
	return s.targets[0], true
}

// PendingTargets returns the not-yet-attempted characters of the active
// line, the active target first.
func (s *Session) PendingTargets() []rune {
	return s.targets
}

// NextLines returns the buffered upcoming lines for rendering.
func (s *Session) NextLines() []string {
	return s.feed.NextLines()
}

func (s *Session) loadNextLine() {
	s.hits = s.hits[:0]
	s.errors = s.errors[:0]
	s.targets = []rune(s.feed.AdvanceLine())
}
