// Package feed assembles corpus words into bounded-width practice lines.
package feed

import (
	"strings"
	"unicode/utf8"

	"github.com/verte-zerg/typeline/internal/corpus"
)

// Feed packs words into lines under a column budget and keeps a bounded
// lookahead buffer of upcoming lines.
type Feed struct {
	src      *corpus.Source
	width    int
	minDepth int

	queue []string
	lines []string
}

// New returns a Feed over src with the given column budget and lookahead
// depth.
func New(src *corpus.Source, width, minDepth int) *Feed {
	if width < 1 {
		width = 1
	}
	if minDepth < 1 {
		minDepth = 1
	}
	return &Feed{src: src, width: width, minDepth: minDepth}
}

// UpdateWords injects externally supplied words ahead of freshly sampled
// ones. Used to push weak-letter-biased batches into upcoming lines.
func (f *Feed) UpdateWords(words []string) {
	if len(words) == 0 {
		return
	}
	queue := make([]string, 0, len(words)+len(f.queue))
	queue = append(queue, words...)
	queue = append(queue, f.queue...)
	f.queue = queue
}

// FillNextLines assembles lines until the lookahead buffer reaches the
// configured depth. Idempotent once the depth is satisfied.
func (f *Feed) FillNextLines() {
	for len(f.lines) < f.minDepth {
		f.lines = append(f.lines, f.assembleLine())
	}
}

// AdvanceLine pops the next buffered line, assembling one on demand when
// the buffer is empty.
func (f *Feed) AdvanceLine() string {
	if len(f.lines) == 0 {
		return f.assembleLine()
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line
}

// NextLines returns a snapshot of the buffered lines for rendering.
func (f *Feed) NextLines() []string {
	out := make([]string, len(f.lines))
	copy(out, f.lines)
	return out
}

// Depth reports the current lookahead buffer size.
func (f *Feed) Depth() int {
	return len(f.lines)
}

func (f *Feed) assembleLine() string {
	var b strings.Builder
	length := 0
	for {
		word := f.nextWord()
		wlen := utf8.RuneCountInString(word)
		if length == 0 {
			// An oversized word is clipped so a line never exceeds
			// the budget.
			if wlen > f.width {
				word = string([]rune(word)[:f.width])
				wlen = f.width
			}
			b.WriteString(word)
			length = wlen
			continue
		}
		if length+1+wlen > f.width {
			// Does not fit; defer to the next line.
			f.pushBack(word)
			return b.String()
		}
		b.WriteByte(' ')
		b.WriteString(word)
		length += 1 + wlen
	}
}

func (f *Feed) nextWord() string {
	for len(f.queue) > 0 {
		word := f.queue[0]
		f.queue = f.queue[1:]
		if word != "" {
			return word
		}
	}
	return f.src.RandomWord()
}

func (f *Feed) pushBack(word string) {
	f.queue = append([]string{word}, f.queue...)
}
