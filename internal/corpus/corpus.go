// Package corpus provides a frequency-weighted vocabulary sampler.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// fallbackWords keeps the sampler productive when no corpus is loaded.
var fallbackWords = []string{
	"the", "be", "to", "of", "and",
	"a", "in", "that", "have", "it",
	"for", "not", "on", "with", "as",
}

// Entry is one word of the frequency table with its sampling weight.
type Entry struct {
	Word   string
	Weight float64
}

// Source draws random words proportionally to their corpus frequency.
type Source struct {
	entries []Entry
	total   float64
	rnd     *rand.Rand
}

// Default returns a Source with an empty table; draws come from the
// built-in fallback vocabulary.
func Default() *Source {
	return &Source{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Load parses a frequency table from r. Each line holds a word and a
// non-negative weight, whitespace-delimited. Malformed lines are skipped.
func Load(r io.Reader) (*Source, error) {
	src := Default()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word, weight, ok := parseEntry(scanner.Text())
		if !ok {
			continue
		}
		src.entries = append(src.entries, Entry{Word: word, Weight: weight})
		src.total += weight
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return src, nil
}

// LoadFile reads a frequency table from path. An unreadable file is an
// error; callers typically fall back to Default.
func LoadFile(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()
	return Load(file)
}

func parseEntry(line string) (string, float64, bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, false
	}
	word := fields[0]
	if !isAlphaNumWord(word) {
		return "", 0, false
	}
	weight, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || weight < 0 {
		return "", 0, false
	}
	return word, weight, true
}

func isAlphaNumWord(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return word != ""
}

// Len reports the number of weighted entries.
func (s *Source) Len() int {
	return len(s.entries)
}

// RandomWord draws one word proportionally to weight. An empty or
// zero-weight table falls back to the built-in vocabulary, so a word is
// always returned.
func (s *Source) RandomWord() string {
	if len(s.entries) == 0 || s.total <= 0 {
		return fallbackWords[s.rnd.Intn(len(fallbackWords))]
	}
	r := s.rnd.Float64() * s.total
	acc := 0.0
	for _, e := range s.entries {
		acc += e.Weight
		if r <= acc {
			return e.Word
		}
	}
	return s.entries[len(s.entries)-1].Word
}

// Batch draws count independent weighted words.
func (s *Source) Batch(count int) []string {
	words := make([]string, 0, count)
	for i := 0; i < count; i++ {
		words = append(words, s.RandomWord())
	}
	return words
}

// WeightedBatch draws count words with an extra bias toward words
// containing weak letters. The bias is advisory weighting on top of the
// corpus frequencies, never a hard filter.
func (s *Source) WeightedBatch(count int, weak map[rune]struct{}, factor float64) []string {
	if len(s.entries) == 0 || s.total <= 0 || len(weak) == 0 || factor <= 0 {
		return s.Batch(count)
	}
	weights := make([]float64, len(s.entries))
	total := 0.0
	for i, e := range s.entries {
		weakCount := 0
		for _, r := range e.Word {
			if _, ok := weak[r]; ok {
				weakCount++
			}
		}
		w := e.Weight * (1.0 + float64(weakCount)*factor)
		weights[i] = w
		total += w
	}

	words := make([]string, 0, count)
	for i := 0; i < count; i++ {
		r := s.rnd.Float64() * total
		acc := 0.0
		idx := len(weights) - 1
		for j, w := range weights {
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		words = append(words, s.entries[idx].Word)
	}
	return words
}
