package corpus

import (
	"strings"
	"testing"
)

func TestLoadSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		"hello 10",
		"world",
		"three fields here",
		"bad-word 5",
		"negative -1",
		"notanumber x",
		"go 2.5",
		"",
	}, "\n")

	src, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if src.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", src.Len())
	}
}

func TestRandomWordFallsBackWhenEmpty(t *testing.T) {
	src := Default()
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		word := src.RandomWord()
		if word == "" {
			t.Fatalf("expected non-empty fallback word")
		}
		seen[word] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("expected varied fallback draws, got %d distinct", len(seen))
	}
}

func TestRandomWordZeroWeightsFallBack(t *testing.T) {
	src, err := Load(strings.NewReader("hello 0\nworld 0\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	word := src.RandomWord()
	if word == "hello" || word == "world" {
		t.Fatalf("expected fallback draw, got corpus word %q", word)
	}
}

func TestRandomWordDistribution(t *testing.T) {
	src, err := Load(strings.NewReader("a 1\nb 1\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	const draws = 10000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		counts[src.RandomWord()]++
	}
	for _, word := range []string{"a", "b"} {
		share := float64(counts[word]) / draws
		if share < 0.45 || share > 0.55 {
			t.Fatalf("word %q drawn %.1f%% of the time, want 45-55%%", word, share*100)
		}
	}
}

func TestRandomWordRespectsWeights(t *testing.T) {
	src, err := Load(strings.NewReader("heavy 9\nlight 1\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	const draws = 10000
	heavy := 0
	for i := 0; i < draws; i++ {
		if src.RandomWord() == "heavy" {
			heavy++
		}
	}
	share := float64(heavy) / draws
	if share < 0.85 || share > 0.95 {
		t.Fatalf("heavy drawn %.1f%% of the time, want ~90%%", share*100)
	}
}

func TestWeightedBatchBiasesWeakLetters(t *testing.T) {
	src, err := Load(strings.NewReader("zoo 1\nmoo 1\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	weak := map[rune]struct{}{'z': {}}
	const draws = 10000
	words := src.WeightedBatch(draws, weak, 10)
	zoo := 0
	for _, w := range words {
		if w == "zoo" {
			zoo++
		}
	}
	share := float64(zoo) / draws
	if share < 0.75 {
		t.Fatalf("weak-biased word drawn %.1f%% of the time, want > 75%%", share*100)
	}
}

func TestWeightedBatchWithoutWeakSetMatchesBatch(t *testing.T) {
	src, err := Load(strings.NewReader("only 1\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	words := src.WeightedBatch(5, nil, 2)
	if len(words) != 5 {
		t.Fatalf("expected 5 words, got %d", len(words))
	}
	for _, w := range words {
		if w != "only" {
			t.Fatalf("unexpected word %q", w)
		}
	}
}
