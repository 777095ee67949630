package metric

import (
	"errors"
	"math"
	"testing"
)

func TestValueAtBreakpoints(t *testing.T) {
	tp, err := New(0.5, 0.9, 0.975)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	cases := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{0.5, 0},
		{0.9, 0.5},
		{0.975, 1},
		{1, 1},
		{0.7, 0.25},
	}
	for _, c := range cases {
		got := tp.Value(c.x)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("Value(%v) = %v, want %v", c.x, got, c.want)
		}
	}
}

func TestValueMonotonic(t *testing.T) {
	tp, err := New(0.2, 0.4, 0.8)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	prev := -1.0
	for i := 0; i <= 1000; i++ {
		x := float64(i) / 1000
		v := tp.Value(x)
		if v < prev {
			t.Fatalf("Value(%v) = %v dropped below previous %v", x, v, prev)
		}
		if v < 0 || v > 1 {
			t.Fatalf("Value(%v) = %v outside [0,1]", x, v)
		}
		prev = v
	}
}

func TestNewRejectsDescendingBreakpoints(t *testing.T) {
	if _, err := New(0.9, 0.5, 0.2); err == nil {
		t.Fatalf("expected error for descending breakpoints")
	} else {
		var rangeErr ErrInvalidRange
		if !errors.As(err, &rangeErr) {
			t.Fatalf("expected ErrInvalidRange, got %T", err)
		}
	}
}

func TestNewRejectsOutOfBounds(t *testing.T) {
	if _, err := New(-0.1, 0.5, 0.9); err == nil {
		t.Fatalf("expected error for lo < 0")
	}
	if _, err := New(0.1, 0.5, 1.1); err == nil {
		t.Fatalf("expected error for hi > 1")
	}
}

func TestNewAllowsEqualBreakpoints(t *testing.T) {
	tp, err := New(0.5, 0.5, 0.5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := tp.Value(0.4); got != 0 {
		t.Fatalf("Value below collapsed breakpoints = %v, want 0", got)
	}
	if got := tp.Value(0.6); got != 1 {
		t.Fatalf("Value above collapsed breakpoints = %v, want 1", got)
	}
}

func TestDefaultCoversRange(t *testing.T) {
	tp := Default()
	if got := tp.Value(0); got != 0 {
		t.Fatalf("Default().Value(0) = %v, want 0", got)
	}
	if got := tp.Value(1); got != 1 {
		t.Fatalf("Default().Value(1) = %v, want 1", got)
	}
	if got := tp.Value(0.5); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("Default().Value(0.5) = %v, want 0.5", got)
	}
}
