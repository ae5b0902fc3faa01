package money

import "testing"

func TestParse(t *testing.T) {
	if got := Parse("1,250,000"); got != 1250000 {
		t.Fatalf("expected 1250000, got %v", got)
	}
	if got := Parse(" 63333.33 "); got != 63333.33 {
		t.Fatalf("expected 63333.33, got %v", got)
	}
	if got := Parse("not-a-number"); got != 0 {
		t.Fatalf("expected 0 for garbage input, got %v", got)
	}
	if got := Parse(""); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
}

func TestSumBy(t *testing.T) {
	type line struct{ total float64 }
	lines := []line{{100}, {250.5}, {0}}
	got := SumBy(lines, func(l line) float64 { return l.total })
	if got != 350.5 {
		t.Fatalf("expected 350.5, got %v", got)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(63333.333333); got != 63333.33 {
		t.Fatalf("expected 63333.33, got %v", got)
	}
	if got := Round2(0.005); got != 0.01 {
		t.Fatalf("expected 0.01, got %v", got)
	}
}
