package scoring

import (
	"testing"

	"github.com/omrilahav/cursor-for-designers/internal/lesson"
)

func threeLevels(t *testing.T) Levels {
	t.Helper()
	ls, err := NewLevels([]Level{
		{Number: 1, MinPoints: 0},
		{Number: 2, MinPoints: 500},
		{Number: 3, MinPoints: 1000},
	})
	if err != nil {
		t.Fatalf("NewLevels: %v", err)
	}
	return ls
}

func TestLevelsFor(t *testing.T) {
	ls := threeLevels(t)

	tests := []struct {
		points int
		want   int
	}{
		{0, 1},
		{-10, 1},
		{499, 1},
		{500, 2},
		{999, 2},
		{1000, 3},
		{100000, 3},
	}

	for _, tt := range tests {
		got := ls.For(tt.points)
		if got.Number != tt.want {
			t.Errorf("For(%d) = level %d, want %d", tt.points, got.Number, tt.want)
		}
	}
}

func TestLevelsFor_Monotonic(t *testing.T) {
	ls := DefaultLevels()
	prev := ls.For(0).Number
	for p := 0; p <= 6000; p += 50 {
		n := ls.For(p).Number
		if n < prev {
			t.Fatalf("level decreased from %d to %d at %d points", prev, n, p)
		}
		prev = n
	}
}

func TestLevelsFor_FirstThresholdAboveZero(t *testing.T) {
	ls, err := NewLevels([]Level{{Number: 1, MinPoints: 100}, {Number: 2, MinPoints: 200}})
	if err != nil {
		t.Fatalf("NewLevels: %v", err)
	}
	if got := ls.For(50).Number; got != 1 {
		t.Errorf("For(50) = %d, want 1", got)
	}
}

func TestNewLevels_Errors(t *testing.T) {
	tests := []struct {
		name   string
		levels []Level
	}{
		{"empty", nil},
		{"negative", []Level{{Number: 1, MinPoints: -1}}},
		{"duplicate threshold", []Level{{Number: 1, MinPoints: 0}, {Number: 2, MinPoints: 0}}},
		{"numbers out of order", []Level{{Number: 2, MinPoints: 0}, {Number: 1, MinPoints: 100}}},
		{"starts above level 1", []Level{{Number: 3, MinPoints: 100}, {Number: 4, MinPoints: 200}}},
		{"gap in numbering", []Level{{Number: 1, MinPoints: 0}, {Number: 3, MinPoints: 200}}},
		{"repeated number", []Level{{Number: 1, MinPoints: 0}, {Number: 1, MinPoints: 200}}},
	}
	for _, tt := range tests {
		if _, err := NewLevels(tt.levels); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestNewLevels_SortsByThreshold(t *testing.T) {
	ls, err := NewLevels([]Level{{Number: 2, MinPoints: 500}, {Number: 1, MinPoints: 0}})
	if err != nil {
		t.Fatalf("NewLevels: %v", err)
	}
	if ls[0].Number != 1 || ls[1].Number != 2 {
		t.Errorf("unexpected order: %+v", ls)
	}
}

func TestProgress(t *testing.T) {
	ls := threeLevels(t)

	p := ls.Progress(750)
	if p.Current.Number != 2 {
		t.Errorf("Current = %d, want 2", p.Current.Number)
	}
	if p.Next == nil || p.Next.Number != 3 {
		t.Fatalf("Next = %+v, want level 3", p.Next)
	}
	if p.Remaining() != 250 {
		t.Errorf("Remaining = %d, want 250", p.Remaining())
	}
	if p.Percent() != 0.5 {
		t.Errorf("Percent = %v, want 0.5", p.Percent())
	}

	top := ls.Progress(5000)
	if top.Next != nil {
		t.Errorf("expected no next level at the top, got %+v", top.Next)
	}
	if top.Remaining() != 0 || top.Percent() != 1 {
		t.Errorf("top progress = %d / %v, want 0 / 1", top.Remaining(), top.Percent())
	}
}

func TestLevel_DisplayName(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{Level{Number: 3}, "Level 3"},
		{Level{Number: 2, Name: "Explorer"}, "Level 2 · Explorer"},
	}
	for _, tt := range tests {
		if got := tt.level.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestRules_PointsFor(t *testing.T) {
	r := Rules{DefaultPoints: 100, CategoryPoints: map[string]int{"project": 250, "broken": -5}}

	tests := []struct {
		category string
		want     int
	}{
		{"training", 100},
		{"project", 250},
		{"broken", 0},
		{"", 100},
	}
	for _, tt := range tests {
		if got := r.PointsFor(tt.category); got != tt.want {
			t.Errorf("PointsFor(%q) = %d, want %d", tt.category, got, tt.want)
		}
	}
}

func TestRules_Total(t *testing.T) {
	r := DefaultRules()
	got := r.Total([]lesson.Completion{{ID: "a"}, {ID: "b", Category: "game"}})
	if got != 200 {
		t.Errorf("Total = %d, want 200", got)
	}
	if r.Total(nil) != 0 {
		t.Error("Total(nil) should be 0")
	}
}
