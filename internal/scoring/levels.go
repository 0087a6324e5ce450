package scoring

import (
	"errors"
	"fmt"
	"sort"
)

// Level is one rung of the level ladder.
type Level struct {
	Number    int
	Name      string
	MinPoints int
}

// DisplayName returns "Level N" with the level name when one is set.
func (l Level) DisplayName() string {
	if l.Name == "" {
		return fmt.Sprintf("Level %d", l.Number)
	}
	return fmt.Sprintf("Level %d · %s", l.Number, l.Name)
}

// Levels is a ladder sorted by ascending MinPoints.
type Levels []Level

// DefaultLevels returns the built-in ladder.
func DefaultLevels() Levels {
	return Levels{
		{Number: 1, Name: "Newcomer", MinPoints: 0},
		{Number: 2, Name: "Explorer", MinPoints: 500},
		{Number: 3, Name: "Builder", MinPoints: 1000},
		{Number: 4, Name: "Designer", MinPoints: 2000},
		{Number: 5, Name: "Prompt Crafter", MinPoints: 3500},
		{Number: 6, Name: "Cursor Pro", MinPoints: 5000},
	}
}

// NewLevels sorts ls by MinPoints and checks that thresholds strictly
// increase and that levels are numbered 1, 2, 3... in threshold order.
func NewLevels(ls []Level) (Levels, error) {
	if len(ls) == 0 {
		return nil, errors.New("at least one level is required")
	}
	out := make(Levels, len(ls))
	copy(out, ls)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MinPoints < out[j].MinPoints })

	if out[0].Number != 1 {
		return nil, fmt.Errorf("lowest level must be level 1, got %d", out[0].Number)
	}
	if out[0].MinPoints < 0 {
		return nil, fmt.Errorf("level %d: negative threshold %d", out[0].Number, out[0].MinPoints)
	}
	for i := 1; i < len(out); i++ {
		if out[i].MinPoints == out[i-1].MinPoints {
			return nil, fmt.Errorf("levels %d and %d share threshold %d",
				out[i-1].Number, out[i].Number, out[i].MinPoints)
		}
		if out[i].Number != out[i-1].Number+1 {
			return nil, fmt.Errorf("level with threshold %d must be level %d, got %d",
				out[i].MinPoints, out[i-1].Number+1, out[i].Number)
		}
	}
	return out, nil
}

// For returns the highest level whose threshold is reached. Points below
// the first threshold map to the first level.
func (ls Levels) For(points int) Level {
	if len(ls) == 0 {
		return Level{Number: 1}
	}
	current := ls[0]
	for _, l := range ls[1:] {
		if points < l.MinPoints {
			break
		}
		current = l
	}
	return current
}

// Progress describes how far a point total is through its current level.
type Progress struct {
	Current Level
	Next    *Level // nil at the top of the ladder
	Points  int
}

// Progress returns the position of points on the ladder.
func (ls Levels) Progress(points int) Progress {
	cur := ls.For(points)
	p := Progress{Current: cur, Points: points}
	for i := range ls {
		if ls[i].MinPoints > cur.MinPoints {
			next := ls[i]
			p.Next = &next
			break
		}
	}
	return p
}

// Remaining returns the points still needed for the next level.
func (p Progress) Remaining() int {
	if p.Next == nil {
		return 0
	}
	if r := p.Next.MinPoints - p.Points; r > 0 {
		return r
	}
	return 0
}

// Percent returns completion of the current level in [0, 1].
func (p Progress) Percent() float64 {
	if p.Next == nil {
		return 1
	}
	span := p.Next.MinPoints - p.Current.MinPoints
	if span <= 0 {
		return 1
	}
	into := p.Points - p.Current.MinPoints
	if into < 0 {
		into = 0
	}
	f := float64(into) / float64(span)
	if f > 1 {
		f = 1
	}
	return f
}
