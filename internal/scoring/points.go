package scoring

import "github.com/omrilahav/cursor-for-designers/internal/lesson"

// DefaultLessonPoints is the flat amount every completion is worth unless a
// category override applies.
const DefaultLessonPoints = 100

// Rules decides how many points a completion is worth.
type Rules struct {
	DefaultPoints  int
	CategoryPoints map[string]int // category → points, overrides DefaultPoints
}

// DefaultRules returns flat-rate scoring.
func DefaultRules() Rules {
	return Rules{DefaultPoints: DefaultLessonPoints}
}

// PointsFor returns the points awarded for one completion in category.
// Negative configuration values are clamped to zero so totals never decrease.
func (r Rules) PointsFor(category string) int {
	p := r.DefaultPoints
	if v, ok := r.CategoryPoints[category]; ok {
		p = v
	}
	if p < 0 {
		return 0
	}
	return p
}

// Total sums the points of all completions.
func (r Rules) Total(completions []lesson.Completion) int {
	total := 0
	for _, c := range completions {
		total += r.PointsFor(c.Category)
	}
	return total
}
