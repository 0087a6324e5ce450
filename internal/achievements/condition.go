package achievements

// Facts is the read-only view of progress that conditions are evaluated on.
type Facts interface {
	Len() int
	Has(id string) bool
	CountByCategory(category string) int
	Categories() []string
	TotalPoints() int
}

// Condition decides whether an achievement is earned. Implementations must
// be deterministic and monotonic: once true, adding completions keeps them true.
type Condition interface {
	Satisfied(f Facts) bool
}

// ConditionFunc adapts a function to Condition.
type ConditionFunc func(f Facts) bool

func (fn ConditionFunc) Satisfied(f Facts) bool {
	if fn == nil {
		return false
	}
	return fn(f)
}

// MinTotal holds once at least N lessons are completed.
type MinTotal struct{ N int }

func (c MinTotal) Satisfied(f Facts) bool { return f.Len() >= c.N }

// MinInCategory holds once at least N lessons of Category are completed.
type MinInCategory struct {
	Category string
	N        int
}

func (c MinInCategory) Satisfied(f Facts) bool { return f.CountByCategory(c.Category) >= c.N }

// CompletedAll holds once every listed lesson is completed.
type CompletedAll struct{ IDs []string }

func (c CompletedAll) Satisfied(f Facts) bool {
	if len(c.IDs) == 0 {
		return false
	}
	for _, id := range c.IDs {
		if !f.Has(id) {
			return false
		}
	}
	return true
}

// CompletedAny holds once any listed lesson is completed.
type CompletedAny struct{ IDs []string }

func (c CompletedAny) Satisfied(f Facts) bool {
	for _, id := range c.IDs {
		if f.Has(id) {
			return true
		}
	}
	return false
}

// MinCategories holds once completions span at least N distinct categories.
type MinCategories struct{ N int }

func (c MinCategories) Satisfied(f Facts) bool { return len(f.Categories()) >= c.N }

// MinPoints holds once the point total reaches N.
type MinPoints struct{ N int }

func (c MinPoints) Satisfied(f Facts) bool { return f.TotalPoints() >= c.N }

// All holds when every nested condition holds. An empty All never holds.
type All []Condition

func (c All) Satisfied(f Facts) bool {
	if len(c) == 0 {
		return false
	}
	for _, cond := range c {
		if !satisfied(cond, f) {
			return false
		}
	}
	return true
}

// Any holds when at least one nested condition holds.
type Any []Condition

func (c Any) Satisfied(f Facts) bool {
	for _, cond := range c {
		if satisfied(cond, f) {
			return true
		}
	}
	return false
}

// Never is the condition of a malformed definition. Reason explains what was
// wrong with it.
type Never struct{ Reason string }

func (Never) Satisfied(Facts) bool { return false }
