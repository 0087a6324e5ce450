package lesson

import (
	"sort"
	"strings"
	"time"
)

// CategoryOther is the category recorded when the caller supplies none.
const CategoryOther = "other"

// Completion records a single finished lesson.
type Completion struct {
	ID          string
	Category    string
	CompletedAt time.Time
}

// NormalizeCategory trims the category and maps blank input to CategoryOther.
func NormalizeCategory(category string) string {
	c := strings.TrimSpace(category)
	if c == "" {
		return CategoryOther
	}
	return c
}

// Log is an insertion-ordered set of completions keyed by lesson ID.
// The zero value is ready to use. Log is not safe for concurrent use.
type Log struct {
	entries []Completion
	index   map[string]int
}

// NewLog builds a log from completions in order. Later duplicates of an ID
// are ignored, matching Add.
func NewLog(completions []Completion) *Log {
	l := &Log{}
	for _, c := range completions {
		l.Add(c)
	}
	return l
}

// Add appends c unless a completion with the same ID already exists.
// It reports whether the log changed.
func (l *Log) Add(c Completion) bool {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if _, ok := l.index[c.ID]; ok {
		return false
	}
	l.index[c.ID] = len(l.entries)
	l.entries = append(l.entries, c)
	return true
}

// Has reports whether the lesson has been completed.
func (l *Log) Has(id string) bool {
	_, ok := l.index[id]
	return ok
}

// Get returns the completion for id.
func (l *Log) Get(id string) (Completion, bool) {
	i, ok := l.index[id]
	if !ok {
		return Completion{}, false
	}
	return l.entries[i], true
}

// Len returns the number of completions.
func (l *Log) Len() int {
	return len(l.entries)
}

// All returns a copy of the completions in insertion order.
func (l *Log) All() []Completion {
	out := make([]Completion, len(l.entries))
	copy(out, l.entries)
	return out
}

// CountByCategory returns how many completions carry the given category.
func (l *Log) CountByCategory(category string) int {
	n := 0
	for _, c := range l.entries {
		if c.Category == category {
			n++
		}
	}
	return n
}

// CategoryCounts returns the completion count for every category seen.
func (l *Log) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, c := range l.entries {
		counts[c.Category]++
	}
	return counts
}

// Categories returns the distinct categories in sorted order.
func (l *Log) Categories() []string {
	counts := l.CategoryCounts()
	out := make([]string, 0, len(counts))
	for c := range counts {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Recent returns up to n completions, newest first. Completions sharing a
// timestamp are ordered by insertion, the later insertion first.
func (l *Log) Recent(n int) []Completion {
	if n <= 0 || len(l.entries) == 0 {
		return nil
	}
	order := make([]int, len(l.entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := l.entries[order[a]].CompletedAt, l.entries[order[b]].CompletedAt
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		return order[a] > order[b]
	})
	if n > len(order) {
		n = len(order)
	}
	out := make([]Completion, n)
	for i := 0; i < n; i++ {
		out[i] = l.entries[order[i]]
	}
	return out
}
