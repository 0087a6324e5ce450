package achievements

import "time"

// Definition is a catalog entry. Only ID and Condition matter for unlocking;
// the rest is display metadata.
type Definition struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Condition   Condition
}

// Achievement is a definition together with its unlock state.
type Achievement struct {
	Definition
	Unlocked   bool
	UnlockedAt *time.Time
}

// Locked returns every definition as a locked achievement, in order.
func Locked(defs []Definition) []Achievement {
	out := make([]Achievement, len(defs))
	for i, d := range defs {
		out[i] = Achievement{Definition: d}
	}
	return out
}

// Evaluate returns the IDs of locked achievements whose condition now holds,
// in list order. It has no side effects. A missing condition, or one that
// panics, counts as unmet and does not affect the other achievements.
func Evaluate(f Facts, list []Achievement) []string {
	var ids []string
	for _, a := range list {
		if a.Unlocked {
			continue
		}
		if satisfied(a.Condition, f) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// satisfied evaluates c and fails closed.
func satisfied(c Condition, f Facts) (ok bool) {
	if c == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return c.Satisfied(f)
}
