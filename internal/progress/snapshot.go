package progress

import (
	"github.com/omrilahav/cursor-for-designers/internal/achievements"
	"github.com/omrilahav/cursor-for-designers/internal/lesson"
	"github.com/omrilahav/cursor-for-designers/internal/store"
)

// restore replaces the tracker state with snap, re-joining achievement
// metadata from the catalog. It returns how many persisted achievements
// were dropped because the catalog no longer defines them. Callers must
// hold mu or own t exclusively.
func (t *Tracker) restore(snap *store.Snapshot) int {
	if snap == nil {
		snap = store.Empty()
	}

	completions := make([]lesson.Completion, 0, len(snap.Completions))
	for _, rec := range snap.Completions {
		if rec.ID == "" {
			continue
		}
		completions = append(completions, lesson.Completion{
			ID:          rec.ID,
			Category:    lesson.NormalizeCategory(rec.Category),
			CompletedAt: rec.CompletedAt,
		})
	}
	t.log = lesson.NewLog(completions)

	stored := make(map[string]store.AchievementRecord, len(snap.Achievements))
	for _, rec := range snap.Achievements {
		if _, ok := stored[rec.ID]; !ok {
			stored[rec.ID] = rec
		}
	}

	t.achievements = achievements.Locked(t.cat.Definitions)
	matched := 0
	for i := range t.achievements {
		a := &t.achievements[i]
		rec, ok := stored[a.ID]
		if !ok {
			continue
		}
		matched++
		if rec.Unlocked {
			a.Unlocked = true
			if rec.UnlockedAt != nil {
				at := *rec.UnlockedAt
				a.UnlockedAt = &at
			}
		}
	}
	return len(stored) - matched
}

// snapshot returns the persisted form of the current state. It must be
// called with mu held.
func (t *Tracker) snapshot() *store.Snapshot {
	snap := store.Empty()
	for _, c := range t.log.All() {
		snap.Completions = append(snap.Completions, store.CompletionRecord{
			ID:          c.ID,
			Category:    c.Category,
			CompletedAt: c.CompletedAt,
		})
	}
	for _, a := range t.achievements {
		rec := store.AchievementRecord{ID: a.ID, Unlocked: a.Unlocked}
		if a.Unlocked && a.UnlockedAt != nil {
			at := *a.UnlockedAt
			rec.UnlockedAt = &at
		}
		snap.Achievements = append(snap.Achievements, rec)
	}
	return snap
}
