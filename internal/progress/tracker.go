// Package progress tracks which lessons a learner has completed and which
// achievements those completions have unlocked.
package progress

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/omrilahav/cursor-for-designers/internal/achievements"
	"github.com/omrilahav/cursor-for-designers/internal/catalog"
	"github.com/omrilahav/cursor-for-designers/internal/lesson"
	"github.com/omrilahav/cursor-for-designers/internal/scoring"
	"github.com/omrilahav/cursor-for-designers/internal/store"
)

// ErrEmptyLessonID is returned by CompleteLesson for a blank lesson ID.
var ErrEmptyLessonID = errors.New("lesson id must not be empty")

// Persistence loads and saves snapshots. Implementations swallow their own
// errors; *store.Adapter and *store.AsyncSaver both qualify.
type Persistence interface {
	Load(ctx context.Context) *store.Snapshot
	Save(ctx context.Context, snap *store.Snapshot)
	Clear(ctx context.Context)
	Close() error
}

// Result describes the effect of one CompleteLesson call.
type Result struct {
	Completion lesson.Completion

	// Duplicate is set when the lesson was already completed. Nothing
	// changed and nothing was saved.
	Duplicate bool

	// Unlocked lists achievements unlocked by this completion, in catalog order.
	Unlocked []achievements.Achievement

	PointsBefore int
	PointsAfter  int
	LevelBefore  scoring.Level
	LevelAfter   scoring.Level
}

// LeveledUp reports whether the completion moved the learner up a level.
func (r Result) LeveledUp() bool {
	return r.LevelAfter.Number > r.LevelBefore.Number
}

// Tracker is the progress store. It is safe for concurrent use; mutations
// are serialized and readers always see the latest committed state.
type Tracker struct {
	cat     *catalog.Catalog
	persist Persistence
	clock   func() time.Time
	logger  *zap.Logger

	// writeMu serializes mutations including their save, so snapshots
	// reach storage in commit order.
	writeMu sync.Mutex

	mu           sync.RWMutex
	log          *lesson.Log
	achievements []achievements.Achievement

	subMu sync.Mutex
	subs  []subscription

	// pending holds committed changes not yet delivered. It is appended to
	// under writeMu, so its order is commit order.
	queueMu    sync.Mutex
	pending    []Change
	delivering bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source used for completion and unlock timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.clock = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// Open restores progress from p and reconciles it with cat. Persisted
// achievements missing from the catalog are dropped and new catalog
// achievements start locked. Achievements already earned by the restored
// completions are unlocked immediately.
//
// A nil p keeps progress in memory only. Open never fails: unreadable
// stored data yields an empty tracker.
func Open(ctx context.Context, cat *catalog.Catalog, p Persistence, opts ...Option) *Tracker {
	if cat == nil {
		cat = catalog.Default()
	}
	if p == nil {
		p = nopPersistence{}
	}
	t := &Tracker{
		cat:     cat,
		persist: p,
		clock:   time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	snap := p.Load(ctx)
	dropped := t.restore(snap)
	unlocked := t.unlockSatisfied(t.clock())

	if dropped > 0 || len(unlocked) > 0 {
		t.logger.Debug("reconciled stored progress with catalog",
			zap.Int("dropped", dropped),
			zap.Int("unlocked", len(unlocked)),
		)
		p.Save(ctx, t.snapshot())
	}
	return t
}

// CompleteLesson records a completed lesson, unlocks any achievements it
// earns and saves the result. Completing a lesson twice is a no-op. A blank
// category is recorded as lesson.CategoryOther.
//
// Storage failures are logged, never returned; the only error is
// ErrEmptyLessonID. Subscribers see changes in commit order; when another
// goroutine is already delivering, the change is handed to it and may reach
// subscribers after CompleteLesson returns.
func (t *Tracker) CompleteLesson(ctx context.Context, id, category string) (Result, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Result{}, ErrEmptyLessonID
	}

	t.writeMu.Lock()

	t.mu.Lock()
	before := t.totalPoints()
	if existing, ok := t.log.Get(id); ok {
		t.mu.Unlock()
		t.writeMu.Unlock()
		lvl := t.cat.Levels.For(before)
		return Result{
			Completion:   existing,
			Duplicate:    true,
			PointsBefore: before,
			PointsAfter:  before,
			LevelBefore:  lvl,
			LevelAfter:   lvl,
		}, nil
	}

	now := t.clock()
	c := lesson.Completion{ID: id, Category: lesson.NormalizeCategory(category), CompletedAt: now}
	t.log.Add(c)
	unlocked := t.unlockSatisfied(now)
	after := t.totalPoints()
	snap := t.snapshot()
	t.mu.Unlock()

	t.persist.Save(ctx, snap)
	res := Result{
		Completion:   c,
		Unlocked:     unlocked,
		PointsBefore: before,
		PointsAfter:  after,
		LevelBefore:  t.cat.Levels.For(before),
		LevelAfter:   t.cat.Levels.For(after),
	}
	t.enqueue(Change{Kind: ChangeCompleted, Result: res})
	t.writeMu.Unlock()

	t.logger.Debug("lesson completed",
		zap.String("lesson", c.ID),
		zap.String("category", c.Category),
		zap.Int("points", after),
		zap.Int("unlocked", len(unlocked)),
	)

	t.deliver()
	return res, nil
}

// Reset discards all progress, relocks every achievement and removes the
// stored snapshot.
func (t *Tracker) Reset(ctx context.Context) {
	t.writeMu.Lock()

	t.mu.Lock()
	before := t.totalPoints()
	t.log = &lesson.Log{}
	t.achievements = achievements.Locked(t.cat.Definitions)
	t.mu.Unlock()

	t.persist.Clear(ctx)
	t.enqueue(Change{Kind: ChangeReset, Result: Result{
		PointsBefore: before,
		LevelBefore:  t.cat.Levels.For(before),
		LevelAfter:   t.cat.Levels.For(0),
	}})
	t.writeMu.Unlock()

	t.logger.Debug("progress reset", zap.Int("points_before", before))
	t.deliver()
}

// Close releases the persistence layer, flushing any pending write.
func (t *Tracker) Close() error {
	return t.persist.Close()
}

// Catalog returns the catalog the tracker evaluates against.
func (t *Tracker) Catalog() *catalog.Catalog {
	return t.cat
}

// CompletedLessons returns all completions in the order they were recorded.
func (t *Tracker) CompletedLessons() []lesson.Completion {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.log.All()
}

// IsCompleted reports whether the lesson has been completed.
func (t *Tracker) IsCompleted(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.log.Has(strings.TrimSpace(id))
}

// Achievements returns every catalog achievement with its unlock state, in
// catalog order.
func (t *Tracker) Achievements() []achievements.Achievement {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]achievements.Achievement, len(t.achievements))
	for i, a := range t.achievements {
		out[i] = cloneAchievement(a)
	}
	return out
}

// UnlockedCount returns the number of unlocked achievements.
func (t *Tracker) UnlockedCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, a := range t.achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// TotalPoints returns the points earned by all completions.
func (t *Tracker) TotalPoints() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.totalPoints()
}

// Level returns the learner's current level.
func (t *Tracker) Level() scoring.Level {
	return t.cat.Levels.For(t.TotalPoints())
}

// LevelProgress returns the learner's position within the current level.
func (t *Tracker) LevelProgress() scoring.Progress {
	return t.cat.Levels.Progress(t.TotalPoints())
}

// CountByCategory returns the number of completions in category.
func (t *Tracker) CountByCategory(category string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.log.CountByCategory(category)
}

// CategoryCounts returns completion counts for every category seen.
func (t *Tracker) CategoryCounts() map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.log.CategoryCounts()
}

// RecentActivity returns up to n completions, newest first.
func (t *Tracker) RecentActivity(n int) []lesson.Completion {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.log.Recent(n)
}

// totalPoints must be called with mu held.
func (t *Tracker) totalPoints() int {
	return t.cat.Rules.Total(t.log.All())
}

// unlockSatisfied unlocks every locked achievement whose condition now holds
// and returns copies of them. It must be called with mu held for writing.
func (t *Tracker) unlockSatisfied(now time.Time) []achievements.Achievement {
	ids := achievements.Evaluate(facts{log: t.log, rules: t.cat.Rules}, t.achievements)
	if len(ids) == 0 {
		return nil
	}
	hit := make(map[string]bool, len(ids))
	for _, id := range ids {
		hit[id] = true
	}

	var unlocked []achievements.Achievement
	for i := range t.achievements {
		a := &t.achievements[i]
		if !hit[a.ID] {
			continue
		}
		at := now
		a.Unlocked = true
		a.UnlockedAt = &at
		unlocked = append(unlocked, cloneAchievement(*a))
	}
	return unlocked
}

func cloneAchievement(a achievements.Achievement) achievements.Achievement {
	if a.UnlockedAt != nil {
		at := *a.UnlockedAt
		a.UnlockedAt = &at
	}
	return a
}

// facts exposes the completion log to the evaluator.
type facts struct {
	log   *lesson.Log
	rules scoring.Rules
}

func (f facts) Len() int                            { return f.log.Len() }
func (f facts) Has(id string) bool                  { return f.log.Has(id) }
func (f facts) CountByCategory(category string) int { return f.log.CountByCategory(category) }
func (f facts) Categories() []string                { return f.log.Categories() }
func (f facts) TotalPoints() int                    { return f.rules.Total(f.log.All()) }

type nopPersistence struct{}

func (nopPersistence) Load(context.Context) *store.Snapshot  { return store.Empty() }
func (nopPersistence) Save(context.Context, *store.Snapshot) {}
func (nopPersistence) Clear(context.Context)                 {}
func (nopPersistence) Close() error                          { return nil }
