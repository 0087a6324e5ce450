package progress

import "github.com/google/uuid"

// ChangeKind identifies what kind of mutation a Change reports.
type ChangeKind int

const (
	// ChangeCompleted follows a successful, non-duplicate CompleteLesson.
	ChangeCompleted ChangeKind = iota + 1
	// ChangeReset follows Reset.
	ChangeReset
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeCompleted:
		return "completed"
	case ChangeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after the tracker state has changed.
type Change struct {
	Kind   ChangeKind
	Result Result
}

type subscription struct {
	id uuid.UUID
	fn func(Change)
}

// Subscribe registers fn to be called after every mutation. Subscribers run
// in the order they subscribed, with no tracker locks held, and receive
// changes in commit order. Only one goroutine delivers at a time, so a
// subscriber that mutates the tracker sees its own change after it returns.
// The returned function removes the subscription.
func (t *Tracker) Subscribe(fn func(Change)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	id := uuid.New()

	t.subMu.Lock()
	t.subs = append(t.subs, subscription{id: id, fn: fn})
	t.subMu.Unlock()

	return func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		for i, s := range t.subs {
			if s.id == id {
				t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

func (t *Tracker) notify(c Change) {
	t.subMu.Lock()
	subs := make([]subscription, len(t.subs))
	copy(subs, t.subs)
	t.subMu.Unlock()

	for _, s := range subs {
		s.fn(c)
	}
}

// enqueue records c for delivery. Callers hold writeMu.
func (t *Tracker) enqueue(c Change) {
	t.queueMu.Lock()
	t.pending = append(t.pending, c)
	t.queueMu.Unlock()
}

// deliver drains pending changes to subscribers unless another goroutine is
// already doing so, in which case that goroutine picks them up.
func (t *Tracker) deliver() {
	t.queueMu.Lock()
	if t.delivering {
		t.queueMu.Unlock()
		return
	}
	t.delivering = true

	for len(t.pending) > 0 {
		c := t.pending[0]
		t.pending = t.pending[1:]
		t.queueMu.Unlock()
		t.notify(c)
		t.queueMu.Lock()
	}
	t.pending = nil
	t.delivering = false
	t.queueMu.Unlock()
}
