package store

import (
	"context"
	"sync"
)

// AsyncSaver writes snapshots from one background goroutine so callers never
// wait on storage. Only the newest pending write is kept: a Save or Clear
// issued while another is queued replaces it.
type AsyncSaver struct {
	inner *Adapter

	mu      sync.Mutex
	pending *asyncOp
	busy    bool
	closed  bool
	idle    chan struct{}

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

type asyncOp struct {
	ctx   context.Context
	snap  *Snapshot
	clear bool
}

// NewAsyncSaver starts the background writer. Close must be called to stop it.
func NewAsyncSaver(inner *Adapter) *AsyncSaver {
	s := &AsyncSaver{
		inner: inner,
		idle:  make(chan struct{}),
		wake:  make(chan struct{}, 1),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// Load reads synchronously through the wrapped Adapter.
func (s *AsyncSaver) Load(ctx context.Context) *Snapshot {
	return s.inner.Load(ctx)
}

// Save queues snap for writing. After Close it writes synchronously.
func (s *AsyncSaver) Save(ctx context.Context, snap *Snapshot) {
	s.enqueue(&asyncOp{ctx: context.WithoutCancel(ctx), snap: snap})
}

// Clear queues removal of the stored snapshot, superseding any queued save.
func (s *AsyncSaver) Clear(ctx context.Context) {
	s.enqueue(&asyncOp{ctx: context.WithoutCancel(ctx), clear: true})
}

func (s *AsyncSaver) enqueue(op *asyncOp) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.apply(op)
		return
	}
	s.pending = op
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Flush waits until every queued write has been applied or ctx is done.
func (s *AsyncSaver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.pending == nil && !s.busy {
		s.mu.Unlock()
		return nil
	}
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close applies any queued write, stops the background goroutine and closes
// the underlying store. It is safe to call more than once.
func (s *AsyncSaver) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.quit)
	<-s.done
	return s.inner.Close()
}

func (s *AsyncSaver) run() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.drain()
		case <-s.quit:
			s.drain()
			return
		}
	}
}

func (s *AsyncSaver) drain() {
	for {
		s.mu.Lock()
		op := s.pending
		s.pending = nil
		if op == nil {
			if s.busy {
				s.busy = false
				close(s.idle)
				s.idle = make(chan struct{})
			}
			s.mu.Unlock()
			return
		}
		s.busy = true
		s.mu.Unlock()

		s.apply(op)
	}
}

func (s *AsyncSaver) apply(op *asyncOp) {
	if op.clear {
		s.inner.Clear(op.ctx)
		return
	}
	s.inner.Save(op.ctx, op.snap)
}
