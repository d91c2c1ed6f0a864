package chatmarkup

import (
	"context"
	"sync"
)

// Scheduler runs callbacks on the presentation thread at its next idle turn.
type Scheduler interface {
	// Post queues fn. It must not run fn synchronously.
	Post(fn func())
}

// IdleLoop is a cooperative task queue. Post is safe from any goroutine; the
// queued callbacks run on whichever goroutine calls RunPending or Run.
type IdleLoop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewIdleLoop creates an empty loop.
func NewIdleLoop() *IdleLoop {
	return &IdleLoop{wake: make(chan struct{}, 1)}
}

// Post queues fn for the next turn. Nil callbacks are ignored.
func (l *IdleLoop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of queued callbacks.
func (l *IdleLoop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// RunPending runs one idle turn: every callback queued before the call, in
// order. Callbacks posted during the turn wait for the next one. Returns the
// number of callbacks run.
func (l *IdleLoop) RunPending() int {
	l.mu.Lock()
	tasks := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Run processes turns until ctx is done.
func (l *IdleLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			for l.RunPending() > 0 {
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
		}
	}
}

// Refresher coalesces dirty marks into a single scheduled refresh. Keys marked
// dirty before the refresh runs are delivered together, in first-marked order.
// It is not goroutine-safe: call it from the scheduler's thread.
type Refresher[K comparable] struct {
	sched     Scheduler
	refresh   func(keys []K)
	dirty     map[K]struct{}
	order     []K
	scheduled bool
}

// NewRefresher creates a refresher posting to sched and delivering to refresh.
func NewRefresher[K comparable](sched Scheduler, refresh func(keys []K)) *Refresher[K] {
	return &Refresher[K]{
		sched:   sched,
		refresh: refresh,
		dirty:   make(map[K]struct{}),
	}
}

// MarkDirty flags key and schedules a refresh unless one is already pending.
func (r *Refresher[K]) MarkDirty(key K) {
	if _, ok := r.dirty[key]; !ok {
		r.dirty[key] = struct{}{}
		r.order = append(r.order, key)
	}
	if r.scheduled {
		return
	}
	r.scheduled = true
	r.sched.Post(r.run)
}

// IsDirty reports whether key is waiting for a refresh.
func (r *Refresher[K]) IsDirty(key K) bool {
	_, ok := r.dirty[key]
	return ok
}

// Pending reports whether a refresh is scheduled.
func (r *Refresher[K]) Pending() bool {
	return r.scheduled
}

// Forget drops key from the dirty set without refreshing it.
func (r *Refresher[K]) Forget(key K) {
	if _, ok := r.dirty[key]; !ok {
		return
	}
	delete(r.dirty, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// run clears the latch and dirty set before calling refresh, so marks made
// from inside the callback schedule a new refresh.
func (r *Refresher[K]) run() {
	keys := r.order
	r.order = nil
	clear(r.dirty)
	r.scheduled = false

	if len(keys) > 0 && r.refresh != nil {
		r.refresh(keys)
	}
}

var _ Scheduler = (*IdleLoop)(nil)
