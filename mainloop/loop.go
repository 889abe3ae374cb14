package mainloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nativekit/objshim/internal/goroutineid"
)

// ErrAlreadyRunning is returned when Run is called on a loop that is
// already draining tasks.
var ErrAlreadyRunning = errors.New("mainloop: loop is already running")

// Priority selects the band a task is queued in. Lower values run first.
type Priority uint8

const (
	PriorityHigh Priority = iota
	PriorityDefault
	PriorityIdle

	numPriorities
)

// Task is a unit of loop work. Returning true asks to be rescheduled at the
// same priority; false retires the task.
type Task func() bool

// Loop is a single-consumer task loop. Submission is safe from any
// goroutine; dispatch happens only on the goroutine that called Run.
type Loop struct {
	queues [numPriorities][]Task
	mu     sync.Mutex

	// wake is 1-buffered so producers never block signalling the drainer.
	wake chan struct{}
	stop chan struct{}

	stopOnce sync.Once

	gid     atomic.Int64
	running atomic.Bool
}

// New creates a loop. It does nothing until Run is called.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// Add enqueues fn at the given priority. It never blocks and never fails;
// a nil fn is ignored. The caller must not rely on when fn runs, only that
// it runs on the loop goroutine while the loop keeps running.
func (l *Loop) Add(p Priority, fn Task) {
	if fn == nil {
		return
	}
	if p >= numPriorities {
		p = PriorityIdle
	}

	l.mu.Lock()
	l.queues[p] = append(l.queues[p], fn)
	l.mu.Unlock()

	// Coalesced wake-up; a full buffer means the drainer will look anyway.
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// IdleAdd enqueues fn at PriorityIdle. This is the handoff used by the
// deferred finalizer.
func (l *Loop) IdleAdd(fn func() bool) {
	l.Add(PriorityIdle, fn)
}

// Run drains tasks on the calling goroutine until ctx is cancelled or Stop
// is called. Only one Run may be active at a time.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	l.gid.Store(goroutineid.Current())
	defer func() {
		l.gid.Store(0)
		l.running.Store(false)
	}()

	for {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.stop:
				return nil
			default:
			}

			p, fn, ok := l.next()
			if !ok {
				break
			}
			l.dispatch(p, fn)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		case <-l.wake:
		}
	}
}

// Stop makes Run return after the task in flight, if any. Idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// OnLoop reports whether the caller is the goroutine currently draining the
// loop.
func (l *Loop) OnLoop() bool {
	g := l.gid.Load()
	return g != 0 && g == goroutineid.Current()
}

// Pending returns the number of queued tasks across all priorities.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for p := range l.queues {
		n += len(l.queues[p])
	}
	return n
}

// next pops the head of the highest non-empty band.
func (l *Loop) next() (Priority, Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for p := range l.queues {
		q := l.queues[p]
		if len(q) == 0 {
			continue
		}
		fn := q[0]
		q[0] = nil
		l.queues[p] = q[1:]
		return Priority(p), fn, true
	}
	return 0, nil, false
}

func (l *Loop) dispatch(p Priority, fn Task) {
	again := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				Logger().Error("task panicked",
					zap.Any("panic", r),
					zap.Stack("stack"),
				)
			}
		}()
		again = fn()
	}()

	if again {
		l.Add(p, fn)
	}
}
