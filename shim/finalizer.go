package shim

import (
	"go.uber.org/zap"

	"github.com/nativekit/objshim"
	"github.com/nativekit/objshim/gtype"
	"github.com/nativekit/objshim/internal/goroutineid"
	"github.com/nativekit/objshim/object"
	"github.com/nativekit/objshim/trace"
)

// Finalizer defers destructive operations onto the goroutine that owns the
// event loop. Releases are scheduled as idle tasks: the loop runs each one
// exactly once, at its own discretion, on its own goroutine.
//
// Every submission is non-blocking and fire-and-forget. After submitting a
// handle the caller must not dereference it again; from that point the
// scheduled task is its sole owner.
type Finalizer struct {
	sched objshim.Scheduler
}

// NewFinalizer binds a finalizer to the scheduler of the loop that owns the
// objects being released.
func NewFinalizer(s objshim.Scheduler) *Finalizer {
	return &Finalizer{sched: s}
}

// UnrefObject schedules the release of one counted reference to o. Some
// native finalizers assume they run on the loop goroutine, so the decrement
// never happens inline on the calling goroutine.
func (f *Finalizer) UnrefObject(o *object.Object) {
	f.sched.IdleAdd(func() bool {
		traced := trace.Enabled()
		if traced {
			trace.Lock()
			trace.Logf("unref of %p from idle callback [goroutine: %d]",
				o, goroutineid.Current())
			trace.Logf("\tit is of type %s", o.TypeName())
			trace.Logf("\tits refcount before unref is %d", o.RefCount())
		}

		o.Unref()

		if traced {
			trace.Logf("\tunref done")
			trace.Unlock()
		}
		return false
	})
}

// FreeBoxed schedules the one-time free of a boxed value of type t, under
// the same discipline as UnrefObject.
func (f *Finalizer) FreeBoxed(t gtype.Type, v any) {
	f.sched.IdleAdd(func() bool {
		traced := trace.Enabled()
		if traced {
			trace.Lock()
			trace.Logf("freeing a boxed value at %p from idle callback [goroutine: %d]",
				v, goroutineid.Current())
			trace.Logf("\tit is of type %s", gtype.Name(t))
		}

		if err := object.FreeBoxed(t, v); err != nil {
			Logger().Warn("boxed free failed",
				zap.String("type", gtype.Name(t)),
				zap.Error(err),
			)
		}

		if traced {
			trace.Logf("\tdone freeing %p", v)
			trace.Unlock()
		}
		return false
	})
}

// Disown records that this module no longer considers itself responsible
// for o, typically because another owner claimed it through a different
// path. It is diagnostic only: no reference is transferred or released and
// the refcount is left untouched.
func (f *Finalizer) Disown(o *object.Object) {
	if trace.Enabled() {
		trace.Lock()
		trace.Logf("disowning an object at %p [goroutine: %d]",
			o, goroutineid.Current())
		trace.Logf("\tit is of type %s", o.TypeName())
		trace.Logf("\tits refcount before disowning is %d", o.RefCount())
		trace.Unlock()
	}
	object.NotifyDisowned(o)
}
