package objshim

// Scheduler is the handoff point between arbitrary goroutines and the single
// goroutine that owns native object destruction. Implementations must accept
// tasks without blocking the caller and dispatch each accepted task exactly
// once on the owning goroutine. A task returning true asks to be rescheduled;
// false means it is done.
//
// mainloop.Loop is the canonical implementation.
type Scheduler interface {
	IdleAdd(fn func() bool)
}
