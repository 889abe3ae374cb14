// Package mainloop implements the single-consumer event loop that owns
// native object destruction.
//
// A Loop drains queued tasks on exactly one goroutine - whichever calls
// Run. Producers on any goroutine submit tasks with Add or IdleAdd; both
// are non-blocking, unbounded enqueues. A task is a func() bool: returning
// true reschedules it at the same priority, false retires it, mirroring the
// convention of native idle sources.
//
// # Priorities
//
// Three bands exist: PriorityHigh, PriorityDefault and PriorityIdle. The
// loop always runs the highest non-empty band. Order within one band is
// FIFO; order across bands is not FIFO by design, so unrelated work must
// not rely on cross-band submission order.
//
// Deferred finalization submits at PriorityIdle: releases happen when the
// loop has nothing better to do, always on the loop goroutine.
//
// # Lifetime
//
// Run returns when the context is cancelled or Stop is called. Tasks still
// queued at that point are not executed. A panicking task is contained and
// logged; the loop keeps running.
package mainloop
