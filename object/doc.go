// Package object implements the refcounted native object model.
//
// An Object is the in-process stand-in for a native instance: it carries a
// type tag from package gtype, an atomic reference count, a floating flag
// and an immutable property set captured at allocation.
//
// # Reference Ownership
//
// New returns every object with a single reference. For types marked
// initially-unowned that reference is floating - nobody owns it yet and it
// must be claimed with RefSink or the object leaks. For all other types the
// caller owns the initial reference.
//
// RefSink performs the claim atomically: it either converts the floating
// reference into an owned one (no count change) or, if the object was
// already sunk, adds a fresh owned reference. Exactly one caller wins the
// sink.
//
// # Destruction
//
// Unref decrements the count; the reference that takes it to zero finalizes
// the object: finalize hooks run once, observers are notified, and further
// Ref/Unref calls panic. Releasing more references than are held is a
// double-free and panics rather than corrupting state.
//
// Some native finalizers are only safe on the event loop goroutine; callers
// releasing from arbitrary goroutines should go through shim.Finalizer
// instead of calling Unref directly.
//
// # Observers
//
// Package-level observers receive lifecycle events (created, sunk,
// finalized, disowned) for every object in the process. This feeds the
// diagnostic tooling and tests; it is not a general signal system.
package object
