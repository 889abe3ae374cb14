// Package shim is the surface consumed by generated binding code.
//
// It wraps the raw object system with the three guarantees binding code
// needs and cannot provide locally:
//
//   - Construct returns an object with exactly one counted reference owned
//     by the caller, whatever the type's floating convention.
//   - Finalizer defers releases onto the event loop goroutine, because some
//     native finalizers are not safe anywhere else. Submitting a release is
//     non-blocking and fire-and-forget; the submitter must not touch the
//     handle again.
//   - CheckInstance is a nil-tolerant runtime type check for narrowing
//     operations.
//
// All operations emit diagnostic trace lines when OBJSHIM_DEBUG_MEM is set;
// see package trace.
package shim
