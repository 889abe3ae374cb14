// Package trace is the opt-in diagnostic tracer for allocation and
// deallocation events.
//
// Tracing is enabled by the presence of the OBJSHIM_DEBUG_MEM environment
// variable (the value is ignored). The variable is read once, on first use,
// and the result is cached for the process lifetime; there is no way to
// reconfigure tracing at runtime.
//
// Output is unstructured, line-oriented text on stderr intended for a human
// chasing a leak or a premature free. The format carries no stability
// guarantee and is not a machine protocol.
//
// # Atomicity
//
// Writers from different goroutines never interleave within a message. The
// log lock is reentrant: a goroutine may take it again while already holding
// it, so multi-line records can be bracketed explicitly:
//
//	trace.Lock()
//	trace.Logf("unref of %p from idle callback [goroutine: %d]", obj, gid)
//	trace.Logf("\tit is of type %s", name)
//	trace.Unlock()
//
// Logf acquires the same lock internally, which is what makes the nesting
// above safe.
package trace
