// Package objshim provides the runtime support layer for generated bindings
// between a managed runtime and a reference-counted native object system.
//
// Generated binding code does not talk to the object system directly for
// lifecycle operations. It goes through this module, which mediates three
// concerns: construction with normalized reference ownership, destruction
// deferred onto the event loop goroutine that owns the object system, and
// opt-in diagnostic tracing of allocation and deallocation events.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	objshim/             Root package with the Scheduler handoff interface
//	├── gtype/           Process-global native type registry (tags, ancestry, boxed types)
//	├── object/          Refcounted object model: allocation, ref/sink/unref, observers
//	├── shim/            The binding-facing surface: construct, type guard, deferred finalizer
//	├── mainloop/        Single-consumer event loop with priority bands and idle tasks
//	├── closure/         Handle registry for callbacks held by native code
//	├── trace/           Env-gated diagnostic tracer with a reentrant log lock
//	└── xerrors/         Structured error types for debugging
//
// # Quick Start
//
// Register a type, run a loop, construct and release an object:
//
//	window := gtype.MustRegister(gtype.Info{
//	    Name:   "Window",
//	    Parent: gtype.Object,
//	    Flags:  gtype.FlagInitiallyUnowned,
//	})
//
//	loop := mainloop.New()
//	go loop.Run(ctx)
//
//	obj, err := shim.Construct(window, []object.Property{{Name: "title", Value: "hi"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// ... hand obj to generated code ...
//
//	fin := shim.NewFinalizer(loop)
//	fin.UnrefObject(obj) // non-blocking; release happens on the loop goroutine
//
// # Why Deferred Finalization
//
// Some native finalizers are only safe on the goroutine that runs the event
// loop that created the object. Managed-side garbage collection runs on
// arbitrary goroutines, so releases are submitted as idle tasks and executed
// by the loop itself. Submission never blocks and the submitter must not
// touch the handle again afterward.
//
// # Diagnostics
//
// Setting the OBJSHIM_DEBUG_MEM environment variable (any value, presence is
// what counts) enables line-oriented tracing of every construct, unref,
// boxed free and disown to stderr. The format is human-oriented and carries
// no stability guarantee.
//
// # Thread Safety
//
// All exported operations are safe for concurrent use. The event loop drains
// tasks on exactly one goroutine; everything else may be called from any
// goroutine.
package objshim
