// Package closure keeps managed callbacks alive while native code holds
// references to them.
//
// Native code cannot hold a managed function value directly; it holds an
// integral handle instead. Register pins the callback and hands out the
// handle, Lookup resolves it at invocation time, Release unpins it when the
// native side is done.
//
// Release tolerates the zero handle: generated code frees whatever handle
// it was given, and "no callback" is routinely represented as 0. This is
// what distinguishes it from a raw release primitive that would fault.
package closure

import "sync"

// Handle identifies a registered callback. Handle 0 is reserved and always
// invalid.
type Handle uintptr

var (
	mu        sync.RWMutex
	callbacks = make(map[Handle]any)
	nextID    Handle = 1
)

// Register pins a callback value and returns its handle. The value stays
// reachable until Release is called with the returned handle.
func Register(fn any) Handle {
	mu.Lock()
	defer mu.Unlock()

	h := nextID
	nextID++
	callbacks[h] = fn
	return h
}

// Lookup resolves a handle to the registered callback, or nil if the handle
// is zero, unknown, or already released.
func Lookup(h Handle) any {
	mu.RLock()
	defer mu.RUnlock()
	return callbacks[h]
}

// Release unpins a callback. Releasing the zero handle, or a handle that
// was already released, is a successful no-op; a live handle is released
// exactly once.
func Release(h Handle) {
	if h == 0 {
		return
	}

	mu.Lock()
	defer mu.Unlock()
	delete(callbacks, h)
}

// Count returns the number of currently pinned callbacks. Useful for leak
// checks in tests.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(callbacks)
}
