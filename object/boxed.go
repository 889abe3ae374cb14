package object

import "github.com/nativekit/objshim/gtype"

// CopyBoxed duplicates a boxed value using its type's registered copy
// function. The copy must eventually be released with FreeBoxed (directly on
// the loop goroutine, or via shim.Finalizer.FreeBoxed from anywhere else).
func CopyBoxed(t gtype.Type, v any) (any, error) {
	return gtype.BoxedCopy(t, v)
}

// FreeBoxed releases a boxed value exactly once using its type's registered
// free function.
func FreeBoxed(t gtype.Type, v any) error {
	return gtype.BoxedFree(t, v)
}
