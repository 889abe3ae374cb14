package shim

import (
	"github.com/nativekit/objshim/gtype"
	"github.com/nativekit/objshim/object"
	"github.com/nativekit/objshim/trace"
)

// CheckInstance reports whether o is an instance of t or of a descendant of
// t. A nil instance is an expected input in this defensive-check context:
// it logs a trace line and returns false rather than failing. The check
// never mutates the object or its ownership.
func CheckInstance(o *object.Object, t gtype.Type) bool {
	if o == nil {
		trace.Logf("check failed: got a nil instance")
		return false
	}
	return gtype.IsA(o.Type(), t)
}
