package shim

import (
	"github.com/nativekit/objshim/gtype"
	"github.com/nativekit/objshim/internal/goroutineid"
	"github.com/nativekit/objshim/object"
	"github.com/nativekit/objshim/trace"
)

// Construct allocates an instance of t with the given properties and
// normalizes reference ownership: whatever the type's floating convention,
// the caller ends up holding exactly one counted reference, which it must
// eventually release through a Finalizer.
//
// Initially unowned instances are generally floating after allocation but
// need not be; RefSink covers both cases, claiming the floating reference
// or adding an owned one. Instances of other types already carry one
// reference which the caller implicitly takes over.
//
// Allocator failures are returned unchanged; Construct adds no validation
// of its own.
func Construct(t gtype.Type, props []object.Property) (*object.Object, error) {
	traced := trace.Enabled()
	if traced {
		trace.Lock()
		trace.Logf("creating a new object of type %s [goroutine: %d]",
			gtype.Name(t), goroutineid.Current())
	}

	o, err := object.New(t, props)
	if err != nil {
		if traced {
			trace.Logf("\tallocation failed: %v", err)
			trace.Unlock()
		}
		return nil, err
	}

	if gtype.InitiallyUnowned(t) {
		o.RefSink()
	}

	if traced {
		trace.Logf("\tdone, got a handle at %p", o)
		trace.Unlock()
	}
	return o, nil
}
