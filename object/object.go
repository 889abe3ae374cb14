package object

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nativekit/objshim/gtype"
	"github.com/nativekit/objshim/xerrors"
)

// Property is a single dynamically typed construction parameter.
type Property struct {
	Value any
	Name  string
}

// Object is a refcounted native instance. The zero value is not usable;
// objects come from New.
type Object struct {
	props map[string]any

	finalizers  []func()
	finalizerMu sync.Mutex

	tag      gtype.Type
	refs     atomic.Int32
	floating atomic.Bool
}

// New allocates and initializes an instance of t. This is the native
// allocator: the returned object holds one reference, floating iff t is
// initially unowned. Callers that need normalized ownership should use
// shim.Construct instead.
func New(t gtype.Type, props []Property) (*Object, error) {
	if !gtype.IsObject(t) {
		if gtype.IsBoxed(t) {
			return nil, xerrors.InvalidType(xerrors.PhaseConstruct, gtype.Name(t), "cannot instantiate a boxed type")
		}
		return nil, xerrors.UnknownType(xerrors.PhaseConstruct, fmt.Sprintf("tag %d not registered", t))
	}

	validate := gtype.Validator(t)
	m := make(map[string]any, len(props))
	for _, p := range props {
		if validate != nil {
			if err := validate(p.Name, p.Value); err != nil {
				return nil, xerrors.InvalidProperty(gtype.Name(t), p.Name, err)
			}
		}
		m[p.Name] = p.Value
	}

	o := &Object{tag: t, props: m}
	o.refs.Store(1)
	o.floating.Store(gtype.InitiallyUnowned(t))

	notify(Event{Kind: EventCreated, Object: o, Type: t, RefCount: 1})
	return o, nil
}

// Type returns the object's type tag.
func (o *Object) Type() gtype.Type {
	return o.tag
}

// TypeName returns the registered name of the object's type.
func (o *Object) TypeName() string {
	return gtype.Name(o.tag)
}

// RefCount returns the current number of counted references.
func (o *Object) RefCount() int {
	return int(o.refs.Load())
}

// IsFloating reports whether the initial reference is still unclaimed.
func (o *Object) IsFloating() bool {
	return o.floating.Load()
}

// Property returns a construction property by name.
func (o *Object) Property(name string) (any, bool) {
	v, ok := o.props[name]
	return v, ok
}

// Ref adds a counted reference and returns the object for chaining.
// Panics if the object has already been finalized.
func (o *Object) Ref() *Object {
	if o.refs.Add(1) <= 1 {
		panic(fmt.Sprintf("object: ref of finalized %s at %p", o.TypeName(), o))
	}
	return o
}

// RefSink claims the floating reference if there is one, converting it into
// a normally owned reference without changing the count. If the object was
// already sunk it adds an owned reference instead. Either way the caller
// ends up owning exactly one more reference than before.
func (o *Object) RefSink() *Object {
	if o.floating.CompareAndSwap(true, false) {
		notify(Event{Kind: EventSunk, Object: o, Type: o.tag, RefCount: int32(o.RefCount())})
		return o
	}
	return o.Ref()
}

// Unref releases one counted reference. The release that reaches zero
// finalizes the object: finalize hooks run exactly once, then the object is
// dead. Releasing more references than are held panics.
func (o *Object) Unref() {
	n := o.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic(fmt.Sprintf("object: refcount underflow on %s at %p", o.TypeName(), o))
	}

	o.finalizerMu.Lock()
	fns := o.finalizers
	o.finalizers = nil
	o.finalizerMu.Unlock()

	for _, fn := range fns {
		fn()
	}

	notify(Event{Kind: EventFinalized, Object: o, Type: o.tag, RefCount: 0})
}

// OnFinalize registers fn to run when the object's last reference is
// released. Hooks run on the goroutine performing the final Unref, in
// registration order. Registering on a finalized object runs fn immediately.
func (o *Object) OnFinalize(fn func()) {
	o.finalizerMu.Lock()
	if o.refs.Load() <= 0 {
		o.finalizerMu.Unlock()
		fn()
		return
	}
	o.finalizers = append(o.finalizers, fn)
	o.finalizerMu.Unlock()
}
