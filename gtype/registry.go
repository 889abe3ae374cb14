package gtype

import (
	"sync"

	"github.com/nativekit/objshim/xerrors"
)

// Type is an integral tag identifying a registered native type.
// Type 0 (Invalid) is reserved and never registered.
type Type uint32

// Invalid is the reserved zero tag.
const Invalid Type = 0

// Flags carry registration-time properties of an object type.
type Flags uint8

const (
	// FlagInitiallyUnowned marks a type whose instances are born floating.
	// The flag is inherited by descendants.
	FlagInitiallyUnowned Flags = 1 << 0
)

// Info describes an object type being registered.
type Info struct {
	// Validate, when non-nil, is consulted for every construction property.
	// A non-nil return rejects the allocation.
	Validate func(name string, value any) error

	Name   string
	Parent Type
	Flags  Flags
}

type kind uint8

const (
	kindObject kind = iota
	kindBoxed
)

type entry struct {
	validate func(name string, value any) error
	copyFn   func(any) any
	freeFn   func(any)
	name     string
	parent   Type
	flags    Flags
	kind     kind
}

var (
	mu      sync.RWMutex
	entries []entry
	byName  = make(map[string]Type)
)

// Object is the fundamental root of the instantiable type hierarchy.
var Object = mustRegisterRoot("Object")

func mustRegisterRoot(name string) Type {
	t, err := register(entry{name: name, kind: kindObject})
	if err != nil {
		panic(err)
	}
	return t
}

func register(e entry) (Type, error) {
	mu.Lock()
	defer mu.Unlock()

	if e.name == "" {
		return Invalid, xerrors.InvalidType(xerrors.PhaseRegister, e.name, "empty type name")
	}
	if _, ok := byName[e.name]; ok {
		return Invalid, xerrors.DuplicateType(e.name)
	}

	entries = append(entries, e)
	t := Type(len(entries))
	byName[e.name] = t
	return t, nil
}

// Register adds an object type to the registry and returns its tag.
// A zero Parent roots the type at gtype.Object.
func Register(info Info) (Type, error) {
	parent := info.Parent
	if parent == Invalid {
		parent = Object
	}

	mu.RLock()
	pe, ok := lookupEntry(parent)
	mu.RUnlock()
	if !ok {
		return Invalid, xerrors.UnknownType(xerrors.PhaseRegister, "parent tag not registered")
	}
	if pe.kind != kindObject {
		return Invalid, xerrors.InvalidType(xerrors.PhaseRegister, pe.name, "boxed type cannot be a parent")
	}

	return register(entry{
		name:     info.Name,
		parent:   parent,
		flags:    info.Flags,
		kind:     kindObject,
		validate: info.Validate,
	})
}

// MustRegister is Register, panicking on error. Intended for package-level
// type tag variables in generated bindings.
func MustRegister(info Info) Type {
	t, err := Register(info)
	if err != nil {
		panic(err)
	}
	return t
}

// RegisterBoxed adds a boxed value type. freeFn is mandatory; copyFn may be
// nil for non-copyable boxed types.
func RegisterBoxed(name string, copyFn func(any) any, freeFn func(any)) (Type, error) {
	if freeFn == nil {
		return Invalid, xerrors.InvalidType(xerrors.PhaseRegister, name, "boxed type needs a free function")
	}
	return register(entry{
		name:   name,
		kind:   kindBoxed,
		copyFn: copyFn,
		freeFn: freeFn,
	})
}

// MustRegisterBoxed is RegisterBoxed, panicking on error.
func MustRegisterBoxed(name string, copyFn func(any) any, freeFn func(any)) Type {
	t, err := RegisterBoxed(name, copyFn, freeFn)
	if err != nil {
		panic(err)
	}
	return t
}

func lookupEntry(t Type) (entry, bool) {
	if t == Invalid || int(t) > len(entries) {
		return entry{}, false
	}
	return entries[t-1], true
}

// Name returns the registered name for a tag, or "" for an unknown tag.
func Name(t Type) string {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := lookupEntry(t)
	if !ok {
		return ""
	}
	return e.name
}

// Lookup resolves a registered name back to its tag.
func Lookup(name string) (Type, bool) {
	mu.RLock()
	defer mu.RUnlock()

	t, ok := byName[name]
	return t, ok
}

// Parent returns the parent tag, or Invalid for roots, boxed types and
// unknown tags.
func Parent(t Type) Type {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := lookupEntry(t)
	if !ok {
		return Invalid
	}
	return e.parent
}

// IsA reports whether t is ancestor itself or a descendant of it.
func IsA(t, ancestor Type) bool {
	if t == Invalid || ancestor == Invalid {
		return false
	}

	mu.RLock()
	defer mu.RUnlock()

	for t != Invalid {
		if t == ancestor {
			return true
		}
		e, ok := lookupEntry(t)
		if !ok {
			return false
		}
		t = e.parent
	}
	return false
}

// InitiallyUnowned reports whether instances of t are born floating.
// The flag is inherited from ancestors.
func InitiallyUnowned(t Type) bool {
	mu.RLock()
	defer mu.RUnlock()

	for t != Invalid {
		e, ok := lookupEntry(t)
		if !ok {
			return false
		}
		if e.flags&FlagInitiallyUnowned != 0 {
			return true
		}
		t = e.parent
	}
	return false
}

// IsObject reports whether t is a registered object type.
func IsObject(t Type) bool {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := lookupEntry(t)
	return ok && e.kind == kindObject
}

// IsBoxed reports whether t is a registered boxed type.
func IsBoxed(t Type) bool {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := lookupEntry(t)
	return ok && e.kind == kindBoxed
}

// Validator returns the construction property validator for t, if any.
func Validator(t Type) func(name string, value any) error {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := lookupEntry(t)
	if !ok {
		return nil
	}
	return e.validate
}

// BoxedCopy invokes the registered copy function for a boxed type.
func BoxedCopy(t Type, v any) (any, error) {
	mu.RLock()
	e, ok := lookupEntry(t)
	mu.RUnlock()

	if !ok {
		return nil, xerrors.UnknownType(xerrors.PhaseConstruct, "boxed copy of unregistered tag")
	}
	if e.kind != kindBoxed {
		return nil, xerrors.InvalidType(xerrors.PhaseConstruct, e.name, "not a boxed type")
	}
	if e.copyFn == nil {
		return nil, xerrors.InvalidType(xerrors.PhaseConstruct, e.name, "boxed type is not copyable")
	}
	return e.copyFn(v), nil
}

// BoxedFree invokes the registered free function for a boxed type.
// Each boxed value must be freed exactly once.
func BoxedFree(t Type, v any) error {
	mu.RLock()
	e, ok := lookupEntry(t)
	mu.RUnlock()

	if !ok {
		return xerrors.UnknownType(xerrors.PhaseFinalize, "boxed free of unregistered tag")
	}
	if e.kind != kindBoxed {
		return xerrors.InvalidType(xerrors.PhaseFinalize, e.name, "not a boxed type")
	}
	e.freeFn(v)
	return nil
}
