package xerrors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the object lifecycle the error occurred
type Phase string

const (
	PhaseRegister  Phase = "register"  // type registration
	PhaseConstruct Phase = "construct" // object allocation
	PhaseFinalize  Phase = "finalize"  // release / boxed free
	PhaseDispatch  Phase = "dispatch"  // event loop task handling
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownType     Kind = "unknown_type"
	KindDuplicateType   Kind = "duplicate_type"
	KindInvalidType     Kind = "invalid_type"
	KindInvalidProperty Kind = "invalid_property"
	KindUnderflow       Kind = "underflow"
	KindClosed          Kind = "closed"
)

// Error is the structured error type used throughout the shim
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// UnknownType creates an unknown type tag error
func UnknownType(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownType,
		Detail: detail,
	}
}

// DuplicateType creates a duplicate type registration error
func DuplicateType(name string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindDuplicateType,
		Type:   name,
		Detail: "already registered",
	}
}

// InvalidType creates an error for a tag that exists but cannot be used here
func InvalidType(phase Phase, typeName, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidType,
		Type:   typeName,
		Detail: detail,
	}
}

// InvalidProperty creates a rejected construction property error
func InvalidProperty(typeName, property string, cause error) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindInvalidProperty,
		Type:   typeName,
		Detail: fmt.Sprintf("property %q", property),
		Cause:  cause,
	}
}
