// Package gtype implements the process-global native type registry.
//
// Native types are identified by integral tags. Tags are allocated at
// registration time, never reused, and immutable for the process lifetime,
// mirroring the native object system's own global type table.
//
// # Type Kinds
//
// Two kinds of types are registered:
//
//	object types - refcounted instances arranged in a single-inheritance
//	               hierarchy rooted at gtype.Object
//	boxed types  - plain heap values with an explicit copy/free pair and
//	               no refcount
//
// # Ancestry
//
// IsA answers the descends-from relation used by the type guard:
//
//	button := gtype.MustRegister(gtype.Info{Name: "Button", Parent: widget})
//	gtype.IsA(button, widget) // true
//	gtype.IsA(widget, button) // false
//
// # Floating References
//
// Object types carrying FlagInitiallyUnowned (directly or via an ancestor)
// produce floating instances at allocation; see package object for how
// ownership of those is normalized.
package gtype
