package object

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/nativekit/objshim/gtype"
	"github.com/nativekit/objshim/xerrors"
)

var (
	floatingType = gtype.MustRegister(gtype.Info{Name: "ObjTestFloating", Flags: gtype.FlagInitiallyUnowned})
	ownedType    = gtype.MustRegister(gtype.Info{Name: "ObjTestOwned"})
	pickyType    = gtype.MustRegister(gtype.Info{
		Name: "ObjTestPicky",
		Validate: func(name string, value any) error {
			if name != "title" {
				return fmt.Errorf("no such property %q", name)
			}
			return nil
		},
	})
)

func TestNew_FloatingConvention(t *testing.T) {
	o, err := New(floatingType, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !o.IsFloating() {
		t.Fatal("Initially unowned instance not floating")
	}
	if o.RefCount() != 1 {
		t.Fatalf("RefCount = %d, want 1", o.RefCount())
	}
}

func TestNew_OwnedConvention(t *testing.T) {
	o, err := New(ownedType, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if o.IsFloating() {
		t.Fatal("Plain instance born floating")
	}
	if o.RefCount() != 1 {
		t.Fatalf("RefCount = %d, want 1", o.RefCount())
	}
}

func TestNew_Properties(t *testing.T) {
	o, err := New(ownedType, []Property{{Name: "name", Value: "a"}, {Name: "size", Value: 3}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	v, ok := o.Property("name")
	if !ok || v != "a" {
		t.Fatalf(`Property("name") = (%v, %v)`, v, ok)
	}
	if _, ok := o.Property("missing"); ok {
		t.Fatal("Unset property reported present")
	}
}

func TestNew_RejectedProperty(t *testing.T) {
	_, err := New(pickyType, []Property{{Name: "bogus", Value: 1}})
	if err == nil {
		t.Fatal("Expected allocation failure")
	}
	if !errors.Is(err, &xerrors.Error{Phase: xerrors.PhaseConstruct, Kind: xerrors.KindInvalidProperty}) {
		t.Fatalf("Expected invalid_property error, got %v", err)
	}
}

func TestNew_BadTags(t *testing.T) {
	if _, err := New(gtype.Type(9999), nil); err == nil {
		t.Fatal("Unknown tag accepted")
	}

	boxed := gtype.MustRegisterBoxed("ObjTestBoxedTag", nil, func(any) {})
	if _, err := New(boxed, nil); err == nil {
		t.Fatal("Boxed tag instantiated as object")
	}
}

func TestRefSink_ClaimsFloatingWithoutCountChange(t *testing.T) {
	o, _ := New(floatingType, nil)

	o.RefSink()
	if o.IsFloating() {
		t.Fatal("Still floating after RefSink")
	}
	if o.RefCount() != 1 {
		t.Fatalf("RefCount = %d after sink, want 1 (sink must not add)", o.RefCount())
	}
}

func TestRefSink_AddsRefWhenAlreadySunk(t *testing.T) {
	o, _ := New(ownedType, nil)

	o.RefSink()
	if o.RefCount() != 2 {
		t.Fatalf("RefCount = %d, want 2 (sink of owned adds a ref)", o.RefCount())
	}
}

func TestRefSink_ExactlyOneWinner(t *testing.T) {
	o, _ := New(floatingType, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.RefSink()
		}()
	}
	wg.Wait()

	// One sink claims the floating ref, the other seven each add one.
	if o.RefCount() != 8 {
		t.Fatalf("RefCount = %d, want 8", o.RefCount())
	}
	if o.IsFloating() {
		t.Fatal("Still floating after concurrent sinks")
	}
}

func TestUnref_FinalizesExactlyOnce(t *testing.T) {
	o, _ := New(ownedType, nil)

	finalized := 0
	o.OnFinalize(func() { finalized++ })

	o.Ref()
	o.Unref()
	if finalized != 0 {
		t.Fatal("Finalized while references remain")
	}

	o.Unref()
	if finalized != 1 {
		t.Fatalf("Finalize hooks ran %d times, want 1", finalized)
	}
}

func TestUnref_UnderflowPanics(t *testing.T) {
	o, _ := New(ownedType, nil)
	o.Unref()

	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic on refcount underflow")
		}
	}()
	o.Unref()
}

func TestRef_AfterFinalizePanics(t *testing.T) {
	o, _ := New(ownedType, nil)
	o.Unref()

	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic on ref of finalized object")
		}
	}()
	o.Ref()
}

func TestOnFinalize_LateRegistrationRunsImmediately(t *testing.T) {
	o, _ := New(ownedType, nil)
	o.Unref()

	ran := false
	o.OnFinalize(func() { ran = true })
	if !ran {
		t.Fatal("Hook on finalized object did not run")
	}
}

func TestCopyFreeBoxed(t *testing.T) {
	frees := 0
	boxed := gtype.MustRegisterBoxed("ObjTestBoxed",
		func(v any) any { n := *(v.(*int)); return &n },
		func(v any) { frees++ },
	)

	n := 7
	cp, err := CopyBoxed(boxed, &n)
	if err != nil {
		t.Fatalf("CopyBoxed: %v", err)
	}
	if err := FreeBoxed(boxed, cp); err != nil {
		t.Fatalf("FreeBoxed: %v", err)
	}
	if frees != 1 {
		t.Fatalf("Free ran %d times, want 1", frees)
	}
}
