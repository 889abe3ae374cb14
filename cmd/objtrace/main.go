// Command objtrace exercises the shim against a demo type hierarchy, either
// as a scripted batch (default) or interactively with a TUI (-i).
//
// Set OBJSHIM_DEBUG_MEM=1 to see the allocation/deallocation trace on
// stderr while it runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/nativekit/objshim/gtype"
	"github.com/nativekit/objshim/mainloop"
	"github.com/nativekit/objshim/object"
	"github.com/nativekit/objshim/shim"
)

// Demo hierarchy: Widget -> Window (floating), Widget -> Label, plus a
// boxed rectangle type.
var (
	widgetType = gtype.MustRegister(gtype.Info{Name: "Widget"})
	windowType = gtype.MustRegister(gtype.Info{
		Name:   "Window",
		Parent: widgetType,
		Flags:  gtype.FlagInitiallyUnowned,
	})
	labelType = gtype.MustRegister(gtype.Info{Name: "Label", Parent: widgetType})
	rectType  = gtype.MustRegisterBoxed("Rect",
		func(v any) any { r := *(v.(*[4]int)); return &r },
		func(v any) {},
	)
)

func main() {
	var (
		count       = flag.Int("n", 10, "Objects to construct per type")
		boxed       = flag.Int("boxed", 5, "Boxed values to copy and free")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		mainloop.SetLogger(logger)
		shim.SetLogger(logger)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*count, *boxed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type eventCounter struct {
	mu     sync.Mutex
	counts map[object.EventKind]int
}

func (c *eventCounter) OnObjectEvent(e object.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[e.Kind]++
}

func run(count, boxed int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := mainloop.New()
	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	counter := &eventCounter{counts: make(map[object.EventKind]int)}
	object.Subscribe(counter)
	defer object.Unsubscribe(counter)

	fin := shim.NewFinalizer(loop)

	// Construct a floating and a non-floating batch, then release all of
	// it through the loop.
	var objs []*object.Object
	for i := 0; i < count; i++ {
		w, err := shim.Construct(windowType, []object.Property{
			{Name: "title", Value: fmt.Sprintf("window-%d", i)},
		})
		if err != nil {
			return err
		}
		l, err := shim.Construct(labelType, nil)
		if err != nil {
			return err
		}
		objs = append(objs, w, l)
	}

	fmt.Printf("Constructed: %d objects\n", len(objs))
	for _, o := range objs {
		fmt.Printf("  %p %-8s refs=%d widget=%v\n",
			o, o.TypeName(), o.RefCount(), shim.CheckInstance(o, widgetType))
	}

	if len(objs) > 0 {
		fin.Disown(objs[0])
	}
	for _, o := range objs {
		fin.UnrefObject(o)
	}

	for i := 0; i < boxed; i++ {
		r := [4]int{0, 0, i, i}
		cp, err := object.CopyBoxed(rectType, &r)
		if err != nil {
			return err
		}
		fin.FreeBoxed(rectType, cp)
	}

	// Everything above is queued at idle priority; a sentinel behind it
	// tells us the queue has drained.
	drained := make(chan struct{})
	loop.IdleAdd(func() bool {
		close(drained)
		return false
	})
	<-drained

	counter.mu.Lock()
	defer counter.mu.Unlock()
	fmt.Printf("Created:   %d\n", counter.counts[object.EventCreated])
	fmt.Printf("Sunk:      %d\n", counter.counts[object.EventSunk])
	fmt.Printf("Disowned:  %d\n", counter.counts[object.EventDisowned])
	fmt.Printf("Finalized: %d\n", counter.counts[object.EventFinalized])
	fmt.Printf("Boxed freed via loop: %d\n", boxed)

	loop.Stop()
	return <-loopDone
}
