package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nativekit/objshim/gtype"
	"github.com/nativekit/objshim/mainloop"
	"github.com/nativekit/objshim/object"
	"github.com/nativekit/objshim/shim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	liveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	deadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const eventLogSize = 8

type trackedObject struct {
	obj  *object.Object
	id   int
	dead bool
}

type interactiveModel struct {
	loop   *mainloop.Loop
	fin    *shim.Finalizer
	cancel context.CancelFunc

	objects map[int]*trackedObject
	nextID  int

	events []string
	result string
	err    error

	input textinput.Model
}

// lifecycleMsg carries an observer event from whatever goroutine emitted it
// into the TUI's update loop.
type lifecycleMsg struct {
	line string
	obj  *object.Object
	kind object.EventKind
}

// programObserver decouples observer callbacks from the TUI loop: events
// fire synchronously inside command execution, so sending straight into the
// program from there would deadlock. A saturated feed drops events.
type programObserver struct {
	ch chan lifecycleMsg
}

func (p *programObserver) OnObjectEvent(e object.Event) {
	msg := lifecycleMsg{
		kind: e.Kind,
		obj:  e.Object,
		line: fmt.Sprintf("%-9s %p %s refs=%d", e.Kind, e.Object, gtype.Name(e.Type), e.RefCount),
	}
	select {
	case p.ch <- msg:
	default:
	}
}

func newInteractiveModel(loop *mainloop.Loop, cancel context.CancelFunc) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "new Window title=hi"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	return &interactiveModel{
		loop:    loop,
		fin:     shim.NewFinalizer(loop),
		cancel:  cancel,
		objects: make(map[int]*trackedObject),
		nextID:  1,
		input:   ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "quit" || line == "q" {
				m.cancel()
				return m, tea.Quit
			}
			m.result, m.err = m.execute(line)
			return m, nil
		}

	case lifecycleMsg:
		m.pushEvent(msg.line)
		if msg.kind == object.EventFinalized {
			for _, t := range m.objects {
				if t.obj == msg.obj {
					t.dead = true
				}
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) pushEvent(line string) {
	m.events = append(m.events, line)
	if len(m.events) > eventLogSize {
		m.events = m.events[len(m.events)-eventLogSize:]
	}
}

func (m *interactiveModel) execute(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	switch fields[0] {
	case "new":
		if len(fields) < 2 {
			return "", fmt.Errorf("usage: new <Type> [name=value ...]")
		}
		t, ok := gtype.Lookup(fields[1])
		if !ok {
			return "", fmt.Errorf("unknown type %q", fields[1])
		}
		var props []object.Property
		for _, kv := range fields[2:] {
			name, value, found := strings.Cut(kv, "=")
			if !found {
				return "", fmt.Errorf("bad property %q, want name=value", kv)
			}
			props = append(props, object.Property{Name: name, Value: value})
		}
		o, err := shim.Construct(t, props)
		if err != nil {
			return "", err
		}
		id := m.nextID
		m.nextID++
		m.objects[id] = &trackedObject{id: id, obj: o}
		return fmt.Sprintf("#%d = %p (%s)", id, o, o.TypeName()), nil

	case "ref":
		t, err := m.lookup(fields)
		if err != nil {
			return "", err
		}
		t.obj.Ref()
		return fmt.Sprintf("#%d refs=%d", t.id, t.obj.RefCount()), nil

	case "unref":
		t, err := m.lookup(fields)
		if err != nil {
			return "", err
		}
		m.fin.UnrefObject(t.obj)
		return fmt.Sprintf("#%d release scheduled on the loop", t.id), nil

	case "disown":
		t, err := m.lookup(fields)
		if err != nil {
			return "", err
		}
		m.fin.Disown(t.obj)
		return fmt.Sprintf("#%d disowned (refs untouched: %d)", t.id, t.obj.RefCount()), nil

	case "check":
		if len(fields) != 3 {
			return "", fmt.Errorf("usage: check <id> <Type>")
		}
		t, err := m.lookup(fields[:2])
		if err != nil {
			return "", err
		}
		ty, ok := gtype.Lookup(fields[2])
		if !ok {
			return "", fmt.Errorf("unknown type %q", fields[2])
		}
		return fmt.Sprintf("#%d is %s: %v", t.id, fields[2], shim.CheckInstance(t.obj, ty)), nil

	case "help":
		return "new <Type> [k=v ...] | ref <id> | unref <id> | disown <id> | check <id> <Type> | quit", nil

	default:
		return "", fmt.Errorf("unknown command %q (try help)", fields[0])
	}
}

func (m *interactiveModel) lookup(fields []string) (*trackedObject, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("usage: %s <id>", fields[0])
	}
	id, err := strconv.Atoi(strings.TrimPrefix(fields[1], "#"))
	if err != nil {
		return nil, fmt.Errorf("bad id %q", fields[1])
	}
	t, ok := m.objects[id]
	if !ok {
		return nil, fmt.Errorf("no object #%d", id)
	}
	if t.dead {
		return nil, fmt.Errorf("#%d already finalized", id)
	}
	return t, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("objshim inspector"))
	b.WriteString("\n\n")

	b.WriteString("Objects:\n")
	ids := make([]int, 0, len(m.objects))
	for id := range m.objects {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	if len(ids) == 0 {
		b.WriteString(helpStyle.Render("  (none - try: new Window title=hi)"))
		b.WriteString("\n")
	}
	for _, id := range ids {
		t := m.objects[id]
		line := fmt.Sprintf("  #%-3d %p %-8s", t.id, t.obj, typeStyle.Render(t.obj.TypeName()))
		if t.dead {
			b.WriteString(deadStyle.Render(line + " finalized"))
		} else {
			b.WriteString(line + liveStyle.Render(fmt.Sprintf(" refs=%d floating=%v",
				t.obj.RefCount(), t.obj.IsFloating())))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nEvents:\n")
	for _, e := range m.events {
		b.WriteString(helpStyle.Render("  " + e))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.result != "" {
		b.WriteString(resultStyle.Render(m.result))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter run • ctrl+c quit"))
	return b.String()
}

func runInteractive() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := mainloop.New()
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = loop.Run(ctx)
	}()

	p := tea.NewProgram(newInteractiveModel(loop, cancel), tea.WithAltScreen())

	obs := &programObserver{ch: make(chan lifecycleMsg, 64)}
	object.Subscribe(obs)
	defer object.Unsubscribe(obs)
	go func() {
		for {
			select {
			case msg := <-obs.ch:
				p.Send(msg)
			case <-ctx.Done():
				return
			}
		}
	}()

	_, err := p.Run()
	cancel()
	<-loopDone
	return err
}
