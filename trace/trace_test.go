package trace

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// setEnabled bypasses the env lookup so tests control the cached flag.
func setEnabled(t *testing.T, v bool) {
	t.Helper()
	enabledOnce.Do(func() {})
	old := enabled
	enabled = v
	t.Cleanup(func() { enabled = old })
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })
	return &buf
}

func TestLogf_DisabledIsNoOp(t *testing.T) {
	setEnabled(t, false)
	buf := captureOutput(t)

	Logf("should not appear %d", 1)

	if buf.Len() != 0 {
		t.Fatalf("Expected no output when disabled, got %q", buf.String())
	}
}

func TestLogf_AppendsNewline(t *testing.T) {
	setEnabled(t, true)
	buf := captureOutput(t)

	Logf("no newline")
	Logf("has newline\n")

	want := "no newline\nhas newline\n"
	if buf.String() != want {
		t.Fatalf("Expected %q, got %q", want, buf.String())
	}
}

func TestLock_Reentrant(t *testing.T) {
	setEnabled(t, true)
	buf := captureOutput(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		Lock()
		Logf("outer")
		Lock()
		Logf("inner")
		Unlock()
		Unlock()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Nested Lock/Logf deadlocked")
	}

	if got := buf.String(); got != "outer\ninner\n" {
		t.Fatalf("Expected bracketed output, got %q", got)
	}
}

func TestLock_BracketsStayContiguous(t *testing.T) {
	setEnabled(t, true)
	buf := captureOutput(t)

	const writers = 8
	const records = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < records; r++ {
				Lock()
				Logf("begin %d.%d", w, r)
				Logf("\tend %d.%d", w, r)
				Unlock()
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != writers*records*2 {
		t.Fatalf("Expected %d lines, got %d", writers*records*2, len(lines))
	}

	// Every begin line must be immediately followed by its own end line.
	for i := 0; i < len(lines); i += 2 {
		var w, r int
		if _, err := fmt.Sscanf(lines[i], "begin %d.%d", &w, &r); err != nil {
			t.Fatalf("Line %d: expected a begin line, got %q", i, lines[i])
		}
		want := fmt.Sprintf("\tend %d.%d", w, r)
		if lines[i+1] != want {
			t.Fatalf("Record %d.%d interleaved: got %q after %q", w, r, lines[i+1], lines[i])
		}
	}
}

func TestLogf_ConcurrentLinesNotGarbled(t *testing.T) {
	setEnabled(t, true)
	buf := captureOutput(t)

	const writers = 4
	const lines = 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload := strings.Repeat(fmt.Sprintf("%c", 'a'+w), 64)
			for i := 0; i < lines; i++ {
				Logf("%s", payload)
			}
		}()
	}
	wg.Wait()

	for i, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		if len(line) != 64 || strings.Count(line, line[:1]) != 64 {
			t.Fatalf("Line %d garbled: %q", i, line)
		}
	}
}

func TestEnabled_Stable(t *testing.T) {
	first := Enabled()
	for i := 0; i < 3; i++ {
		if Enabled() != first {
			t.Fatal("Enabled() changed between calls")
		}
	}
}
