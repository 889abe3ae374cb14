package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// EnvVar enables tracing when present in the environment, whatever its value.
const EnvVar = "OBJSHIM_DEBUG_MEM"

var (
	enabledOnce sync.Once
	enabled     bool

	lk recursiveMutex

	// out is guarded by lk.
	out io.Writer = os.Stderr
)

// Enabled reports whether tracing is on. The environment is consulted once,
// on the first call, and the answer is cached for the process lifetime.
func Enabled() bool {
	enabledOnce.Do(func() {
		_, enabled = os.LookupEnv(EnvVar)
	})
	return enabled
}

// Lock gives the calling goroutine exclusive access to the trace stream.
// The lock is reentrant; each Lock must be paired with an Unlock.
func Lock() {
	lk.lock()
}

// Unlock releases one level of the trace lock.
func Unlock() {
	lk.unlock()
}

// Logf writes one line to the trace stream iff tracing is enabled. A
// trailing newline is added when the format does not end with one. The
// write is atomic with respect to other goroutines.
func Logf(format string, args ...any) {
	if !Enabled() {
		return
	}

	Lock()
	defer Unlock()

	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(out, format, args...)
}

// SetOutput redirects the trace stream. Intended for tests and for hosts
// that capture diagnostics; the default is os.Stderr.
func SetOutput(w io.Writer) {
	Lock()
	defer Unlock()
	out = w
}
