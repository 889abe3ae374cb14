// Package goroutineid extracts the current goroutine's numeric id.
//
// The runtime deliberately does not expose goroutine ids; the only stable
// way to obtain one is parsing the header line of a stack trace, which
// starts "goroutine N [state]:". The id is used solely as a lock-ownership
// key for the reentrant trace lock, never for scheduling decisions.
package goroutineid

import "runtime"

// Current returns the calling goroutine's id, or 0 if the stack header
// cannot be parsed (conservative fallback: 0 never matches a real owner).
func Current() int64 {
	// The header fits comfortably in 64 bytes; runtime.Stack truncates.
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseHeader(buf[:n])
}

func parseHeader(stack []byte) int64 {
	const prefix = "goroutine "
	if len(stack) <= len(prefix) || string(stack[:len(prefix)]) != prefix {
		return 0
	}

	var id int64
	for _, b := range stack[len(prefix):] {
		if b < '0' || b > '9' {
			break
		}
		id = id*10 + int64(b-'0')
	}
	return id
}
