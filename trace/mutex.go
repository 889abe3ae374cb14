package trace

import (
	"sync"
	"sync/atomic"

	"github.com/nativekit/objshim/internal/goroutineid"
)

func init() {
	// Reentrant locking depends on goroutine identity. Refuse to start
	// rather than risk undefined locking behavior if it cannot be read.
	if goroutineid.Current() == 0 {
		panic("trace: goroutine identity unavailable, reentrant log lock cannot be provided")
	}
}

// recursiveMutex replicates recursive (refcounted) mutex semantics on top of
// sync.Mutex using a held-by/depth pair keyed by goroutine id. The same
// goroutine may lock repeatedly; other goroutines block until the owner has
// unlocked as many times as it locked.
type recursiveMutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	// depth is only touched by the owning goroutine while mu is held.
	depth int
}

func (m *recursiveMutex) lock() {
	gid := goroutineid.Current()
	if gid != 0 && m.owner.Load() == gid {
		m.depth++
		return
	}

	m.mu.Lock()
	m.owner.Store(gid)
	m.depth = 1
}

func (m *recursiveMutex) unlock() {
	gid := goroutineid.Current()
	if gid == 0 || m.owner.Load() != gid {
		panic("trace: unlock of lock not held by this goroutine")
	}

	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}
