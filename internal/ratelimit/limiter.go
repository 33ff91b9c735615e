// Package ratelimit implements a process-local fixed-window request
// limiter keyed by (action, client). State is in-memory by design and is
// lost on restart; the persistence layer is never consulted.
package ratelimit

import (
	"sync"
	"time"
)

// Clock abstracts time for the limiter so tests can drive windows
// deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Result reports the outcome of a single Check call.
type Result struct {
	// Allowed is false once the count within the current window has
	// exceeded the maximum.
	Allowed bool

	// Remaining is the number of requests still allowed in this window.
	Remaining int

	// ResetAt is when the current window ends and the count restarts.
	ResetAt time.Time
}

// Policy bundles the parameters of one rate-limited action.
type Policy struct {
	Max    int
	Window time.Duration
}

// entry is the per-key counter. Each entry carries its own mutex so that
// concurrent checks on different keys never contend on a shared lock.
type entry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window counter store. The zero value is not usable;
// construct with NewLimiter. Safe for concurrent use.
type Limiter struct {
	clock   Clock
	entries sync.Map // key string -> *entry
}

// NewLimiter constructs a Limiter. A nil clock defaults to the system
// clock.
func NewLimiter(clock Clock) *Limiter {
	if clock == nil {
		clock = systemClock{}
	}
	return &Limiter{clock: clock}
}

// Check records one request against key and reports whether it is within
// the window's count limit. The first call for a key opens a window; once
// the count exceeds max the key is denied until ResetAt, at which point
// the window restarts from zero. The increment-and-compare is atomic per
// key.
func (l *Limiter) Check(key string, max int, window time.Duration) Result {
	for {
		value, _ := l.entries.LoadOrStore(key, new(entry))
		e := value.(*entry)

		e.mu.Lock()

		// a concurrent Sweep may have deleted e between the lookup and
		// the lock; an increment on an unmapped entry would be lost
		if current, ok := l.entries.Load(key); !ok || current != value {
			e.mu.Unlock()
			continue
		}

		now := l.clock.Now()
		if !now.Before(e.resetAt) {
			e.count = 0
			e.resetAt = now.Add(window)
		}

		e.count++

		remaining := max - e.count
		if remaining < 0 {
			remaining = 0
		}

		result := Result{
			Allowed:   e.count <= max,
			Remaining: remaining,
			ResetAt:   e.resetAt,
		}

		e.mu.Unlock()

		return result
	}
}

// CheckPolicy is Check with the parameters taken from a Policy.
func (l *Limiter) CheckPolicy(key string, p Policy) Result {
	return l.Check(key, p.Max, p.Window)
}

// Sweep removes entries whose window has ended. Run periodically to bound
// memory; the interval is independent of any individual window length.
// The delete happens under the entry lock so a Check that just reopened
// the window cannot have its count discarded.
func (l *Limiter) Sweep() {
	now := l.clock.Now()

	l.entries.Range(func(key, value any) bool {
		e := value.(*entry)

		e.mu.Lock()
		if !now.Before(e.resetAt) {
			l.entries.Delete(key)
		}
		e.mu.Unlock()

		return true
	})
}

// Len reports the number of live window entries. Intended for tests and
// diagnostics.
func (l *Limiter) Len() int {
	n := 0
	l.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
