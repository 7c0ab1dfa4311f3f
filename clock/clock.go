// This file defines where the cache gets "now" from.

package clock

import (
	"sync"
	"time"
)

/*
Clock is the source of the current time used for TTL decisions.

The cache never calls time.Now directly. Everything goes through a Clock so that:
- tests can move time forward without sleeping
- hosts can plug in their own time source

Implementations must be monotonic from the caller's point of view.
time.Now() carries a monotonic reading, so System() is safe against wall-clock jumps.
*/
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the Clock backed by time.Now.
func System() Clock {
	return systemClock{}
}

// Func adapts a plain function (for example time.Now) to the Clock interface.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time { return f() }

/*
Manual is a Clock that only moves when told to.
It is meant for tests: put an entry with a TTL, Advance past it, observe the miss.

Manual is safe for concurrent use so it can drive the sharded cache too.
*/
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (m *Manual) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
