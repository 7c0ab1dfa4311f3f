// This file defines how cache entries expire over time.

package expiration

import "time"

// Backdate is how far in the past a deadline is placed when the caller asks for a TTL <= 0.
// Such an entry is already expired on the very next read.
const Backdate = time.Millisecond

/*
Deadline is the optional absolute instant after which an entry is considered expired.

The zero value means "no TTL": the entry never expires through this mechanism
(it can still be evicted by LRU pressure).

Expiration is lazy. A Deadline only answers questions, nobody watches it.
The cache checks it when the entry is read.
*/
type Deadline struct {
	at  time.Time
	set bool
}

// Never returns a Deadline that never expires. It is the same as the zero value.
func Never() Deadline {
	return Deadline{}
}

/*
After computes the deadline for an entry written at now with the given TTL.

  - ttl > 0  : now + ttl
  - ttl <= 0 : now - Backdate (immediately expired, not rejected)
*/
func After(now time.Time, ttl time.Duration) Deadline {
	if ttl <= 0 {
		return Deadline{at: now.Add(-Backdate), set: true}
	}
	return Deadline{at: now.Add(ttl), set: true}
}

// IsSet reports whether the deadline carries a TTL.
func (d Deadline) IsSet() bool {
	return d.set
}

// At returns the absolute expiration instant and whether one is set.
func (d Deadline) At() (time.Time, bool) {
	return d.at, d.set
}

// Expired reports whether the deadline is set and strictly before now.
// An entry whose deadline equals now is still alive.
func (d Deadline) Expired(now time.Time) bool {
	return d.set && d.at.Before(now)
}

// Remaining returns how long until the deadline passes. It is negative once expired
// and zero for a Deadline that is not set.
func (d Deadline) Remaining(now time.Time) time.Duration {
	if !d.set {
		return 0
	}
	return d.at.Sub(now)
}
