package expiration

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNeverExpires(t *testing.T) {
	var d Deadline
	if d.IsSet() {
		t.Fatalf("zero Deadline must not carry a TTL")
	}
	if d.Expired(epoch.Add(100 * 365 * 24 * time.Hour)) {
		t.Fatalf("zero Deadline must never expire")
	}
	if Never() != d {
		t.Fatalf("Never() must equal the zero value")
	}
}

func TestAfterPositiveTTL(t *testing.T) {
	d := After(epoch, 50*time.Millisecond)

	at, ok := d.At()
	if !ok || !at.Equal(epoch.Add(50*time.Millisecond)) {
		t.Fatalf("expected deadline at +50ms, got %v (set=%v)", at, ok)
	}

	if d.Expired(epoch.Add(49 * time.Millisecond)) {
		t.Fatalf("expired too early")
	}
	// strictly-before comparison: the exact deadline is still alive
	if d.Expired(epoch.Add(50 * time.Millisecond)) {
		t.Fatalf("expired at the deadline itself")
	}
	if !d.Expired(epoch.Add(51 * time.Millisecond)) {
		t.Fatalf("expected expiry after the deadline")
	}
}

func TestAfterNonPositiveTTLIsImmediatelyExpired(t *testing.T) {
	for _, ttl := range []time.Duration{0, -1, -100 * time.Millisecond} {
		d := After(epoch, ttl)
		if !d.IsSet() {
			t.Fatalf("ttl %v: expected a deadline to be set", ttl)
		}
		if !d.Expired(epoch) {
			t.Fatalf("ttl %v: expected immediate expiry", ttl)
		}
		if got := d.Remaining(epoch); got != -Backdate {
			t.Fatalf("ttl %v: expected remaining %v, got %v", ttl, -Backdate, got)
		}
	}
}

func TestRemaining(t *testing.T) {
	d := After(epoch, time.Second)
	if got := d.Remaining(epoch.Add(300 * time.Millisecond)); got != 700*time.Millisecond {
		t.Fatalf("expected 700ms remaining, got %v", got)
	}
	if got := Never().Remaining(epoch); got != 0 {
		t.Fatalf("expected 0 for unset deadline, got %v", got)
	}
}
