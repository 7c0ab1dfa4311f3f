package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/krisalay/lrucache/api"
	"github.com/krisalay/lrucache/clock"
	"github.com/krisalay/lrucache/eviction"
	"github.com/krisalay/lrucache/expiration"
	"github.com/krisalay/lrucache/types"
)

// ErrInvalidCapacity is returned when a cache is constructed with a negative capacity.
var ErrInvalidCapacity = errors.New("cache: capacity must be >= 0")

// Re-exported so callers of Cache.TTL don't need to import api.
const (
	NoExpiry = api.NoExpiry
	Missing  = api.Missing
)

var _ api.Cache[string, int] = (*Cache[string, int])(nil)

/*
Cache is a bounded LRU cache with optional per-entry TTL.

It is the orchestrator of two structures:
- index: key → node, for O(1) lookup
- recency: intrusive doubly-linked list, front = most recently used

Every Get/Put touches the index first, then fixes up the list.

Cache is NOT safe for concurrent use. Wrap it in a mutex (or use ShardedCache)
when several goroutines share it.
*/
type Cache[K comparable, V any] struct {
	// capacity is fixed at construction. 0 means "store nothing".
	capacity int

	index   map[K]*eviction.Node[K, V]
	recency *eviction.List[K, V]

	clock   clock.Clock
	metrics types.Metrics
}

// New creates a Cache holding at most capacity entries.
// A negative capacity fails with ErrInvalidCapacity; zero is allowed.
func New[K comparable, V any](capacity int, opts ...Option) (*Cache[K, V], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	o := newOptions(opts)

	return &Cache[K, V]{
		capacity: capacity,
		index:    make(map[K]*eviction.Node[K, V]),
		recency:  eviction.NewList[K, V](),
		clock:    o.clock,
		metrics:  o.metrics,
	}, nil
}

// Put stores value under key without a TTL.
func (c *Cache[K, V]) Put(key K, value V) {
	c.put(key, value, expiration.Never())
}

/*
PutWithTTL stores value under key, expiring ttl from now.
A ttl <= 0 stores an entry that is already expired: the next Get misses.
*/
func (c *Cache[K, V]) PutWithTTL(key K, value V, ttl time.Duration) {
	if c.capacity == 0 {
		return
	}
	c.put(key, value, expiration.After(c.clock.Now(), ttl))
}

func (c *Cache[K, V]) put(key K, value V, expires expiration.Deadline) {
	if c.capacity == 0 {
		return
	}

	// Update in place: no capacity is consumed, nothing is evicted.
	if n, ok := c.index[key]; ok {
		n.Value = value
		n.Expires = expires
		c.recency.MoveToFront(n)
		return
	}

	if len(c.index) >= c.capacity {
		c.evict()
	}

	n := &eviction.Node[K, V]{Key: key, Value: value, Expires: expires}
	c.recency.InsertFront(n)
	c.index[key] = n
}

/*
Get returns the value stored under key and true, or the zero value and false on a miss.

Expired entries are purged here (lazy expiration) and reported as misses.
A hit marks the entry most recently used.
*/
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V

	n, ok := c.index[key]
	if !ok {
		c.metrics.Miss()
		return zero, false
	}

	if n.Expires.Expired(c.clock.Now()) {
		c.remove(n)
		c.metrics.Expire()
		c.metrics.Miss()
		return zero, false
	}

	c.recency.MoveToFront(n)
	c.metrics.Hit()
	return n.Value, true
}

// Peek returns the value for key without touching recency and without purging.
// An expired entry is reported as a miss but left in place.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	var zero V

	n, ok := c.index[key]
	if !ok || n.Expires.Expired(c.clock.Now()) {
		return zero, false
	}
	return n.Value, true
}

// Remove deletes key. It reports whether a live entry was removed;
// an expired entry is purged as well but reported as false.
func (c *Cache[K, V]) Remove(key K) bool {
	n, ok := c.index[key]
	if !ok {
		return false
	}
	expired := n.Expires.Expired(c.clock.Now())
	c.remove(n)
	if expired {
		c.metrics.Expire()
		return false
	}
	return true
}

// Expire replaces the TTL of a live key, following the PutWithTTL rules.
// Recency is not changed.
func (c *Cache[K, V]) Expire(key K, ttl time.Duration) bool {
	n, ok := c.live(key)
	if !ok {
		return false
	}
	n.Expires = expiration.After(c.clock.Now(), ttl)
	return true
}

// Persist drops the TTL of a live key so it only leaves through eviction or Remove.
func (c *Cache[K, V]) Persist(key K) bool {
	n, ok := c.live(key)
	if !ok {
		return false
	}
	n.Expires = expiration.Never()
	return true
}

// TTL returns the time left before key expires, NoExpiry for a live key without TTL,
// or Missing when the key is absent or expired.
func (c *Cache[K, V]) TTL(key K) time.Duration {
	n, ok := c.live(key)
	if !ok {
		return Missing
	}
	if !n.Expires.IsSet() {
		return NoExpiry
	}
	return n.Expires.Remaining(c.clock.Now())
}

// Len returns the number of stored entries.
//
// Note: Len includes entries that have expired but haven't been read since.
func (c *Cache[K, V]) Len() int {
	return len(c.index)
}

// Cap returns the capacity given to New.
func (c *Cache[K, V]) Cap() int {
	return c.capacity
}

// Keys returns the stored keys in MRU -> LRU order, expired ones included.
func (c *Cache[K, V]) Keys() []K {
	return c.recency.Keys()
}

// Clear drops every entry. Nothing is reported to Metrics.
func (c *Cache[K, V]) Clear() {
	clear(c.index)
	c.recency.Reset()
}

// live returns the node for key if it exists and is not expired.
// An expired node found on the way is purged.
func (c *Cache[K, V]) live(key K) (*eviction.Node[K, V], bool) {
	n, ok := c.index[key]
	if !ok {
		return nil, false
	}
	if n.Expires.Expired(c.clock.Now()) {
		c.remove(n)
		c.metrics.Expire()
		return nil, false
	}
	return n, true
}

// evict removes the least recently used entry, expired or not.
func (c *Cache[K, V]) evict() {
	n := c.recency.LeastRecentlyUsed()
	if n == nil {
		return
	}
	c.remove(n)
	c.metrics.Eviction()
}

func (c *Cache[K, V]) remove(n *eviction.Node[K, V]) {
	c.recency.Unlink(n)
	delete(c.index, n.Key)
}
