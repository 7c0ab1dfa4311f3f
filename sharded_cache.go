package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krisalay/lrucache/api"
	"github.com/krisalay/lrucache/engine"
	"github.com/krisalay/lrucache/shard"
)

var (
	// ErrInvalidShardCount is returned when a ShardedCache is constructed with fewer than one shard.
	ErrInvalidShardCount = errors.New("cache: shard count must be >= 1")

	// ErrNoLoader is returned by GetOrLoad when the engine has no Loader.
	ErrNoLoader = errors.New("cache: no loader configured")
)

var _ api.Cache[string, int] = (*ShardedCache[string, int])(nil)

/*
ShardedCache is the concurrency-safe cache.
It puts a lock around the single-threaded Cache, and splits the key space
over several shards so goroutines rarely fight over the same lock.

This struct is the orchestrator that connects:
- shards (each one a Cache behind a mutex)
- the selector (key → shard)
- the engine (read-through loading)

LRU order and capacity are per shard: the total never exceeds the configured
capacity, but the evicted entry is the least recently used of its shard.
*/
type ShardedCache[K comparable, V any] struct {
	// shards are the actual storage units. Each shard is an independent mini-cache.
	shards []*shard.Shard[K, V]

	// engine handles misses in GetOrLoad. May be nil.
	engine *engine.Engine[K, V]

	// selector decides which shard a key should go to.
	selector shard.Selector[K, V]

	// capacity is the maximum number of entries in the cache. This is divided across shards.
	capacity int
}

// NewShardedCache creates a ShardedCache. eng may be nil when GetOrLoad is not needed.
// opts are applied to every shard, so one clock and one Metrics serve the whole cache.
func NewShardedCache[K comparable, V any](
	shards int,
	capacity int,
	eng *engine.Engine[K, V],
	opts ...Option,
) (*ShardedCache[K, V], error) {
	if shards < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShardCount, shards)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	// A shard with capacity 0 would drop every key routed to it.
	if capacity > 0 && capacity < shards {
		shards = capacity
	}

	s := make([]*shard.Shard[K, V], shards)
	for i, c := range shard.Capacities(capacity, shards) {
		store, err := New[K, V](c, opts...)
		if err != nil {
			return nil, err
		}
		s[i] = shard.NewShard[K, V](store)
	}

	return &ShardedCache[K, V]{
		shards:   s,
		engine:   eng,
		selector: shard.NewHashSelector[K, V](),
		capacity: capacity,
	}, nil
}

func (c *ShardedCache[K, V]) shardFor(key K) *shard.Shard[K, V] {
	return c.selector.Select(key, c.shards)
}

/*
Get retrieves a value from the cache. It never loads.
*/
func (c *ShardedCache[K, V]) Get(key K) (V, bool) {
	sh := c.shardFor(key)

	sh.Mu.Lock()
	defer sh.Mu.Unlock()
	return sh.Store.Get(key)
}

/*
Peek returns the value for key without touching recency or purging.
*/
func (c *ShardedCache[K, V]) Peek(key K) (V, bool) {
	sh := c.shardFor(key)

	sh.Mu.Lock()
	defer sh.Mu.Unlock()
	return sh.Store.Peek(key)
}

/*
GetOrLoad returns the cached value, or loads it through the engine on a miss
and stores it with the engine's TTL.

Concurrent misses for one key share a single Loader call. The shard lock is NOT
held while loading, so a slow backing store only blocks callers of that key.
A value written while the load was in flight wins over the loaded one.

Each caller waits on its own ctx. The shared Loader call does not inherit
cancellation from whichever caller started it.
*/
func (c *ShardedCache[K, V]) GetOrLoad(ctx context.Context, key K) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	var zero V
	if !c.engine.CanLoad() {
		return zero, ErrNoLoader
	}

	v, _, err := c.engine.Load(ctx, key)
	if err != nil {
		return zero, fmt.Errorf("cache: load %v: %w", key, err)
	}

	sh := c.shardFor(key)

	sh.Mu.Lock()
	defer sh.Mu.Unlock()

	if cur, ok := sh.Store.Peek(key); ok {
		return cur, nil
	}
	if c.engine.TTL > 0 {
		sh.Store.PutWithTTL(key, v, c.engine.TTL)
	} else {
		sh.Store.Put(key, v)
	}
	return v, nil
}

/*
Put stores a value in the cache without TTL.
*/
func (c *ShardedCache[K, V]) Put(key K, value V) {
	sh := c.shardFor(key)

	sh.Mu.Lock()
	defer sh.Mu.Unlock()
	sh.Store.Put(key, value)
}

/*
PutWithTTL stores a value with an explicit TTL.
*/
func (c *ShardedCache[K, V]) PutWithTTL(key K, value V, ttl time.Duration) {
	sh := c.shardFor(key)

	sh.Mu.Lock()
	defer sh.Mu.Unlock()
	sh.Store.PutWithTTL(key, value, ttl)
}

/*
Remove deletes a key from the cache immediately.
*/
func (c *ShardedCache[K, V]) Remove(key K) bool {
	sh := c.shardFor(key)

	sh.Mu.Lock()
	defer sh.Mu.Unlock()
	return sh.Store.Remove(key)
}

/*
Expire updates TTL of an existing key.
*/
func (c *ShardedCache[K, V]) Expire(key K, ttl time.Duration) bool {
	sh := c.shardFor(key)

	sh.Mu.Lock()
	defer sh.Mu.Unlock()
	return sh.Store.Expire(key, ttl)
}

/*
TTL returns remaining time-to-live of a key.
*/
func (c *ShardedCache[K, V]) TTL(key K) time.Duration {
	sh := c.shardFor(key)

	sh.Mu.Lock()
	defer sh.Mu.Unlock()
	return sh.Store.TTL(key)
}

// Len sums the shard sizes. Shards are locked one at a time, so under concurrent
// writes the result is approximate.
func (c *ShardedCache[K, V]) Len() int {
	n := 0
	for _, sh := range c.shards {
		sh.Mu.Lock()
		n += sh.Store.Len()
		sh.Mu.Unlock()
	}
	return n
}

// Cap returns the total capacity.
func (c *ShardedCache[K, V]) Cap() int {
	return c.capacity
}
