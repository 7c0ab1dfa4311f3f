// Package cache implements a bounded, in-memory LRU cache with optional
// per-entry TTL.
//
// Cache is the core: a map from key to node plus an intrusive doubly-linked
// list ordered from most to least recently used. Get and Put are O(1).
// When a new key arrives and the cache is full, the least recently used
// entry is evicted.
//
// TTL is lazy. An entry written with PutWithTTL is checked only when it is
// read; an expired entry keeps its slot until then and may be evicted by LRU
// pressure first. There is no background sweeper.
//
//	c, err := cache.New[string, int](2)
//	if err != nil {
//		return err
//	}
//	c.Put("a", 1)
//	c.PutWithTTL("b", 2, 50*time.Millisecond)
//	if v, ok := c.Get("a"); ok {
//		fmt.Println(v)
//	}
//
// Cache is not safe for concurrent use. ShardedCache wraps one Cache per
// shard behind a mutex and adds read-through loading (GetOrLoad) via the
// engine package.
package cache
