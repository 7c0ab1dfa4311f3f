package shard

import (
	"sync"

	"github.com/krisalay/lrucache/api"
)

/*
This file defines what a "Shard" is. A shard is a small, independent piece of the cache.
Instead of having: One big cache and one big lock
We split the cache into many shards. Each shard:
- Holds some portion of the data
- Has its own LRU order and capacity
- Has its own lock

The underlying cache is single-threaded, so EVERY access (reads included, since
Get reorders the recency list) must hold Mu.
*/
type Shard[K comparable, V any] struct {

	// Store holds the entries of this shard.
	Store api.Cache[K, V]

	// Mu guards Store.
	Mu sync.Mutex
}

func NewShard[K comparable, V any](store api.Cache[K, V]) *Shard[K, V] {
	return &Shard[K, V]{Store: store}
}

// Capacities splits total across n shards. The first total%n shards get one extra slot,
// so the sum is exactly total.
func Capacities(total, n int) []int {
	out := make([]int, n)
	base, extra := total/n, total%n
	for i := range out {
		out[i] = base
		if i < extra {
			out[i]++
		}
	}
	return out
}
