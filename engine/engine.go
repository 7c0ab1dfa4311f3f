package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/krisalay/lrucache/types"
	"golang.org/x/sync/singleflight"
)

/*
Engine is the read-through part of the cache.
It is responsible for what happens on a MISS, NOT for storage.

It decides:
- How data is loaded on cache miss
- How long a loaded value stays valid (TTL)
- How concurrent misses for the same key are merged

It does NOT:
- Store data
- Handle sharding
- Handle locking
- Decide eviction order
*/
type Engine[K comparable, V any] struct {

	// Loader is how the cache talks to the outside world when it does NOT have the data.
	// This can be a database call, an API call, or any external call.
	// If nil, the cache is a plain in-memory cache.
	Loader types.Loader[K, V]

	// TTL is applied to every loaded value. 0 stores loaded values without a TTL.
	TTL time.Duration

	// KeyFunc turns a key into the string singleflight groups calls by.
	// Defaults to fmt.Sprintf("%#v", key).
	KeyFunc func(K) string

	// sf prevents multiple goroutines from loading the same key from the backing store simultaneously.
	sf singleflight.Group
}

/*
New creates an Engine. loader may be nil.
*/
func New[K comparable, V any](loader types.Loader[K, V], ttl time.Duration) *Engine[K, V] {
	return &Engine[K, V]{
		Loader: loader,
		TTL:    ttl,
	}
}

// CanLoad reports whether a Loader is configured.
func (e *Engine[K, V]) CanLoad() bool {
	return e != nil && e.Loader != nil
}

/*
Load fetches key through the Loader.

singleflight ensures that:
  - If 100 goroutines request the same missing key,
    only ONE of them calls the Loader.
  - Others wait for the result.

The Loader runs with a context that keeps ctx's values but not its cancellation,
so one caller giving up does not fail the others. Each caller stops waiting
when its own ctx is done.

shared reports whether the result was handed to more than one caller.
*/
func (e *Engine[K, V]) Load(ctx context.Context, key K) (v V, shared bool, err error) {
	loadCtx := context.WithoutCancel(ctx)
	ch := e.sf.DoChan(e.flightKey(key), func() (any, error) {
		return e.Loader.Load(loadCtx, key)
	})

	select {
	case <-ctx.Done():
		return v, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return v, res.Shared, res.Err
		}
		v, _ = res.Val.(V)
		return v, res.Shared, nil
	}
}

func (e *Engine[K, V]) flightKey(key K) string {
	if e.KeyFunc != nil {
		return e.KeyFunc(key)
	}
	return fmt.Sprintf("%#v", key)
}
