package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	cache "github.com/krisalay/lrucache"
	"github.com/krisalay/lrucache/clock"
	"github.com/krisalay/lrucache/engine"
	"github.com/krisalay/lrucache/types"
)

//
// ================= TEST BACKING STORE =================
//

type TestStore struct {
	mu    sync.RWMutex
	data  map[string]string
	loads atomic.Int32
}

func NewTestStore() *TestStore {
	return &TestStore{data: make(map[string]string)}
}

var errNotInStore = errors.New("not in store")

func (s *TestStore) Load(ctx context.Context, key string) (string, error) {
	s.loads.Add(1)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", errNotInStore
	}
	return v, nil
}

func (s *TestStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

//
// ================= HELPER: CREATE SHARDED CACHE =================
//

func newShardedTestCache(t *testing.T, shards, capacity int, ttl time.Duration) (*cache.ShardedCache[string, string], *TestStore, *clock.Manual) {
	t.Helper()

	store := NewTestStore()
	clk := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	c, err := cache.NewShardedCache(shards, capacity, engine.New[string, string](store, ttl), cache.WithClock(clk))
	if err != nil {
		t.Fatalf("new sharded cache: %v", err)
	}
	return c, store, clk
}

//
// ================= CONSTRUCTION =================
//

func TestNewShardedCacheValidation(t *testing.T) {
	if _, err := cache.NewShardedCache[string, int](0, 10, nil); !errors.Is(err, cache.ErrInvalidShardCount) {
		t.Fatalf("expected ErrInvalidShardCount, got %v", err)
	}
	if _, err := cache.NewShardedCache[string, int](2, -1, nil); !errors.Is(err, cache.ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity, got %v", err)
	}
	c, err := cache.NewShardedCache[string, int](4, 0, nil)
	if err != nil {
		t.Fatalf("capacity 0 must be accepted: %v", err)
	}
	c.Put("k", 1)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("zero capacity sharded cache must store nothing")
	}
}

//
// ================= BASIC OPERATIONS =================
//

func TestShardedCapacityBelowShardCount(t *testing.T) {
	c, err := cache.NewShardedCache[string, int](4, 3, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.Cap() != 3 {
		t.Fatalf("expected cap 3, got %d", c.Cap())
	}

	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("k%d", i)
		c.Put(key, i)
		if v, ok := c.Get(key); !ok || v != i {
			t.Fatalf("key %s dropped on put into empty cache", key)
		}
		c.Remove(key)
	}
}

func TestShardedPutGetRemove(t *testing.T) {
	c, _, _ := newShardedTestCache(t, 4, 100, 0)

	c.Put("key1", "value1")
	if v, ok := c.Get("key1"); !ok || v != "value1" {
		t.Fatalf("expected value1, got %q (%v)", v, ok)
	}

	c.Put("key1", "value2")
	if v, _ := c.Get("key1"); v != "value2" {
		t.Fatalf("expected value2, got %q", v)
	}

	if !c.Remove("key1") {
		t.Fatalf("expected key1 to be removed")
	}
	if _, ok := c.Get("key1"); ok {
		t.Fatalf("expected miss after remove")
	}
}

func TestShardedCapacityNeverExceeded(t *testing.T) {
	c, _, _ := newShardedTestCache(t, 4, 10, 0)

	for i := 0; i < 1000; i++ {
		c.Put(fmt.Sprintf("key-%d", i), "v")
		if c.Len() > c.Cap() {
			t.Fatalf("len %d exceeds capacity %d", c.Len(), c.Cap())
		}
	}
	if c.Len() == 0 {
		t.Fatalf("expected entries to be retained")
	}
}

func TestShardedTTL(t *testing.T) {
	c, _, clk := newShardedTestCache(t, 2, 10, 0)

	c.PutWithTTL("ttlKey", "temp", time.Second)
	if got := c.TTL("ttlKey"); got != time.Second {
		t.Fatalf("expected 1s left, got %v", got)
	}

	clk.Advance(2 * time.Second)
	if _, ok := c.Get("ttlKey"); ok {
		t.Fatalf("expected ttlKey to be expired")
	}
	if got := c.TTL("ttlKey"); got != cache.Missing {
		t.Fatalf("expected Missing, got %v", got)
	}

	c.Put("k", "v")
	if !c.Expire("k", time.Millisecond) {
		t.Fatalf("expected Expire to succeed")
	}
	clk.Advance(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected k to be expired")
	}
}

//
// ================= READ-THROUGH =================
//

func TestGetOrLoadFromBackingStore(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newShardedTestCache(t, 2, 10, 0)

	store.Set("keyX", "store-value")

	v, err := c.GetOrLoad(ctx, "keyX")
	if err != nil || v != "store-value" {
		t.Fatalf("expected store-value, got %q (%v)", v, err)
	}

	// second read is served from memory
	if _, err := c.GetOrLoad(ctx, "keyX"); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if n := store.loads.Load(); n != 1 {
		t.Fatalf("expected 1 load, got %d", n)
	}
	if got := c.TTL("keyX"); got != cache.NoExpiry {
		t.Fatalf("expected loaded value without TTL, got %v", got)
	}
}

func TestGetOrLoadAppliesEngineTTL(t *testing.T) {
	ctx := context.Background()
	c, store, clk := newShardedTestCache(t, 2, 10, time.Minute)

	store.Set("k", "v1")
	if _, err := c.GetOrLoad(ctx, "k"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.TTL("k"); got != time.Minute {
		t.Fatalf("expected 1m TTL, got %v", got)
	}

	store.Set("k", "v2")
	clk.Advance(2 * time.Minute)

	v, err := c.GetOrLoad(ctx, "k")
	if err != nil || v != "v2" {
		t.Fatalf("expected reload to return v2, got %q (%v)", v, err)
	}
}

func TestGetOrLoadErrors(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newShardedTestCache(t, 2, 10, 0)

	_, err := c.GetOrLoad(ctx, "missing")
	if !errors.Is(err, errNotInStore) {
		t.Fatalf("expected wrapped loader error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("failed load must not store anything")
	}

	plain, err := cache.NewShardedCache[string, string](2, 10, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := plain.GetOrLoad(ctx, "k"); !errors.Is(err, cache.ErrNoLoader) {
		t.Fatalf("expected ErrNoLoader, got %v", err)
	}
}

//
// ================= CONCURRENCY TEST =================
//

func TestConcurrentGetOrLoad(t *testing.T) {
	ctx := context.Background()

	var loads atomic.Int32
	release := make(chan struct{})
	loader := types.LoaderFunc[string, string](func(context.Context, string) (string, error) {
		loads.Add(1)
		<-release
		return "value", nil
	})

	c, err := cache.NewShardedCache(4, 10, engine.New[string, string](loader, 0))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	const callers = 10
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			started.Done()
			v, err := c.GetOrLoad(ctx, "key")
			if err != nil || v != "value" {
				t.Errorf("expected value, got %q (%v)", v, err)
			}
		}()
	}

	started.Wait()
	// give the goroutines time to join the in-flight load
	time.Sleep(50 * time.Millisecond)
	close(release)
	done.Wait()

	if n := loads.Load(); n != 1 {
		t.Fatalf("expected exactly 1 load, got %d", n)
	}
}

func TestGetOrLoadKeepsConcurrentPut(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	loader := types.LoaderFunc[string, string](func(context.Context, string) (string, error) {
		close(entered)
		<-release
		return "stale", nil
	})

	c, err := cache.NewShardedCache(2, 10, engine.New[string, string](loader, 0))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	type result struct {
		v   string
		err error
	}
	res := make(chan result, 1)
	go func() {
		v, err := c.GetOrLoad(context.Background(), "k")
		res <- result{v, err}
	}()

	<-entered
	c.Put("k", "fresh")
	close(release)

	r := <-res
	if r.err != nil || r.v != "fresh" {
		t.Fatalf("expected GetOrLoad to return fresh, got %q (%v)", r.v, r.err)
	}
	if v, ok := c.Get("k"); !ok || v != "fresh" {
		t.Fatalf("loaded value overwrote a newer Put, got %q", v)
	}
}

func TestConcurrentMixedOperations(t *testing.T) {
	metrics := &types.Counters{}
	c, err := cache.NewShardedCache[int, int](8, 128, nil, cache.WithMetrics(metrics))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	wg := sync.WaitGroup{}
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 2000; j++ {
				key := (id*7919 + j) % 512
				switch j % 4 {
				case 0:
					c.Put(key, j)
				case 1:
					c.PutWithTTL(key, j, time.Millisecond)
				case 2:
					c.Get(key)
				default:
					c.Remove(key)
				}
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > c.Cap() {
		t.Fatalf("len %d exceeds capacity %d", c.Len(), c.Cap())
	}
	s := metrics.Snapshot()
	if s.Hits+s.Misses != 16*500 {
		t.Fatalf("expected %d reads to be counted, got %d", 16*500, s.Hits+s.Misses)
	}
}
