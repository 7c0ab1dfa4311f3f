package main

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	hashicorp "github.com/hashicorp/golang-lru"
	"github.com/karlseguin/ccache/v3"
	"golang.org/x/sync/errgroup"

	cache "github.com/krisalay/lrucache"
	"github.com/krisalay/lrucache/engine"
	"github.com/krisalay/lrucache/types"
)

// ================= BACKING STORE =================

type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]int)}
}

func (s *InMemoryStore) Load(ctx context.Context, key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key], nil
}

func (s *InMemoryStore) Set(key string, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// ================= CANDIDATES =================

// target is the tiny surface the load test needs from every cache it compares.
type target struct {
	name string
	get  func(key string)
	put  func(key string, value int)
	stop func()
}

const (
	shards      = 8
	capacity    = 200000
	preloadKeys = 100000
	goroutines  = 200
	opsPerG     = 5000
	ttl         = 60 * time.Second
)

func lrucacheTarget(metrics types.Metrics) (target, error) {
	store := NewInMemoryStore()
	c, err := cache.NewShardedCache(
		shards,
		capacity,
		engine.New[string, int](store, ttl),
		cache.WithMetrics(metrics),
	)
	if err != nil {
		return target{}, err
	}
	ctx := context.Background()
	return target{
		name: "lrucache (sharded)",
		get:  func(key string) { _, _ = c.GetOrLoad(ctx, key) },
		put:  func(key string, value int) { c.PutWithTTL(key, value, ttl) },
		stop: func() {},
	}, nil
}

func hashicorpTarget() (target, error) {
	c, err := hashicorp.New(capacity)
	if err != nil {
		return target{}, err
	}
	return target{
		name: "hashicorp/golang-lru",
		get:  func(key string) { c.Get(key) },
		put:  func(key string, value int) { c.Add(key, value) },
		stop: func() {},
	}, nil
}

func ccacheTarget() (target, error) {
	c := ccache.New(ccache.Configure[int]().MaxSize(capacity))
	return target{
		name: "karlseguin/ccache",
		get:  func(key string) { c.Get(key) },
		put:  func(key string, value int) { c.Set(key, value, ttl) },
		stop: c.Stop,
	}, nil
}

// ================= BENCHMARK =================

func run(ctx context.Context, t target) (time.Duration, error) {
	for i := 0; i < preloadKeys; i++ {
		t.put("key-"+strconv.Itoa(i), i)
	}
	for i := 0; i < 10000; i++ {
		t.get("key-" + strconv.Itoa(i%preloadKeys))
	}

	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(goroutines)
	for i := 0; i < goroutines; i++ {
		g.Go(func() error {
			for j := 0; j < opsPerG; j++ {
				if j%1000 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
				t.get("key-" + strconv.Itoa(j%preloadKeys))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return time.Since(start), nil
}

func main() {
	ctx := context.Background()
	metrics := &types.Counters{}

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Shards       :", shards)
	fmt.Println("Capacity     :", capacity)
	fmt.Println("Preload Keys :", preloadKeys)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("---------------------------------")

	builders := []func() (target, error){
		func() (target, error) { return lrucacheTarget(metrics) },
		hashicorpTarget,
		ccacheTarget,
	}

	totalOps := goroutines * opsPerG

	fmt.Println("\n================ RESULTS =================")
	for _, build := range builders {
		t, err := build()
		if err != nil {
			fmt.Println("SKIP:", err)
			continue
		}

		duration, err := run(ctx, t)
		t.stop()
		if err != nil {
			fmt.Printf("%-22s : failed: %v\n", t.name, err)
			continue
		}

		fmt.Printf("%-22s : %v total, %.2f ops/sec\n", t.name, duration, float64(totalOps)/duration.Seconds())
	}
	fmt.Println("=========================================")

	s := metrics.Snapshot()
	fmt.Printf("lrucache hits=%d misses=%d hit ratio=%.2f\n", s.Hits, s.Misses, s.HitRatio())
}
