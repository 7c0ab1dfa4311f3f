package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/krisalay/lrucache"
	"github.com/krisalay/lrucache/engine"
	"github.com/krisalay/lrucache/types"
)

// ================= BACKING STORE =================
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]string)}
}

func (s *InMemoryStore) Load(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fmt.Println("STORE  → load:", key)
	v, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found", key)
	}
	return v, nil
}

func (s *InMemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func printStats(s types.Stats) {
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS        : %d\n", s.Hits)
	fmt.Printf("MISSES      : %d\n", s.Misses)
	fmt.Printf("EVICTIONS   : %d\n", s.Evictions)
	fmt.Printf("EXPIRATIONS : %d\n", s.Expirations)
	fmt.Printf("HIT RATIO   : %.2f\n", s.HitRatio())
}

// ================= MAIN =================

func main() {
	ctx := context.Background()
	metrics := &types.Counters{}

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("EVICTION POLICY : LRU")
	fmt.Println("TTL STRATEGY    : lazy, checked on read")
	fmt.Println("CAPACITY        : 2 keys")

	lru, err := cache.New[string, int](2, cache.WithMetrics(metrics))
	if err != nil {
		fmt.Println("SYSTEM → cannot create cache:", err)
		return
	}

	// ====================================================
	fmt.Println("\n==================== 1) LRU EVICTION ====================")
	lru.Put("1st", 1)
	lru.Put("2nd", 2)
	lru.Get("1st")
	fmt.Println("CACHE  → GET 1st (1st becomes MRU)")
	lru.Put("3rd", 3)
	fmt.Println("CACHE  → PUT 3rd")

	if _, ok := lru.Get("2nd"); !ok {
		fmt.Println(`CACHE  → GET 2nd = miss (evicted as LRU)`)
	}
	fmt.Println("CACHE  → keys (MRU → LRU):", lru.Keys())

	// ====================================================
	fmt.Println("\n==================== 2) TTL EXPIRATION ====================")
	lru.PutWithTTL("ttl", 10, 50*time.Millisecond)
	fmt.Println("CACHE  → PUT ttl (TTL = 50ms)")

	time.Sleep(60 * time.Millisecond)

	if _, ok := lru.Get("ttl"); !ok {
		fmt.Println("CACHE  → GET ttl after 60ms = miss (expired)")
	}

	lru.PutWithTTL("instant", 30, -100*time.Millisecond)
	if _, ok := lru.Get("instant"); !ok {
		fmt.Println("CACHE  → GET instant (TTL = -100ms) = miss")
	}

	// ====================================================
	fmt.Println("\n==================== 3) ZERO CAPACITY ====================")
	empty, _ := cache.New[string, int](0)
	empty.Put("E", 1)
	_, ok := empty.Get("E")
	fmt.Println("CACHE  → GET E on capacity-0 cache, found =", ok)

	if _, err := cache.New[string, int](-1); err != nil {
		fmt.Println("CACHE  → New(-1):", err)
	}

	// ====================================================
	fmt.Println("\n==================== 4) READ-THROUGH + SINGLEFLIGHT ====================")
	store := NewInMemoryStore()
	store.Set("b", "beta")

	sharded, err := cache.NewShardedCache(
		4,
		20,
		engine.New[string, string](store, time.Minute),
		cache.WithMetrics(metrics),
	)
	if err != nil {
		fmt.Println("SYSTEM → cannot create sharded cache:", err)
		return
	}

	wg := sync.WaitGroup{}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			val, err := sharded.GetOrLoad(ctx, "b")
			if err != nil {
				fmt.Printf("GOROUTINE-%d → GET b failed: %v\n", id, err)
				return
			}
			fmt.Printf("GOROUTINE-%d → GET b = %v\n", id, val)
		}(i)
	}
	wg.Wait()
	fmt.Println("CACHE  → TTL b =", sharded.TTL("b").Round(time.Second))

	// ====================================================
	printStats(metrics.Snapshot())

	fmt.Println("\n==================== SHUTDOWN ====================")
	lru.Clear()
	fmt.Println("SYSTEM → cache cleared")
}
