package api

import "time"

// TTL sentinels returned by Cache.TTL (Redis-compatible semantics).
const (
	// NoExpiry : key exists but has no TTL
	NoExpiry time.Duration = -1

	// Missing : key does not exist or is already expired
	Missing time.Duration = -2
)

/*
Cache defines the PUBLIC API shared by the single-threaded LRU cache and the sharded,
externally synchronized cache built on top of it.
*/
type Cache[K comparable, V any] interface {

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		-------------------
		1. If the key exists and is NOT expired:
		   - Mark it most recently used
		   - Return (value, true)

		2. If the key exists but is expired:
		   - Remove it (lazy expiration)
		   - Return (zero, false)

		3. If the key does NOT exist:
		   - Return (zero, false)

		A miss is never an error.
	*/
	Get(key K) (V, bool)

	// Peek is Get without side effects: no recency update, no purge of an expired entry.
	Peek(key K) (V, bool)

	/*
		Put stores a key-value pair without a TTL.

		- Updating an existing key replaces value and TTL and marks it most recently used
		- Inserting a new key into a full cache evicts the least recently used entry first
	*/
	Put(key K, value V)

	/*
		PutWithTTL stores a key-value pair with an explicit time-to-live (TTL).

		TTL (Time-To-Live):
		-------------------
		- ttl > 0  : the entry expires ttl after now
		- ttl <= 0 : the entry is already expired; the next Get misses
		- Expired keys are lazily removed on access, they still occupy capacity until then
	*/
	PutWithTTL(key K, value V, ttl time.Duration)

	/*
		Remove deletes a key immediately.

		Returns true if a live entry was removed. Removing a missing key is safe.
	*/
	Remove(key K) bool

	/*
		Expire sets or updates the TTL of a live key, using the same rules as PutWithTTL.
		Returns false if the key does not exist or has already expired.
	*/
	Expire(key K, ttl time.Duration) bool

	/*
		TTL returns the remaining time-to-live for a key.

		RETURN VALUES:
		--------------
		>= 0     : Duration remaining before expiration
		NoExpiry : Key exists but has no TTL
		Missing  : Key does not exist or is already expired
	*/
	TTL(key K) time.Duration

	// Len returns the number of stored entries, including expired ones not yet purged.
	Len() int

	// Cap returns the maximum number of entries.
	Cap() int
}
