// This file implements the LRU recency list.

package eviction

import "github.com/krisalay/lrucache/expiration"

// Node represents ONE cache entry. It lives inside the recency list (intrusive links)
// and is referenced by the cache index, so both can reach it in O(1).
type Node[K comparable, V any] struct {
	// Key is kept on the node because eviction starts from the list, not from the index.
	Key K

	Value V

	// Expires is the optional TTL deadline. Zero means "never expires".
	Expires expiration.Deadline

	// prev points to the node that was used just after this one (towards the head)
	prev *Node[K, V]

	// next points to the node that was used just before this one (towards the tail)
	next *Node[K, V]
}

/*
List is a doubly-linked list ordered from most recently used (front) to
least recently used (back).

head and tail are sentinels. They never hold data and are never handed out.
A List must be created with NewList and must not be copied afterwards.
*/
type List[K comparable, V any] struct {
	head Node[K, V]
	tail Node[K, V]
	len  int
}

func NewList[K comparable, V any]() *List[K, V] {
	l := &List[K, V]{}
	l.head.next = &l.tail
	l.tail.prev = &l.head
	return l
}

// Len returns the number of real nodes in the list.
func (l *List[K, V]) Len() int { return l.len }

// InsertFront links n between the head sentinel and the current most recently used node.
// n must not already be linked.
func (l *List[K, V]) InsertFront(n *Node[K, V]) {
	n.prev = &l.head
	n.next = l.head.next
	l.head.next.prev = n
	l.head.next = n
	l.len++
}

// Unlink splices n out by relinking its neighbours. n must currently be in the list.
func (l *List[K, V]) Unlink(n *Node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
	l.len--
}

// MoveToFront marks n as most recently used.
func (l *List[K, V]) MoveToFront(n *Node[K, V]) {
	if l.head.next == n {
		return
	}
	l.Unlink(n)
	l.InsertFront(n)
}

// LeastRecentlyUsed returns the node next to the tail sentinel, or nil if the list is empty.
func (l *List[K, V]) LeastRecentlyUsed() *Node[K, V] {
	if l.tail.prev == &l.head {
		return nil
	}
	return l.tail.prev
}

// MostRecentlyUsed returns the node next to the head sentinel, or nil if the list is empty.
func (l *List[K, V]) MostRecentlyUsed() *Node[K, V] {
	if l.head.next == &l.tail {
		return nil
	}
	return l.head.next
}

// Keys returns the keys in MRU -> LRU order.
func (l *List[K, V]) Keys() []K {
	out := make([]K, 0, l.len)
	for n := l.head.next; n != &l.tail; n = n.next {
		out = append(out, n.Key)
	}
	return out
}

// Reset drops every node. The nodes themselves are left to the garbage collector.
func (l *List[K, V]) Reset() {
	l.head.next = &l.tail
	l.tail.prev = &l.head
	l.len = 0
}
