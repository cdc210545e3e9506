// Package cache provides the cache adapters behind the CacheRepository
// port: a thread-safe in-memory LRU with TTL, and a Redis-backed variant.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/alacena/v2/internal/ports/outbound"
)

// MemoryCache provides thread-safe in-memory caching with LRU eviction
type MemoryCache struct {
	items   map[string]*memoryCacheItem
	lruList *lruList
	maxSize int
	mu      sync.RWMutex
}

// memoryCacheItem represents a cached item with TTL and LRU tracking
type memoryCacheItem struct {
	data      []byte
	expiresAt time.Time
	lruNode   *lruNode
}

// lruList implements a doubly-linked list for LRU tracking
type lruList struct {
	head *lruNode
	tail *lruNode
	size int
}

// lruNode represents a node in the LRU list
type lruNode struct {
	key  string
	prev *lruNode
	next *lruNode
}

// NewMemoryCache creates a new in-memory cache with the given maximum size
func NewMemoryCache(maxSize int) outbound.CacheRepository {
	if maxSize <= 0 {
		maxSize = 1000 // Default size
	}

	lru := &lruList{}
	lru.head = &lruNode{}
	lru.tail = &lruNode{}
	lru.head.next = lru.tail
	lru.tail.prev = lru.head

	return &MemoryCache{
		items:   make(map[string]*memoryCacheItem),
		lruList: lru,
		maxSize: maxSize,
	}
}

// Get retrieves an item from the cache. A miss or expired entry returns nil.
// A hit touches the LRU list, so the whole lookup runs under the write lock;
// releasing between the read and the touch would let a concurrent Delete
// detach the node first.
func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, exists := mc.items[key]
	if !exists {
		return nil, nil
	}

	if time.Now().After(item.expiresAt) {
		mc.deleteItem(key, item)
		return nil, nil
	}

	mc.moveToFront(item.lruNode)
	return item.data, nil
}

// Set stores an item in the cache with TTL
func (mc *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	expiresAt := time.Now().Add(ttl)

	// If item already exists, update it
	if existing, exists := mc.items[key]; exists {
		existing.data = value
		existing.expiresAt = expiresAt
		mc.moveToFront(existing.lruNode)
		return nil
	}

	node := &lruNode{key: key}
	item := &memoryCacheItem{
		data:      value,
		expiresAt: expiresAt,
		lruNode:   node,
	}

	mc.items[key] = item
	mc.addToFront(node)
	mc.evictIfNecessary()
	return nil
}

// Delete removes an item from the cache
func (mc *MemoryCache) Delete(_ context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if item, exists := mc.items[key]; exists {
		mc.deleteItem(key, item)
	}
	return nil
}

// Exists checks if a key exists in the cache (and is not expired)
func (mc *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	mc.mu.RLock()
	item, exists := mc.items[key]
	mc.mu.RUnlock()

	if !exists {
		return false, nil
	}

	if time.Now().After(item.expiresAt) {
		mc.mu.Lock()
		// The read lock was released above; only drop the entry if it is
		// still the same one, a concurrent Delete may have beaten us here.
		if current, ok := mc.items[key]; ok && current == item {
			mc.deleteItem(key, item)
		}
		mc.mu.Unlock()
		return false, nil
	}

	return true, nil
}

// Internal helper methods

func (mc *MemoryCache) deleteItem(key string, item *memoryCacheItem) {
	delete(mc.items, key)
	mc.removeFromList(item.lruNode)
}

func (mc *MemoryCache) evictIfNecessary() {
	for len(mc.items) > mc.maxSize {
		// Remove least recently used item
		if mc.lruList.tail.prev != mc.lruList.head {
			lru := mc.lruList.tail.prev
			mc.deleteItem(lru.key, mc.items[lru.key])
		}
	}
}

func (mc *MemoryCache) addToFront(node *lruNode) {
	node.prev = mc.lruList.head
	node.next = mc.lruList.head.next
	mc.lruList.head.next.prev = node
	mc.lruList.head.next = node
	mc.lruList.size++
}

func (mc *MemoryCache) removeFromList(node *lruNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
	mc.lruList.size--
}

func (mc *MemoryCache) moveToFront(node *lruNode) {
	mc.removeFromList(node)
	mc.addToFront(node)
}
