// Package cache provides the bounded in-memory store for decoded and
// synthesized frames, keyed by the identity produced by frame.FormatKey.
package cache

import (
	"container/list"

	"github.com/raceview/frameengine/pkg/frame"
)

// DefaultCapacity is the number of frames retained when no capacity is given.
const DefaultCapacity = 32

// Cache is an ordered, capacity-bounded frame collection. Order reflects
// insertion/update recency: Add moves an entry to the head, Get never
// reorders. A frequently read but never re-inserted frame can therefore be
// evicted ahead of colder, more recently inserted ones. That trade-off keeps
// the structure trivial at its small fixed capacity.
//
// Cache is not internally synchronized; callers must serialize access.
type Cache struct {
	frames   *list.List // front = most recently inserted
	capacity int

	onEvict func(*frame.Frame)
}

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity overrides DefaultCapacity. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n >= 1 {
			c.capacity = n
		}
	}
}

// WithEvictFunc installs a callback invoked with each evicted frame.
func WithEvictFunc(fn func(*frame.Frame)) Option {
	return func(c *Cache) {
		c.onEvict = fn
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		frames:   list.New(),
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add inserts f at the head. An existing entry with the same key is removed
// first; if the cache is at capacity after that, the tail entry is evicted.
// Size never exceeds capacity and no two entries ever share a key.
func (c *Cache) Add(f *frame.Frame) {
	if e := c.find(f.Key); e != nil {
		c.frames.Remove(e)
	} else if c.frames.Len() >= c.capacity {
		tail := c.frames.Back()
		evicted := c.frames.Remove(tail).(*frame.Frame)
		if c.onEvict != nil {
			c.onEvict(evicted)
		}
	}
	c.frames.PushFront(f)
}

// Get returns the frame stored under key, or nil if absent. Lookups never
// change recency order.
func (c *Cache) Get(key string) *frame.Frame {
	if e := c.find(key); e != nil {
		return e.Value.(*frame.Frame)
	}
	return nil
}

// Len reports the number of cached frames.
func (c *Cache) Len() int {
	return c.frames.Len()
}

// Capacity reports the configured maximum size.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Keys returns the cached keys from most to least recently inserted.
func (c *Cache) Keys() []string {
	keys := make([]string, 0, c.frames.Len())
	for e := c.frames.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*frame.Frame).Key)
	}
	return keys
}

func (c *Cache) find(key string) *list.Element {
	for e := c.frames.Front(); e != nil; e = e.Next() {
		if e.Value.(*frame.Frame).Key == key {
			return e
		}
	}
	return nil
}
