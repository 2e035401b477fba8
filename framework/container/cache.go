package container

import (
	"slices"
	"sync"
)

// slot is one ScopeCache entry: either a strong instance or a weak handle.
type slot struct {
	strong any
	weak   Weak[any]
	isWeak bool
}

func (s slot) value() (any, bool) {
	if !s.isWeak {
		return s.strong, true
	}
	return s.weak.Value()
}

// ScopeCache holds the instances a scope has handed out, keyed by factory ID.
//
// Strong slots keep their instance alive until reset. Weak slots never do:
// once the instance's other owners drop it and the collector runs, the slot
// reads exactly like an empty one.
type ScopeCache struct {
	mu    sync.RWMutex
	slots map[ID]slot
}

// NewScopeCache creates an empty cache.
func NewScopeCache() *ScopeCache {
	return &ScopeCache{slots: make(map[ID]slot)}
}

// Load returns the live instance cached for id.
func (c *ScopeCache) Load(id ID) (any, bool) {
	c.mu.RLock()
	s, ok := c.slots[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return s.value()
}

// Has reports whether id has a live entry.
func (c *ScopeCache) Has(id ID) bool {
	_, ok := c.Load(id)
	return ok
}

// StoreStrong caches v for id and keeps it alive.
func (c *ScopeCache) StoreStrong(id ID, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[id] = slot{strong: v}
}

// StoreWeak caches a weak handle to v for id. When v cannot be held weakly
// (see MakeWeak) the slot is cleared instead.
func (c *ScopeCache) StoreWeak(id ID, v any) {
	w := MakeWeak(v)
	c.mu.Lock()
	defer c.mu.Unlock()
	if w.IsZero() {
		delete(c.slots, id)
		return
	}
	c.slots[id] = slot{weak: w, isWeak: true}
}

// Reset clears the slot for id.
func (c *ScopeCache) Reset(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slots, id)
}

// ResetAll clears every slot.
func (c *ScopeCache) ResetAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots = make(map[ID]slot)
}

// Prune drops weak slots whose referent is gone and returns how many it
// removed. Expired slots are already invisible to Load; Prune only reclaims
// the map entries.
func (c *ScopeCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, s := range c.slots {
		if _, ok := s.value(); !ok {
			delete(c.slots, id)
			n++
		}
	}
	return n
}

// Len returns the number of live entries.
func (c *ScopeCache) Len() int {
	return len(c.IDs())
}

// IsEmpty reports whether the cache has no live entries.
func (c *ScopeCache) IsEmpty() bool { return c.Len() == 0 }

// IDs returns the ids with live entries, in ascending order.
func (c *ScopeCache) IDs() []ID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]ID, 0, len(c.slots))
	for id, s := range c.slots {
		if _, ok := s.value(); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
