package container

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Scope decides whether a resolution reuses an instance or builds a new one.
//
// Three policies exist:
//
//   - Unique: every resolution builds. Nothing is cached.
//   - Cached: the first resolution builds and the cache keeps the instance
//     alive until the factory (or the scope) is reset.
//   - WeakCached: instances are shared for as long as something else holds
//     them. The cache only keeps a weak handle, so it never extends an
//     instance's lifetime; once the last owner lets go, the next resolution
//     builds again.
//
// Each Container has one scope of each policy and can create more named
// ones (NewCachedScope, NewWeakCachedScope) whose caches are reset on their
// own.
type Scope interface {
	// Name identifies the scope in logs and diagnostics.
	Name() string
	// Len is the number of live cached instances.
	Len() int
	// Contains reports whether id has a live cached instance.
	Contains(id ID) bool
	// Reset drops every cached instance.
	Reset()
	// ResetID drops the instance cached for id.
	ResetID(id ID)

	// resolve returns the instance for id, calling build when the policy
	// says to. owned is false when the caller will not keep the result alive
	// itself (a WeakLazyInjected point).
	resolve(id ID, owned bool, build func() any) resolution
}

// resolution is what a scope reports back to the factory.
type resolution struct {
	value any
	// built is true when build ran for this call.
	built bool
	// retained is true when something other than the caller is known to
	// keep value alive: a strong cache, or the owner that kept a weak slot
	// live.
	retained bool
}

type uniqueScope struct{}

func (uniqueScope) Name() string     { return "unique" }
func (uniqueScope) Len() int         { return 0 }
func (uniqueScope) Contains(ID) bool { return false }
func (uniqueScope) Reset()           {}
func (uniqueScope) ResetID(ID)       {}

func (uniqueScope) resolve(_ ID, _ bool, build func() any) resolution {
	return resolution{value: build(), built: true}
}

// cachedScope backs both Cached and WeakCached. Builds for a single id are
// serialized through a singleflight group, so concurrent first resolutions
// construct one instance.
//
// Every reset bumps a generation. A build only stores its instance when the
// generation it started under is still current, so a build racing with
// Register or Reset never repopulates the slot with a stale instance.
type cachedScope struct {
	name  string
	weak  bool
	cache *ScopeCache
	group singleflight.Group

	mu    sync.Mutex
	epoch uint64
	gens  map[ID]uint64
}

type generation struct{ epoch, gen uint64 }

func newCachedScope(name string, weak bool) *cachedScope {
	return &cachedScope{name: name, weak: weak, cache: NewScopeCache(), gens: make(map[ID]uint64)}
}

func (s *cachedScope) Name() string        { return s.name }
func (s *cachedScope) Len() int            { return s.cache.Len() }
func (s *cachedScope) Contains(id ID) bool { return s.cache.Has(id) }

func (s *cachedScope) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.cache.ResetAll()
}

func (s *cachedScope) ResetID(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[id]++
	s.cache.Reset(id)
}

func (s *cachedScope) current(id ID) generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return generation{epoch: s.epoch, gen: s.gens[id]}
}

// store caches v for id unless a reset happened since g was taken.
func (s *cachedScope) store(id ID, g generation, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != g.epoch || s.gens[id] != g.gen {
		return false
	}
	if s.weak {
		s.cache.StoreWeak(id, v)
	} else {
		s.cache.StoreStrong(id, v)
	}
	return true
}

func (s *cachedScope) resolve(id ID, owned bool, build func() any) resolution {
	if v, ok := s.cache.Load(id); ok {
		return resolution{value: v, retained: true}
	}
	// Nobody would own an instance built here, so the weak slot would expire
	// at the next collection and hand out an orphan until then.
	if s.weak && !owned {
		return resolution{}
	}

	out, _, _ := s.group.Do(id.String(), func() (any, error) {
		if v, ok := s.cache.Load(id); ok {
			return resolution{value: v, retained: true}, nil
		}
		g := s.current(id)
		v := build()
		stored := s.store(id, g, v)
		return resolution{value: v, built: true, retained: stored && !s.weak}, nil
	})
	return out.(resolution)
}
