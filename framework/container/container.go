package container

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container owns everything a group of factories shares: the ID sequence,
// the override table, the scopes and their caches.
//
// Most programs use the process-wide Default container. Tests that want
// isolation either call Reset between cases or create their own with New.
type Container struct {
	seq    atomic.Uint64
	logger atomic.Pointer[slog.Logger]

	registrations *Registrations

	unique     Scope
	cached     *cachedScope
	weakCached *cachedScope

	mu sync.RWMutex

	// every resettable scope, by name
	scopes map[string]Scope

	// id → declaration metadata
	factories map[ID]*descriptor

	afterResolving []func(Resolution)
}

// Option configures a Container.
type Option func(c *Container)

// WithLogger sets the logger the container reports declarations,
// resolutions, overrides and resets to (at Debug level).
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) { c.SetLogger(l) }
}

// New creates an empty container with the three built-in scopes.
func New(opts ...Option) *Container {
	c := &Container{
		registrations: NewRegistrations(),
		unique:        uniqueScope{},
		cached:        newCachedScope("cached", false),
		weakCached:    newCachedScope("weak_cached", true),
		scopes:        make(map[string]Scope),
		factories:     make(map[ID]*descriptor),
	}
	c.scopes[c.cached.name] = c.cached
	c.scopes[c.weakCached.name] = c.weakCached
	c.logger.Store(slog.New(slog.DiscardHandler))
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Unique returns the scope that builds on every resolution.
func (c *Container) Unique() Scope { return c.unique }

// Cached returns the scope that builds once and keeps the instance alive.
func (c *Container) Cached() Scope { return c.cached }

// WeakCached returns the scope that shares an instance only while some
// other owner keeps it alive.
func (c *Container) WeakCached() Scope { return c.weakCached }

// NewCachedScope creates an additional strong-caching scope with its own
// cache, so a group of factories can be reset together.
//
//	session := c.NewCachedScope("session")
//	user := container.NewFactory(c, "user", session, loadUser)
//	...
//	session.Reset() // logout
//
// Scope names are unique per container; reusing one panics.
func (c *Container) NewCachedScope(name string) Scope {
	return c.addScope(newCachedScope(name, false))
}

// NewWeakCachedScope creates an additional weak-caching scope.
func (c *Container) NewWeakCachedScope(name string) Scope {
	return c.addScope(newCachedScope(name, true))
}

func (c *Container) addScope(s *cachedScope) Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.name == "" || s.name == c.unique.Name() {
		panic(fmt.Sprintf("container: invalid scope name [%s]", s.name))
	}
	if _, exists := c.scopes[s.name]; exists {
		panic(fmt.Sprintf("container: scope [%s] already exists", s.name))
	}
	c.scopes[s.name] = s
	return s
}

// Scope looks up a resettable scope by name.
func (c *Container) Scope(name string) (Scope, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.scopes[name]
	return s, ok
}

// Scopes returns every resettable scope, sorted by name.
func (c *Container) Scopes() []Scope {
	c.mu.RLock()
	out := make([]Scope, 0, len(c.scopes))
	for _, s := range c.scopes {
		out = append(out, s)
	}
	c.mu.RUnlock()
	slices.SortFunc(out, func(a, b Scope) int { return cmp.Compare(a.Name(), b.Name()) })
	return out
}

// Registrations returns the container's override table.
func (c *Container) Registrations() *Registrations { return c.registrations }

// ── Reset ─────────────────────────────────────────────────────────────────────

// Reset removes every override and empties every scope cache. Factories stay
// declared and keep their IDs; the next resolution of each one behaves like
// the very first.
func (c *Container) Reset() {
	c.registrations.ResetAll()
	for _, s := range c.Scopes() {
		s.Reset()
	}
	c.Logger().Debug("container reset")
}

// ResetScope empties the named scope's cache.
func (c *Container) ResetScope(name string) bool {
	s, ok := c.Scope(name)
	if !ok {
		return false
	}
	s.Reset()
	c.Logger().Debug("scope reset", "scope", name)
	return true
}

// ResetFactory drops the override and the cached instance of one factory.
// It returns false for unknown ids.
func (c *Container) ResetFactory(id ID) bool {
	d, ok := c.lookup(id)
	if !ok {
		return false
	}
	c.reset(d)
	return true
}

func (c *Container) reset(d *descriptor) {
	c.registrations.Reset(d.id)
	d.scope.ResetID(d.id)
	c.Logger().Debug("factory reset", "id", d.id, "name", d.name)
}

// ── Logging ───────────────────────────────────────────────────────────────────

// Logger returns the container's logger.
func (c *Container) Logger() *slog.Logger { return c.logger.Load() }

// SetLogger replaces the container's logger. A nil logger discards.
func (c *Container) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	c.logger.Store(l)
}

// ── Diagnostics ───────────────────────────────────────────────────────────────

// Resolution describes one completed factory resolution.
type Resolution struct {
	ID    ID
	Name  string
	Scope string
	// Built is true when the construction function ran.
	Built bool
	// Overridden is true when a registered override was used.
	Overridden bool
}

// AfterResolving registers a callback fired after every resolution through
// this container.
//
//	c.AfterResolving(func(r container.Resolution) {
//	    if r.Built { metrics.Inc(r.Name) }
//	})
func (c *Container) AfterResolving(cb func(Resolution)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

// Descriptor is a snapshot of one declared factory.
type Descriptor struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	Overridden  bool   `json:"overridden"`
	Cached      bool   `json:"cached"`
	Resolutions uint64 `json:"resolutions"`
}

// Factories returns a snapshot of every declared factory in ID order.
func (c *Container) Factories() []Descriptor {
	c.mu.RLock()
	ds := make([]*descriptor, 0, len(c.factories))
	for _, d := range c.factories {
		ds = append(ds, d)
	}
	c.mu.RUnlock()

	slices.SortFunc(ds, func(a, b *descriptor) int { return cmp.Compare(a.id, b.id) })
	out := make([]Descriptor, len(ds))
	for i, d := range ds {
		out[i] = c.describe(d)
	}
	return out
}

// Describe returns the snapshot for one factory.
func (c *Container) Describe(id ID) (Descriptor, bool) {
	d, ok := c.lookup(id)
	if !ok {
		return Descriptor{}, false
	}
	return c.describe(d), true
}

func (c *Container) describe(d *descriptor) Descriptor {
	return Descriptor{
		ID:          d.id,
		Name:        d.name,
		Scope:       d.scope.Name(),
		Overridden:  c.overridden(d),
		Cached:      d.scope.Contains(d.id),
		Resolutions: d.resolutions.Load(),
	}
}

// ── Internals ─────────────────────────────────────────────────────────────────

// descriptor is the container's record of a factory declaration.
type descriptor struct {
	id          ID
	name        string
	scope       Scope
	accepts     func(any) bool
	resolutions atomic.Uint64
}

func (c *Container) declare(name string, scope Scope, accepts func(any) bool) *descriptor {
	d := &descriptor{id: ID(c.seq.Add(1)), name: name, scope: scope, accepts: accepts}
	c.mu.Lock()
	c.factories[d.id] = d
	c.mu.Unlock()
	c.Logger().Debug("factory declared", "id", d.id, "name", name, "scope", scope.Name())
	return d
}

// overridden reports whether d has an override that resolution would use.
func (c *Container) overridden(d *descriptor) bool {
	o, ok := c.registrations.Lookup(d.id)
	return ok && d.accepts(o)
}

func (c *Container) lookup(id ID) (*descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.factories[id]
	return d, ok
}

func (c *Container) resolved(d *descriptor, r resolution, overridden bool) {
	d.resolutions.Add(1)
	c.Logger().Debug("factory resolved",
		"id", d.id,
		"name", d.name,
		"scope", d.scope.Name(),
		"built", r.built,
		"overridden", overridden,
	)

	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	if len(cbs) == 0 {
		return
	}
	ev := Resolution{
		ID:         d.id,
		Name:       d.name,
		Scope:      d.scope.Name(),
		Built:      r.built,
		Overridden: overridden,
	}
	for _, cb := range cbs {
		cb(ev)
	}
}
