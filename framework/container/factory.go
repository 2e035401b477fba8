package container

import "fmt"

// ── ParameterFactory ──────────────────────────────────────────────────────────

// ParameterFactory binds an identity, a construction function taking a P,
// and a Scope.
//
//	var user = container.NewParameterFactory(nil, "user", nil,
//	    func(id int) *User { return loadUser(id) })
//
//	u := user.Call(42)
//
// The parameter is NOT part of the cache key. A factory in a caching scope
// builds from the parameter of the first call and returns that same
// instance for every later call, whatever parameter is passed, until the
// factory or its scope is reset:
//
//	f := container.NewParameterFactory(c, "n", c.Cached(), newN)
//	f.Call(1) // builds newN(1)
//	f.Call(2) // returns the instance built from 1
//
// Use the Unique scope when each call must honor its parameter.
type ParameterFactory[P, T any] struct {
	c     *Container
	d     *descriptor
	fn    func(P) T
	scope Scope
}

// NewParameterFactory declares a factory on c (nil means Default()).
// A nil scope means c.Unique(). The name is only used for diagnostics.
func NewParameterFactory[P, T any](c *Container, name string, scope Scope, fn func(P) T) *ParameterFactory[P, T] {
	if fn == nil {
		panic(fmt.Sprintf("container: nil construction function for [%s]", name))
	}
	if c == nil {
		c = Default()
	}
	if scope == nil {
		scope = c.Unique()
	}
	return &ParameterFactory[P, T]{
		c:     c,
		d:     c.declare(name, scope, acceptsOverride[func(P) T]),
		fn:    fn,
		scope: scope,
	}
}

// Call resolves an instance for p.
//
// The override table is consulted first, then the scope; fn (or its
// override) runs only when the scope decides to build.
func (f *ParameterFactory[P, T]) Call(p P) T {
	return as[T](f.resolve(p, true).value)
}

// resolve looks the override up before consulting the scope. The build
// looks it up again: the scope takes its reset generation before calling
// build, so a build that still sees the old function is never cached.
func (f *ParameterFactory[P, T]) resolve(p P, owned bool) resolution {
	_, overridden := resolveFunction(f.c.registrations, f.d.id, f.fn)
	r := f.scope.resolve(f.d.id, owned, func() any {
		fn, _ := resolveFunction(f.c.registrations, f.d.id, f.fn)
		return fn(p)
	})
	f.c.resolved(f.d, r, overridden)
	return r
}

// Register replaces the construction function until Reset. The cached
// instance, if any, is dropped so the next resolution uses fn. A build
// already running with the old function still returns its instance to its
// callers but does not cache it.
func (f *ParameterFactory[P, T]) Register(fn func(P) T) {
	if fn == nil {
		panic(fmt.Sprintf("container: nil construction function for [%s]", f.d.name))
	}
	f.c.registrations.Register(f.d.id, fn)
	f.scope.ResetID(f.d.id)
	f.c.Logger().Debug("factory registered", "id", f.d.id, "name", f.d.name)
}

// Reset removes the override and drops the cached instance.
func (f *ParameterFactory[P, T]) Reset() {
	f.c.reset(f.d)
}

// ID returns the factory's identity.
func (f *ParameterFactory[P, T]) ID() ID { return f.d.id }

// Name returns the diagnostic name given at declaration.
func (f *ParameterFactory[P, T]) Name() string { return f.d.name }

// Scope returns the factory's scope.
func (f *ParameterFactory[P, T]) Scope() Scope { return f.scope }

// Container returns the container the factory was declared on.
func (f *ParameterFactory[P, T]) Container() *Container { return f.c }

// ── Factory ───────────────────────────────────────────────────────────────────

// Factory is a ParameterFactory that takes no parameter. It is what
// injection points bind to.
//
//	var db = container.NewFactory(nil, "db", container.Default().Cached(),
//	    func() *sql.DB { return mustOpen(cfg.DSN) })
//
//	conn := db.Get()
type Factory[T any] struct {
	p *ParameterFactory[struct{}, T]
}

// NewFactory declares a parameterless factory on c (nil means Default()).
// A nil scope means c.Unique().
func NewFactory[T any](c *Container, name string, scope Scope, fn func() T) *Factory[T] {
	if fn == nil {
		panic(fmt.Sprintf("container: nil construction function for [%s]", name))
	}
	return &Factory[T]{p: NewParameterFactory(c, name, scope, func(struct{}) T { return fn() })}
}

// Get resolves an instance.
func (f *Factory[T]) Get() T { return f.p.Call(struct{}{}) }

func (f *Factory[T]) resolve(owned bool) resolution { return f.p.resolve(struct{}{}, owned) }

// Register replaces the construction function until Reset.
func (f *Factory[T]) Register(fn func() T) {
	if fn == nil {
		panic(fmt.Sprintf("container: nil construction function for [%s]", f.p.d.name))
	}
	f.p.Register(func(struct{}) T { return fn() })
}

// Reset removes the override and drops the cached instance.
func (f *Factory[T]) Reset() { f.p.Reset() }

// ID returns the factory's identity.
func (f *Factory[T]) ID() ID { return f.p.ID() }

// Name returns the diagnostic name given at declaration.
func (f *Factory[T]) Name() string { return f.p.Name() }

// Scope returns the factory's scope.
func (f *Factory[T]) Scope() Scope { return f.p.Scope() }

// Container returns the container the factory was declared on.
func (f *Factory[T]) Container() *Container { return f.p.Container() }
