// Package container provides a small dependency-resolution container:
// typed factories, lifetime scopes, runtime overrides and injection points.
//
// # Overview
//
// A Factory binds a construction function to a Scope. Resolving it either
// builds a new instance or hands back a cached one, depending on the scope.
// Any factory's function can be replaced at runtime (Register) and restored
// (Reset), which is how tests swap real services for fakes.
//
// Go has no constructor reflection or property wrappers, so factories are
// declared explicitly and injection points are plain generic fields.
//
// # Declaring factories
//
//	c := container.New()
//
//	// Unique: a new instance on every Get (nil scope means Unique)
//	repo := container.NewFactory(c, "repo", nil, func() *Repo { return &Repo{} })
//
//	// Cached: built once, kept alive until reset
//	cfg := container.NewFactory(c, "config", c.Cached(), loadConfig)
//
//	// WeakCached: shared only while someone else holds it
//	session := container.NewFactory(c, "session", c.WeakCached(), newSession)
//
//	// Parameterized: the parameter is passed to the function
//	user := container.NewParameterFactory(c, "user", nil, func(id int) *User { ... })
//	u := user.Call(7)
//
// A nil container means Default(), the process-wide container.
//
// # Cached factories ignore later parameters
//
// A parameterized factory in a caching scope builds from the parameter of
// its FIRST call and returns that instance for every later call, no matter
// what parameter is passed. The parameter is not part of the cache key.
// Reset the factory, or use the Unique scope, when the parameter matters.
//
// # Overrides
//
//	repo.Register(func() *Repo { return &Repo{Fake: true} })
//	repo.Get()   // fake
//	repo.Reset() // back to the declared function
//
//	c.Reset()           // every override and every cache in c
//	container.Reset()   // the same for Default()
//
// # Injection points
//
//	type Service struct {
//	    Repo   *container.Injected[*Repo]          // resolved on creation
//	    Config *container.LazyInjected[*Config]    // resolved on first Value
//	    Parent *container.WeakLazyInjected[*Owner] // never owns its value
//	}
//
// Every point supports Value, Set (bypasses the factory) and Resolve (asks
// the factory again).
//
// # Weak references
//
// WeakCached caches and WeakLazyInjected points hold Weak handles, built on
// the standard weak package. They observe absence once the collector has
// reclaimed the referent; nothing is notified in the background, liveness is
// checked on access.
//
// # Concurrency
//
// All types are safe for concurrent use. A caching scope builds at most one
// instance per factory at a time: concurrent first resolutions wait for the
// same build. A build that overlaps Register or Reset returns its instance
// to the callers waiting on it but does not cache it, so the next resolution
// uses the new function. A construction function must not resolve its own
// factory.
package container
