package container

import "sync"

// ── Injected ──────────────────────────────────────────────────────────────────

// Injected holds a value resolved from its factory at the moment it is
// created. Embed it in a consumer and create it in the consumer's
// constructor:
//
//	type Checkout struct {
//	    Payments *container.Injected[PaymentGateway]
//	}
//
//	func NewCheckout() *Checkout {
//	    return &Checkout{Payments: container.Inject(payments)}
//	}
type Injected[T any] struct {
	mu      sync.RWMutex
	factory *Factory[T]
	value   T
}

// Inject resolves f immediately and holds the result.
func Inject[T any](f *Factory[T]) *Injected[T] {
	return &Injected[T]{factory: f, value: f.Get()}
}

// Value returns the held value.
func (i *Injected[T]) Value() T {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.value
}

// Set replaces the held value without consulting the factory.
func (i *Injected[T]) Set(v T) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.value = v
}

// Resolve asks the factory again and holds the new result. Whether that is
// a new instance depends on the factory's scope.
func (i *Injected[T]) Resolve() {
	v := i.factory.Get()
	i.Set(v)
}

// ── LazyInjected ──────────────────────────────────────────────────────────────

// LazyInjected resolves its factory on first access and holds the result
// from then on.
//
//	type Report struct {
//	    Store *container.LazyInjected[*Store]
//	}
//
//	r := &Report{Store: container.InjectLazy(store)}
//	r.Store.Value().Query(...) // resolved here, once
type LazyInjected[T any] struct {
	mu       sync.Mutex
	factory  *Factory[T]
	value    T
	resolved bool
}

// InjectLazy creates a point that resolves f on first access.
func InjectLazy[T any](f *Factory[T]) *LazyInjected[T] {
	return &LazyInjected[T]{factory: f}
}

// Value returns the held value, resolving the factory the first time.
func (i *LazyInjected[T]) Value() T {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.resolved {
		i.value = i.factory.Get()
		i.resolved = true
	}
	return i.value
}

// Set replaces the held value without consulting the factory.
func (i *LazyInjected[T]) Set(v T) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.value = v
	i.resolved = true
}

// Resolve asks the factory again and holds the new result.
func (i *LazyInjected[T]) Resolve() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.value = i.factory.Get()
	i.resolved = true
}

// Resolved reports whether the point currently holds a value.
func (i *LazyInjected[T]) Resolved() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.resolved
}

// ── WeakLazyInjected ──────────────────────────────────────────────────────────

// WeakLazyInjected refers to a value it does not own. It is how a child
// points back at its parent without creating a cycle of strong references:
//
//	type Child struct {
//	    Parent *container.WeakLazyInjected[*Parent]
//	}
//
// Value returns the referent while some other owner keeps it alive. When the
// handle is empty or its referent has been collected, the factory is asked
// again; its answer is kept only if something other than this point is known
// to own it:
//
//   - a Cached scope owns everything it caches;
//   - a WeakCached cache hit means some other owner kept the instance alive.
//
// A WeakCached miss is not built at all: nothing would own the instance.
// An instance a Unique factory builds for this call has no owner either, so
// the point reports it as absent and drops it.
//
// T must be a pointer type, or an interface holding pointers, for the weak
// handle to track anything; see MakeWeak.
type WeakLazyInjected[T any] struct {
	mu      sync.Mutex
	factory *Factory[T]
	ref     Weak[T]
}

// InjectWeak creates a weak point bound to f. Nothing is resolved until the
// first access.
func InjectWeak[T any](f *Factory[T]) *WeakLazyInjected[T] {
	return &WeakLazyInjected[T]{factory: f}
}

// Value returns the live referent, fetching it through the factory when the
// handle is empty or stale. The boolean is false when there is nothing alive
// to return.
func (i *WeakLazyInjected[T]) Value() (T, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if v, ok := i.ref.Value(); ok {
		return v, true
	}
	return i.fetch()
}

// Set points the handle at v without extending v's lifetime. Setting a nil
// value clears the handle.
func (i *WeakLazyInjected[T]) Set(v T) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ref = MakeWeak(v)
}

// Resolve re-runs the fetch through the factory, replacing the handle. It
// cooperates with the factory's scope: a still-live shared instance is
// fetched again rather than rebuilt.
func (i *WeakLazyInjected[T]) Resolve() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.fetch()
}

func (i *WeakLazyInjected[T]) fetch() (T, bool) {
	var zero T
	r := i.factory.resolve(false)
	if !r.retained || isNil(r.value) {
		i.ref = Weak[T]{}
		return zero, false
	}
	v := as[T](r.value)
	i.ref = MakeWeak(v)
	return v, true
}
