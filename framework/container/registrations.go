package container

import "sync"

// Registrations is the override table: per factory ID, an optional function
// that replaces the factory's default construction function until reset.
//
//	// Swap a real mailer for a fake one in tests
//	mailer.Register(func() Mailer { return &FakeMailer{} })
//	defer mailer.Reset()
type Registrations struct {
	mu        sync.RWMutex
	overrides map[ID]any
}

// NewRegistrations creates an empty override table.
func NewRegistrations() *Registrations {
	return &Registrations{overrides: make(map[ID]any)}
}

// Register installs (or overwrites) the override for id. An override whose
// type does not match the factory's construction function is stored but
// never used; Describe reports such a factory as not overridden.
func (r *Registrations) Register(id ID, fn any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[id] = fn
}

// Lookup returns the override for id, if any.
func (r *Registrations) Lookup(id ID) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.overrides[id]
	return fn, ok
}

// Has reports whether id currently has an override.
func (r *Registrations) Has(id ID) bool {
	_, ok := r.Lookup(id)
	return ok
}

// Reset removes the override for id. Unknown ids are ignored.
func (r *Registrations) Reset(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, id)
}

// ResetAll removes every override.
func (r *Registrations) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = make(map[ID]any)
}

// Len returns the number of installed overrides.
func (r *Registrations) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.overrides)
}

// ResolveFunction returns the override registered for id when it has the
// type F, and def otherwise.
func ResolveFunction[F any](r *Registrations, id ID, def F) F {
	fn, _ := resolveFunction(r, id, def)
	return fn
}

func resolveFunction[F any](r *Registrations, id ID, def F) (F, bool) {
	if o, ok := r.Lookup(id); ok {
		if fn, ok := o.(F); ok {
			return fn, true
		}
	}
	return def, false
}

// acceptsOverride reports whether o can stand in for a construction function
// of type F.
func acceptsOverride[F any](o any) bool {
	_, ok := o.(F)
	return ok
}
