package container

import "sync"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups a set of overrides that are installed together,
// e.g. the fakes a test suite swaps in, or the production wiring an
// application applies at startup.
//
// Register is called once, as soon as the provider is added. Boot is called
// after ALL providers have registered, so it is safe to resolve factories
// there.
//
//	type FakesProvider struct{ container.BaseProvider }
//
//	func (p *FakesProvider) Register(c *container.Container) {
//	    mailer.Register(func() Mailer { return &FakeMailer{} })
//	}
//
//	func (p *FakesProvider) Boot(c *container.Container) {
//	    mailer.Get().Connect()
//	}
type ServiceProvider interface {
	// Register installs overrides. Do NOT resolve factories here; another
	// provider may still be about to override them.
	Register(c *Container)

	// Boot is called after all providers are registered.
	Boot(c *Container)
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with a no-op Boot.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) {}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders against one
// container.
type ProviderRegistry struct {
	mu         sync.Mutex
	c          *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		c:          c,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method. Adding the same
// provider twice is a no-op. Providers added after Boot are booted
// immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.c)
	if booted {
		provider.Boot(r.c)
	}
}

// Boot calls Boot on every registered provider, in registration order.
// Later calls are ignored.
func (r *ProviderRegistry) Boot() {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.providers...)
	r.mu.Unlock()

	for _, p := range providers {
		p.Boot(r.c)
	}
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.providers...)
}
