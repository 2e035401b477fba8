package container

import "sync/atomic"

var defaultContainer atomic.Pointer[Container]

// Default returns the process-wide container, creating it on first use.
// Factories declared with a nil container attach to it.
func Default() *Container {
	if c := defaultContainer.Load(); c != nil {
		return c
	}
	defaultContainer.CompareAndSwap(nil, New())
	return defaultContainer.Load()
}

// SetDefault replaces the process-wide container. Factories already declared
// keep the container they were declared on.
func SetDefault(c *Container) {
	defaultContainer.Store(c)
}

// Reset resets the process-wide container: every override is removed and
// every scope cache emptied. Call it between test cases.
func Reset() {
	Default().Reset()
}
