package container_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-factory/framework/container"
)

func TestScopeCache_StrongSlots(t *testing.T) {
	c := container.NewScopeCache()
	require.True(t, c.IsEmpty())

	s := NewMyService()
	c.StoreStrong(1, s)
	c.StoreStrong(2, 42)

	v, ok := c.Load(1)
	require.True(t, ok)
	require.Same(t, s, v)

	v, ok = c.Load(2)
	require.True(t, ok)
	require.Equal(t, 42, v)

	require.Equal(t, []container.ID{1, 2}, c.IDs())

	c.Reset(1)
	require.False(t, c.Has(1))
	c.Reset(99) // unknown: no-op
	require.Equal(t, 1, c.Len())

	c.ResetAll()
	require.True(t, c.IsEmpty())
}

func TestScopeCache_WeakSlotExpires(t *testing.T) {
	c := container.NewScopeCache()

	s := NewMyService()
	c.StoreWeak(1, s)

	v, ok := c.Load(1)
	require.True(t, ok)
	require.Same(t, s, v)
	v = nil

	runtime.KeepAlive(s)
	s = nil
	collect()

	_, ok = c.Load(1)
	require.False(t, ok)
	require.True(t, c.IsEmpty())
	require.Equal(t, 1, c.Prune())
	require.Zero(t, c.Prune())
}

func TestScopeCache_WeakSlotRejectsNonPointers(t *testing.T) {
	c := container.NewScopeCache()

	c.StoreWeak(1, 42)
	c.StoreWeak(2, nil)
	c.StoreWeak(3, (*MyService)(nil))

	require.True(t, c.IsEmpty())
}

func TestRegistrations(t *testing.T) {
	r := container.NewRegistrations()
	def := func() string { return "default" }

	require.Equal(t, "default", container.ResolveFunction(r, 1, def)())

	r.Register(1, func() string { return "override" })
	require.True(t, r.Has(1))
	require.Equal(t, "override", container.ResolveFunction(r, 1, def)())

	// an override of a different shape is ignored
	r.Register(2, func(int) string { return "wrong" })
	require.Equal(t, "default", container.ResolveFunction(r, 2, def)())

	r.Reset(1)
	r.Reset(42)
	require.False(t, r.Has(1))
	require.Equal(t, 1, r.Len())

	r.ResetAll()
	require.Zero(t, r.Len())
}

func TestWeak(t *testing.T) {
	var empty container.Weak[*MyService]
	require.True(t, empty.IsZero())
	_, ok := empty.Value()
	require.False(t, ok)

	s := NewMyService()
	w := container.MakeWeak(s)
	require.False(t, w.IsZero())
	require.True(t, w.Live())

	got, ok := w.Value()
	require.True(t, ok)
	require.Same(t, s, got)
	got = nil

	runtime.KeepAlive(s)
	s = nil
	collect()

	require.False(t, w.Live())
	require.False(t, w.IsZero())
}

func TestWeak_Interface(t *testing.T) {
	var s MyServiceType = NewMyService()
	w := container.MakeWeak(s)

	got, ok := w.Value()
	require.True(t, ok)
	require.Equal(t, s.ID(), got.ID())

	require.True(t, container.MakeWeak[MyServiceType](nil).IsZero())
	require.True(t, container.MakeWeak(42).IsZero())
	require.True(t, container.MakeWeak(&struct{}{}).IsZero())
	runtime.KeepAlive(s)
}
