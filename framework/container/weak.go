package container

import (
	"reflect"
	"unsafe"
	"weak"
)

// Weak is a non-owning handle to the object behind a pointer-shaped value.
//
// T may be a pointer type or an interface type whose dynamic value is a
// pointer. Holding a Weak never keeps the object alive; once every strong
// reference is gone and the collector has run, Value reports false.
//
// The zero Weak is empty.
type Weak[T any] struct {
	ptr weak.Pointer[byte]
	typ reflect.Type
}

// MakeWeak returns a weak handle to v. Values that are not non-nil pointers
// to heap objects (ints, structs, nil, pointers to zero-sized types) cannot
// be held weakly and produce an empty handle.
func MakeWeak[T any](v T) Weak[T] {
	rv := reflect.ValueOf(any(v))
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return Weak[T]{}
	}
	if rv.Type().Elem().Size() == 0 {
		return Weak[T]{}
	}
	return Weak[T]{
		ptr: weak.Make((*byte)(rv.UnsafePointer())),
		typ: rv.Type(),
	}
}

// Value returns the referent if it is still alive.
func (w Weak[T]) Value() (T, bool) {
	var zero T
	if w.typ == nil {
		return zero, false
	}
	p := w.ptr.Value()
	if p == nil {
		return zero, false
	}
	v, ok := reflect.NewAt(w.typ.Elem(), unsafe.Pointer(p)).Interface().(T)
	return v, ok
}

// IsZero reports whether the handle was never pointed at anything.
// A handle whose referent has been collected is not zero, just dead.
func (w Weak[T]) IsZero() bool { return w.typ == nil }

// Live reports whether the referent is still alive.
func (w Weak[T]) Live() bool {
	_, ok := w.Value()
	return ok
}

// isNil reports whether v is nil or a typed nil pointer, map, slice, chan,
// func or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// as converts a cached value back to T. A nil any becomes T's zero value.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
