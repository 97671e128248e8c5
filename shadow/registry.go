// Package shadow binds real component types to their behavioral test doubles
// ("shadows"), resolved explicitly through a [Registry] rather than by
// rewriting the real types.
//
// A binding maps a type to a factory. Shadows are created lazily, once per
// real instance, and cached until [Registry.Reset].
package shadow

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrNoShadow is returned when no factory is bound for a value's type.
var ErrNoShadow = errors.New("shadow: no shadow bound")

type (
	// Factory constructs the shadow for a real instance.
	Factory func(real any) (any, error)

	// Registry maps real types to shadow factories, and caches the shadow of
	// each instance. Real instances must be comparable, e.g. pointers.
	Registry struct {
		factories map[reflect.Type]Factory
		instances map[any]any
		mu        sync.Mutex
	}
)

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[reflect.Type]Factory),
		instances: make(map[any]any),
	}
}

// Bind registers factory as the shadow constructor for realType, replacing
// any previous binding.
func (x *Registry) Bind(realType reflect.Type, factory Factory) {
	if realType == nil || factory == nil {
		panic(`shadow: invalid binding`)
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.factories[realType] = factory
}

// Bound reports whether realType has a binding.
func (x *Registry) Bound(realType reflect.Type) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	_, ok := x.factories[realType]
	return ok
}

// Of returns the shadow of real, creating it on first use.
func (x *Registry) Of(real any) (any, error) {
	t := reflect.TypeOf(real)
	if t == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrNoShadow)
	}
	if !t.Comparable() {
		return nil, fmt.Errorf("shadow: %s is not comparable", t)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if s, ok := x.instances[real]; ok {
		return s, nil
	}
	factory, ok := x.factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoShadow, t)
	}
	s, err := factory(real)
	if err != nil {
		return nil, fmt.Errorf("shadow: %s: %w", t, err)
	}
	x.instances[real] = s
	return s, nil
}

// Reset drops every cached shadow, keeping the bindings.
func (x *Registry) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	clear(x.instances)
}

// Bind is a typed convenience for [Registry.Bind].
func Bind[R comparable, S any](registry *Registry, factory func(real R) (S, error)) {
	registry.Bind(reflect.TypeFor[R](), func(real any) (any, error) {
		return factory(real.(R))
	})
}

// Of is a typed convenience for [Registry.Of].
func Of[S any](registry *Registry, real any) (S, error) {
	var zero S
	v, err := registry.Of(real)
	if err != nil {
		return zero, err
	}
	s, ok := v.(S)
	if !ok {
		return zero, fmt.Errorf("shadow: shadow of %T is %T, not %s", real, v, reflect.TypeFor[S]())
	}
	return s, nil
}
