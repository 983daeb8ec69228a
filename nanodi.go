package nanodi

import (
	"fmt"
	"reflect"
)

// Identifier names a dependency.
// Any non-nil comparable value can be used, most of the time it is a string.
type Identifier = any

type Scope int

const (
	// For `Singleton` binding same instance is returned always.
	Singleton Scope = iota
	// For `Transient` binding new instance is returned on every Resolve.
	Transient
)

func (s Scope) String() string {
	switch s {
	case Singleton:
		return "Singleton"
	case Transient:
		return "Transient"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Returns unique Identifier.
// Two symbols with the same description are different identifiers.
func Symbol(description string) Identifier {
	return &symbol{description: description}
}

type symbol struct {
	description string
}

func (s *symbol) String() string {
	return "Symbol(" + s.description + ")"
}

// Container registers bindings and resolves them.
// This interface is sealed.
type Container interface {
	sealed()

	// Registers constructible type under id.
	// scope is optional and defaults to `Singleton`.
	// Replaces any existing binding for id.
	Bind(id Identifier, class Constructible, scope ...Scope) Container
	// Registers value under id as already resolved `Singleton`.
	BindConstant(id Identifier, value any) Container
	// Registers zero-argument factory under id.
	// scope is optional and defaults to `Singleton`.
	BindFactory(id Identifier, fn func() (any, error), scope ...Scope) Container

	// Returns instance registered under id,
	// resolving its dependencies first.
	Resolve(id Identifier) (any, error)
	// Checks that every dependency is bound and there are no cycles.
	// Nothing gets constructed.
	Validate() error
	// Returns first registration error.
	Err() error
	// Returns snapshot of registered bindings sorted by identifier.
	Bindings() []BindingInfo
	// Returns container ID used in log records.
	ID() string
}

// Returns instance registered under id as T.
func Resolve[T any](c Container, id Identifier) (T, error) {
	var zero T

	service, err := c.Resolve(id)
	if err != nil {
		return zero, err
	}

	if service == nil {
		t := reflect.TypeOf((*T)(nil)).Elem()
		if !assignable(t, nil) {
			return zero, newTypeMismatchError(id, t, nil)
		}

		return zero, nil
	}

	s, ok := service.(T)
	if !ok {
		return zero, newTypeMismatchError(id, reflect.TypeOf((*T)(nil)).Elem(), service)
	}

	return s, nil
}

// Same as Resolve but panics on error.
func MustResolve[T any](c Container, id Identifier) T {
	s, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}

	return s
}
