package nanodi

import (
	"fmt"
	"reflect"
)

const injectTag = "inject"

var errorInterface = reflect.TypeOf((*error)(nil)).Elem()

type strategyKind int

const (
	classStrategy strategyKind = iota
	factoryStrategy
)

func (k strategyKind) String() string {
	if k == factoryStrategy {
		return "factory"
	}

	return "class"
}

// Constructible is a construction strategy:
// either a constructor with ordered dependency identifiers
// or a zero-argument factory.
// Use Class, Func, Struct, Pointer or Factory to get one.
type Constructible struct {
	err          error
	construct    func(values ...any) (any, error)
	factory      func() (any, error)
	typeName     string
	dependencies []Identifier
	params       []reflect.Type
	kind         strategyKind
}

// Returns declared dependencies in parameter order.
func (c Constructible) Dependencies() []Identifier {
	return append([]Identifier(nil), c.dependencies...)
}

// Returns error found while describing the constructor.
// Bind returns the same error.
func (c Constructible) Err() error {
	return c.err
}

func (c Constructible) String() string {
	return c.typeName
}

// Returns constructor that gets resolved dependencies positionally,
// in the order of deps.
func Class(construct func(deps ...any) (any, error), deps ...Identifier) Constructible {
	const typeName = "func(...any) (any, error)"

	if construct == nil {
		return Constructible{typeName: typeName, err: newBadConstructorError(ErrNilConstructor, typeName)}
	}

	if err := checkDeclared(typeName, deps); err != nil {
		return Constructible{typeName: typeName, err: err}
	}

	return Constructible{
		kind:         classStrategy,
		typeName:     typeName,
		dependencies: append([]Identifier(nil), deps...),
		construct:    construct,
	}
}

// Returns constructor based on fn.
// fn should be of type `func(T1, T2, ...) R` or `func(T1, T2, ...) (R, error)`,
// deps[i] is the identifier resolved for parameter i.
func Func(fn any, deps ...Identifier) Constructible {
	if fn == nil {
		return Constructible{typeName: "<nil>", err: newBadConstructorError(ErrNilConstructor, "<nil>")}
	}

	t := reflect.TypeOf(fn)
	typeName := t.String()
	fail := func(err error) Constructible {
		return Constructible{typeName: typeName, err: err}
	}

	if t.Kind() != reflect.Func {
		return fail(newBadConstructorError(ErrNotAFunction, typeName))
	}

	if reflect.ValueOf(fn).IsNil() {
		return fail(newBadConstructorError(ErrNilConstructor, typeName))
	}

	if t.IsVariadic() {
		return fail(newBadConstructorError(ErrVariadicConstructor, typeName))
	}

	switch t.NumOut() {
	case 1:
		if t.Out(0) == errorInterface {
			return fail(newBadConstructorError(ErrBadReturnSignature, typeName))
		}
	case 2:
		if !t.Out(1).Implements(errorInterface) {
			return fail(newBadConstructorError(ErrBadReturnSignature, typeName))
		}
	default:
		return fail(newBadConstructorError(ErrBadReturnSignature, typeName))
	}

	if len(deps) > t.NumIn() {
		return fail(newBadConstructorError(ErrTooManyDependencies, typeName))
	}

	if len(deps) < t.NumIn() {
		return fail(newUndeclaredDependencyError(typeName, len(deps)))
	}

	if err := checkDeclared(typeName, deps); err != nil {
		return fail(err)
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	dependencies := append([]Identifier(nil), deps...)

	return Constructible{
		kind:         classStrategy,
		typeName:     typeName,
		dependencies: dependencies,
		params:       params,
		construct:    getFuncInstance(reflect.ValueOf(fn), params),
	}
}

// Returns constructor of T value.
// Exported fields tagged `inject:"<identifier>"` are dependencies in field order.
func Struct[T any]() Constructible {
	return structConstructible[T](false)
}

// Returns constructor of *T.
// Exported fields tagged `inject:"<identifier>"` are dependencies in field order.
func Pointer[T any]() Constructible {
	return structConstructible[T](true)
}

// Returns zero-argument construction strategy.
func Factory(fn func() (any, error)) Constructible {
	const typeName = "func() (any, error)"

	if fn == nil {
		return Constructible{kind: factoryStrategy, typeName: typeName, err: ErrNilFactory}
	}

	return Constructible{kind: factoryStrategy, typeName: typeName, factory: fn}
}

func constant(value any) Constructible {
	return Constructible{
		kind:     factoryStrategy,
		typeName: fmt.Sprintf("%T", value),
		factory:  func() (any, error) { return value, nil },
	}
}

func structConstructible[T any](pointer bool) Constructible {
	t := reflect.TypeOf((*T)(nil)).Elem()
	typeName := t.String()
	if pointer {
		typeName = reflect.PointerTo(t).String()
	}

	if t.Kind() != reflect.Struct {
		return Constructible{typeName: typeName, err: &StructError{T: t}}
	}

	fields := make([]int, 0, t.NumField())
	params := make([]reflect.Type, 0, t.NumField())
	dependencies := make([]Identifier, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		id, ok := field.Tag.Lookup(injectTag)
		if !ok {
			continue
		}

		if id == "" {
			return Constructible{
				typeName: typeName,
				err:      newUndeclaredDependencyError(typeName, len(dependencies)),
			}
		}

		fields = append(fields, i)
		params = append(params, field.Type)
		dependencies = append(dependencies, id)
	}

	return Constructible{
		kind:         classStrategy,
		typeName:     typeName,
		dependencies: dependencies,
		params:       params,
		construct:    getStructInstance[T](pointer, fields, params),
	}
}

func checkDeclared(typeName string, deps []Identifier) error {
	for i, dep := range deps {
		if dep == nil {
			return newUndeclaredDependencyError(typeName, i)
		}

		if !validIdentifier(dep) {
			return newInvalidIdentifierError(dep)
		}
	}

	return nil
}

// Checks that resolved values can be passed as constructor arguments.
func (c Constructible) checkArguments(values []any) error {
	for i, param := range c.params {
		if !assignable(param, values[i]) {
			return newTypeMismatchError(c.dependencies[i], param, values[i])
		}
	}

	return nil
}

func assignable(param reflect.Type, value any) bool {
	if value == nil {
		switch param.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		default:
			return false
		}
	}

	return reflect.TypeOf(value).AssignableTo(param)
}

// Typed nil pointer returned as error means no error.
func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func argument(param reflect.Type, value any) reflect.Value {
	if value == nil {
		return reflect.Zero(param)
	}

	return reflect.ValueOf(value)
}

func getFuncInstance(fn reflect.Value, params []reflect.Type) func(...any) (any, error) {
	return func(values ...any) (any, error) {
		args := make([]reflect.Value, len(values))
		for i, value := range values {
			args[i] = argument(params[i], value)
		}

		out := fn.Call(args)
		if len(out) == 2 && !isNilValue(out[1]) {
			if err, ok := out[1].Interface().(error); ok && err != nil {
				return nil, err
			}
		}

		return out[0].Interface(), nil
	}
}

func getStructInstance[T any](pointer bool, fields []int, params []reflect.Type) func(...any) (any, error) {
	return func(values ...any) (any, error) {
		p := reflect.ValueOf(new(T)).Elem()

		for i, value := range values {
			p.Field(fields[i]).Set(argument(params[i], value))
		}

		if pointer {
			return p.Addr().Interface(), nil
		}

		return p.Interface(), nil
	}
}
