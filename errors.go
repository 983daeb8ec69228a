package nanodi

import (
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrVariadicConstructor = fmt.Errorf("variadic constructor is not supported")
	ErrNotAFunction        = fmt.Errorf("constructor is not a function")
	ErrNilConstructor      = fmt.Errorf("got nil constructor")
	ErrNilFactory          = fmt.Errorf("got nil factory")
	ErrTooManyDependencies = fmt.Errorf("more dependencies declared than constructor accepts")
	ErrBadReturnSignature  = fmt.Errorf("constructor should return T or (T, error)")
	ErrTooManyScopes       = fmt.Errorf("only one scope can be passed")
)

func identifierString(id Identifier) string {
	return fmt.Sprint(id)
}

func pathString(path []Identifier) string {
	names := make([]string, len(path))
	for i, id := range path {
		names[i] = identifierString(id)
	}

	return strings.Join(names, " -> ")
}

type ScopeUnsupportedError string

func (scope ScopeUnsupportedError) Error() string {
	return fmt.Sprintf("%s is unsupported", string(scope))
}

func newInvalidIdentifierError(id Identifier) error {
	return &InvalidIdentifierError{Identifier: id}
}

// Returned for nil or not comparable identifiers.
type InvalidIdentifierError struct {
	Identifier Identifier
}

func (err *InvalidIdentifierError) Error() string {
	if err.Identifier == nil {
		return "identifier cannot be nil"
	}

	return fmt.Sprintf("identifier of type %T is not comparable", err.Identifier)
}

func newBindingError(cause error, id Identifier) error {
	return &BindingError{cause: cause, Identifier: id}
}

type BindingError struct {
	cause      error
	Identifier Identifier
}

func (err *BindingError) Error() string {
	return fmt.Sprintf("cannot bind %s: %s", identifierString(err.Identifier), err.cause)
}

func (err *BindingError) Unwrap() error {
	return err.cause
}

func newBadConstructorError(cause error, constructorType string) error {
	return &BadConstructorError{
		cause:           cause,
		ConstructorType: constructorType,
	}
}

type BadConstructorError struct {
	cause           error
	ConstructorType string
}

func (err *BadConstructorError) Error() string {
	return fmt.Sprintf("bad constructor %s: %s", err.ConstructorType, err.cause)
}

func (err *BadConstructorError) Unwrap() error {
	return err.cause
}

func newUndeclaredDependencyError(constructorType string, position int) error {
	return &UndeclaredDependencyError{ConstructorType: constructorType, Position: position}
}

// Constructor parameter at Position has no dependency identifier.
type UndeclaredDependencyError struct {
	ConstructorType string
	Position        int
}

func (err *UndeclaredDependencyError) Error() string {
	return fmt.Sprintf(
		"%s has no dependency declared for parameter %d",
		err.ConstructorType,
		err.Position,
	)
}

type StructError struct {
	T reflect.Type
}

func (err *StructError) Error() string {
	return fmt.Sprintf("nanodi.Struct and nanodi.Pointer can only be used with a struct, got %s", err.T)
}

func newUnboundIdentifierError(id Identifier, path []Identifier) error {
	return &UnboundIdentifierError{
		Identifier: id,
		Path:       append([]Identifier(nil), path...),
	}
}

// Identifier has no registered binding.
// Path holds identifiers that were being resolved when it was requested.
type UnboundIdentifierError struct {
	Identifier Identifier
	Path       []Identifier
}

func (err *UnboundIdentifierError) Error() string {
	msg := "no binding found for identifier: " + identifierString(err.Identifier)
	if len(err.Path) > 0 {
		msg += " (required by " + pathString(err.Path) + ")"
	}

	return msg
}

func newCyclicDependencyError(path []Identifier, id Identifier) error {
	p := make([]Identifier, 0, len(path)+1)
	p = append(p, path...)
	p = append(p, id)

	return &CyclicDependencyError{Path: p}
}

// Last identifier in Path closes the cycle.
type CyclicDependencyError struct {
	Path []Identifier
}

func (err *CyclicDependencyError) Error() string {
	return "cyclic dependency: " + pathString(err.Path)
}

func newResolutionError(cause error, scope Scope, id Identifier) error {
	return &ResolutionError{
		cause:      cause,
		Scope:      scope,
		Identifier: id,
	}
}

type ResolutionError struct {
	cause      error
	Identifier Identifier
	Scope      Scope
}

func (err *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %s %s: %s", err.Scope, identifierString(err.Identifier), err.cause)
}

func (err *ResolutionError) Unwrap() error {
	return err.cause
}

func newConstructorError(cause error) error {
	return &ConstructorError{
		cause: cause,
	}
}

type ConstructorError struct {
	cause error
}

func (err *ConstructorError) Error() string {
	return fmt.Sprintf("constructor returned an error: %s", err.cause)
}

func (err *ConstructorError) Unwrap() error {
	return err.cause
}

func newTypeMismatchError(id Identifier, expected reflect.Type, got any) error {
	return &TypeMismatchError{
		Identifier: id,
		Expected:   expected.String(),
		Got:        fmt.Sprintf("%T", got),
	}
}

type TypeMismatchError struct {
	Identifier Identifier
	Expected   string
	Got        string
}

func (err *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"%s resolved to %s, expected %s",
		identifierString(err.Identifier),
		err.Got,
		err.Expected,
	)
}
