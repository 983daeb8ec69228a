package nanodi

import (
	"cmp"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

var _ Container = new(container)

type ContainerConfiguration struct {
	Logger *slog.Logger
	Name   string
	ID     string
}

type ContainerOption func(*ContainerConfiguration)

var (
	WithName = func(name string) ContainerOption {
		return func(opt *ContainerConfiguration) { opt.Name = name }
	}

	WithID = func(id string) ContainerOption {
		return func(opt *ContainerConfiguration) { opt.ID = id }
	}

	WithLogger = func(l *slog.Logger) ContainerOption {
		return func(opt *ContainerConfiguration) { opt.Logger = l }
	}
)

// Returns new empty Container.
func New(opts ...ContainerOption) Container {
	conf := ContainerConfiguration{
		Name: "nanodi",
		ID:   uuid.NewString(),
	}

	for _, opt := range opts {
		opt(&conf)
	}

	return newContainer(conf)
}

// Creates new Container, binds constructible type and returns newly-created container.
func Bind(id Identifier, class Constructible, scope ...Scope) Container {
	return New().Bind(id, class, scope...)
}

// Describes binding registered in a Container.
type BindingInfo struct {
	Identifier   string   `json:"identifier"`
	Scope        string   `json:"scope"`
	Kind         string   `json:"kind"`
	Type         string   `json:"type"`
	Dependencies []string `json:"dependencies"`
	Cached       bool     `json:"cached"`
}

type binding struct {
	instance any
	strategy Constructible
	mu       sync.Mutex
	cached   atomic.Bool
	scope    Scope
}

type stickyError struct {
	err error
}

func newContainer(conf ContainerConfiguration) *container {
	log := conf.Logger
	if log == nil {
		log = logger()
	}

	return &container{
		id:       conf.ID,
		name:     conf.Name,
		log:      log.With("container", conf.Name, "container_id", conf.ID),
		bindings: make(map[Identifier]*binding),
	}
}

type container struct {
	log         *slog.Logger
	bindings    map[Identifier]*binding
	err         atomic.Value
	id          string
	name        string
	bindingsRWM sync.RWMutex
}

func (c *container) sealed() {}

func (c *container) ID() string {
	return c.id
}

func (c *container) Err() error {
	if errVal := c.err.Load(); errVal != nil {
		return errVal.(stickyError).err
	}

	return nil
}

func (c *container) Bind(id Identifier, class Constructible, scope ...Scope) Container {
	if c.Err() != nil {
		return c
	}

	s, err := bindingScope(scope)
	if err != nil {
		c.fail(newBindingError(err, id))
		return c
	}

	if class.err != nil {
		c.fail(newBindingError(class.err, id))
		return c
	}

	if class.construct == nil && class.factory == nil {
		c.fail(newBindingError(newBadConstructorError(ErrNilConstructor, class.typeName), id))
		return c
	}

	c.store(id, &binding{strategy: class, scope: s})

	return c
}

func (c *container) BindConstant(id Identifier, value any) Container {
	if c.Err() != nil {
		return c
	}

	b := &binding{strategy: constant(value), scope: Singleton, instance: value}
	b.cached.Store(true)

	c.store(id, b)

	return c
}

func (c *container) BindFactory(id Identifier, fn func() (any, error), scope ...Scope) Container {
	return c.Bind(id, Factory(fn), scope...)
}

func (c *container) Bindings() []BindingInfo {
	c.bindingsRWM.RLock()
	defer c.bindingsRWM.RUnlock()

	result := make([]BindingInfo, 0, len(c.bindings))
	for id, b := range c.bindings {
		deps := make([]string, len(b.strategy.dependencies))
		for i, dep := range b.strategy.dependencies {
			deps[i] = identifierString(dep)
		}

		result = append(result, BindingInfo{
			Identifier:   identifierString(id),
			Scope:        b.scope.String(),
			Kind:         b.strategy.kind.String(),
			Type:         b.strategy.typeName,
			Dependencies: deps,
			Cached:       b.cached.Load(),
		})
	}

	slices.SortFunc(result, func(a, b BindingInfo) int {
		return cmp.Compare(a.Identifier, b.Identifier)
	})

	return result
}

func (c *container) store(id Identifier, b *binding) {
	if !validIdentifier(id) {
		c.fail(newBindingError(newInvalidIdentifierError(id), id))
		return
	}

	c.bindingsRWM.Lock()
	_, replaced := c.bindings[id]
	c.bindings[id] = b
	c.bindingsRWM.Unlock()

	if replaced {
		c.log.Debug(
			"binding replaced",
			"identifier", identifierString(id),
			"scope", b.scope.String(),
			"type", b.strategy.typeName,
		)
	}
}

func (c *container) lookup(id Identifier) (*binding, bool) {
	c.bindingsRWM.RLock()
	defer c.bindingsRWM.RUnlock()

	b, ok := c.bindings[id]

	return b, ok
}

// Keeps only the first error.
func (c *container) fail(err error) {
	if c.err.CompareAndSwap(nil, stickyError{err: err}) {
		c.log.Error("registration failed", "error", err)
	}
}

func bindingScope(scope []Scope) (Scope, error) {
	switch len(scope) {
	case 0:
		return Singleton, nil
	case 1:
	default:
		return Singleton, ErrTooManyScopes
	}

	if scope[0] != Singleton && scope[0] != Transient {
		return scope[0], ScopeUnsupportedError(scope[0].String())
	}

	return scope[0], nil
}

func validIdentifier(id Identifier) bool {
	return id != nil && reflect.TypeOf(id).Comparable()
}
