package nanodi

import (
	"cmp"
	"fmt"
	"slices"
)

func (c *container) Resolve(id Identifier) (any, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}

	return c.resolve(id, nil)
}

// path holds identifiers being resolved on the current call stack.
func (c *container) resolve(id Identifier, path []Identifier) (any, error) {
	if id != nil && !validIdentifier(id) {
		return nil, newInvalidIdentifierError(id)
	}

	b, ok := c.lookup(id)
	if !ok {
		return nil, newUnboundIdentifierError(id, path)
	}

	if slices.Contains(path, id) {
		return nil, newCyclicDependencyError(path, id)
	}

	switch b.scope {
	case Singleton:
		return c.getSingleton(id, b, path)
	case Transient:
		return c.build(id, b, path)
	default:
		panic(fmt.Errorf(
			"broken binding %s: %w",
			identifierString(id),
			ScopeUnsupportedError(b.scope.String())),
		)
	}
}

func (c *container) getSingleton(id Identifier, b *binding, path []Identifier) (any, error) {
	if b.cached.Load() {
		return b.instance, nil
	}

	// Singleton locks are only taken along acyclic edges,
	// so concurrent resolution cannot deadlock on a cycle.
	if err := c.findCycle(id, path); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cached.Load() {
		return b.instance, nil
	}

	service, err := c.build(id, b, path)
	if err != nil {
		return nil, err
	}

	b.instance = service
	b.cached.Store(true)

	c.log.Debug(
		"singleton constructed",
		"identifier", identifierString(id),
		"type", b.strategy.typeName,
	)

	return service, nil
}

func (c *container) build(id Identifier, b *binding, path []Identifier) (service any, err error) {
	defer func() {
		if rp := recover(); rp != nil {
			service = nil
			err = newResolutionError(
				newConstructorError(fmt.Errorf("recovered from panic: %v", rp)),
				b.scope,
				id,
			)
		}
	}()

	strategy := b.strategy

	switch strategy.kind {
	case factoryStrategy:
		service, err := strategy.factory()
		if err != nil {
			return nil, newResolutionError(newConstructorError(err), b.scope, id)
		}

		return service, nil
	case classStrategy:
		next := append(slices.Clip(path), id)
		values := make([]any, len(strategy.dependencies))

		for i, dep := range strategy.dependencies {
			value, err := c.resolve(dep, next)
			if err != nil {
				return nil, err
			}

			values[i] = value
		}

		if err := strategy.checkArguments(values); err != nil {
			return nil, newResolutionError(err, b.scope, id)
		}

		service, err := strategy.construct(values...)
		if err != nil {
			return nil, newResolutionError(newConstructorError(err), b.scope, id)
		}

		return service, nil
	default:
		panic(fmt.Errorf("broken binding %s: unknown strategy %d", identifierString(id), strategy.kind))
	}
}

// Walks bindings reachable from id.
// Missing bindings are left for resolution to report,
// cached singletons are skipped since they are never rebuilt.
func (c *container) findCycle(id Identifier, path []Identifier) error {
	done := make(map[Identifier]bool)
	stack := slices.Clone(path)

	var visit func(id Identifier) error
	visit = func(id Identifier) error {
		if slices.Contains(stack, id) {
			return newCyclicDependencyError(stack, id)
		}

		if done[id] {
			return nil
		}

		b, ok := c.lookup(id)
		if !ok || (b.scope == Singleton && b.cached.Load()) {
			done[id] = true
			return nil
		}

		stack = append(stack, id)
		for _, dep := range b.strategy.dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]

		done[id] = true

		return nil
	}

	return visit(id)
}

func (c *container) Validate() error {
	if err := c.Err(); err != nil {
		return err
	}

	c.bindingsRWM.RLock()
	ids := make([]Identifier, 0, len(c.bindings))
	for id := range c.bindings {
		ids = append(ids, id)
	}
	c.bindingsRWM.RUnlock()

	slices.SortFunc(ids, func(a, b Identifier) int {
		return compareIdentifiers(a, b)
	})

	done := make(map[Identifier]bool)
	for _, id := range ids {
		if err := c.validate(id, nil, done); err != nil {
			return err
		}
	}

	return nil
}

func (c *container) validate(id Identifier, path []Identifier, done map[Identifier]bool) error {
	if slices.Contains(path, id) {
		return newCyclicDependencyError(path, id)
	}

	if done[id] {
		return nil
	}

	b, ok := c.lookup(id)
	if !ok {
		return newUnboundIdentifierError(id, path)
	}

	next := append(slices.Clip(path), id)
	for _, dep := range b.strategy.dependencies {
		if err := c.validate(dep, next, done); err != nil {
			return err
		}
	}

	done[id] = true

	return nil
}

func compareIdentifiers(a, b Identifier) int {
	return cmp.Compare(identifierString(a), identifierString(b))
}
