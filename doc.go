/*
This package provides a small dependency injection container.
Bindings map identifiers to construction strategies,
Resolve builds requested instance by resolving its declared dependencies first.

To install nanodi:

	go get -u github.com/andriiyaremenko/nanodi

How to use:

	type Config struct {
		AppName string
	}

	type Greeter struct {
		config *Config
	}

	func NewGreeter(config *Config) *Greeter {
		return &Greeter{config: config}
	}

	type Handler struct {
		Greeter *Greeter `inject:"Greeter"`
	}

	c := nanodi.New().
		BindConstant("Config", &Config{AppName: "MyApp"}).
		Bind("Greeter", nanodi.Func(NewGreeter, "Config")).
		Bind("Handler", nanodi.Pointer[Handler](), nanodi.Transient)
	if err := c.Validate(); err != nil {
		// handle error
	}

	handler, err := nanodi.Resolve[*Handler](c, "Handler")
	if err != nil {
		// handle error
	}

Dependencies are resolved depth-first, in declaration order.
Resolving an identifier without binding returns *nanodi.UnboundIdentifierError,
a dependency cycle returns *nanodi.CyclicDependencyError.
Both are returned as is, never wrapped.
Errors returned by constructors come wrapped in *nanodi.ResolutionError.

Functions:
  - nanodi.New
  - nanodi.Bind
  - nanodi.Resolve
  - nanodi.MustResolve
  - nanodi.Symbol
  - nanodi.ConfigFromEnv
  - nanodi.BindEnvironment
  - nanodi.SetDefaultLogger

Scope constants:

	nanodi.Singleton - default
	nanodi.Transient

Construction strategies:
  - nanodi.Class(func(deps ...any) (any, error), ids...)
  - nanodi.Func(func(T1, T2, ...) [R|(R, error)], ids...)
  - nanodi.Struct[Type] - would return Type with `inject` tagged fields resolved.
  - nanodi.Pointer[Type] - would return *Type with `inject` tagged fields resolved.
  - nanodi.Factory(func() (any, error))

Every constructor parameter must have an identifier declared for it,
otherwise Bind fails with *nanodi.UndeclaredDependencyError.

Container is safe for concurrent use.
Singleton is constructed once even if it is requested from many goroutines at the same time.
*/
package nanodi
