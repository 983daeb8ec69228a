package nanodi_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/andriiyaremenko/nanodi"
)

type lookupError struct {
	key string
}

func (err *lookupError) Error() string {
	return "missing " + err.key
}

type taggedWithGap struct {
	Hero        *Hero       `inject:"Hero"`
	NameService NameService `inject:""`
}

var _ = Describe("Constructible", func() {
	Context("Func", func() {
		It("should describe constructor dependencies", func() {
			constructor := nanodi.Func(heroConstructor, "NameService")

			Expect(constructor.Err()).ShouldNot(HaveOccurred())
			Expect(constructor.Dependencies()).To(Equal([]nanodi.Identifier{"NameService"}))
			Expect(constructor.String()).To(Equal("func(nanodi_test.NameService) *nanodi_test.Hero"))
		})

		It("should accept symbol identifiers", func() {
			id := nanodi.Symbol("NameService")
			c := nanodi.New().
				Bind(id, nanodi.Func(nameServiceConstructor)).
				Bind("Hero", nanodi.Func(heroConstructor, id))

			hero, err := nanodi.Resolve[*Hero](c, "Hero")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(hero.Announce()).To(Equal("Bob is our hero!"))
		})

		It("should allow constructor with and without error", func() {
			Expect(nanodi.Func(func() NameProvider { return "Bob" }).Err()).ShouldNot(HaveOccurred())
			Expect(nanodi.Func(nameServiceConstructor).Err()).ShouldNot(HaveOccurred())
		})

		It("should return error for dependency without identifier", func() {
			err := nanodi.Func(heroConstructor).Err()

			Expect(err).Should(BeAssignableToTypeOf(new(nanodi.UndeclaredDependencyError)))
			Expect(err.(*nanodi.UndeclaredDependencyError).Position).To(Equal(0))

			err = nanodi.Func(
				func(NameService, *Hero) *Hero { return nil },
				"NameService", nil,
			).Err()

			Expect(err).Should(BeAssignableToTypeOf(new(nanodi.UndeclaredDependencyError)))
			Expect(err.(*nanodi.UndeclaredDependencyError).Position).To(Equal(1))
		})

		It("should return error for too many dependencies", func() {
			err := nanodi.Func(nameServiceConstructor, "Config").Err()

			Expect(err).Should(BeAssignableToTypeOf(new(nanodi.BadConstructorError)))
			Expect(errors.Unwrap(err)).Should(MatchError(nanodi.ErrTooManyDependencies))
		})

		It("should refuse variadic constructors", func() {
			err := nanodi.Func(func(args ...any) (NameService, error) {
				return NameProvider("Bob"), nil
			}).Err()

			Expect(err).Should(BeAssignableToTypeOf(new(nanodi.BadConstructorError)))
			Expect(errors.Unwrap(err)).Should(MatchError(nanodi.ErrVariadicConstructor))
		})

		It("should refuse not a function", func() {
			err := nanodi.Func("just random human made mistake").Err()

			Expect(err).Should(BeAssignableToTypeOf(new(nanodi.BadConstructorError)))
			Expect(errors.Unwrap(err)).Should(MatchError(nanodi.ErrNotAFunction))
		})

		It("should refuse nil function", func() {
			var fn func() *Hero

			Expect(errors.Unwrap(nanodi.Func(nil).Err())).Should(MatchError(nanodi.ErrNilConstructor))
			Expect(errors.Unwrap(nanodi.Func(fn).Err())).Should(MatchError(nanodi.ErrNilConstructor))
		})

		It("should treat typed nil error as success", func() {
			c := nanodi.New().
				Bind("Name", nanodi.Func(func() (string, *lookupError) { return "Bob", nil })).
				Bind("Missing", nanodi.Func(func() (string, *lookupError) {
					return "", &lookupError{key: "Missing"}
				}))

			name, err := nanodi.Resolve[string](c, "Name")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(name).To(Equal("Bob"))

			_, err = c.Resolve("Missing")

			var lookup *lookupError

			Expect(err).Should(BeAssignableToTypeOf(new(nanodi.ResolutionError)))
			Expect(errors.As(err, &lookup)).To(BeTrue())
			Expect(lookup.key).To(Equal("Missing"))
		})

		It("should refuse constructor returning wrong type", func() {
			badConstructors := []any{
				func() error { return nil },
				func() (int, bool) { return 0, false },
				func() (int, bool, error) { return 0, false, nil },
				func() {},
			}

			for _, constructor := range badConstructors {
				err := nanodi.Func(constructor).Err()

				Expect(err).Should(BeAssignableToTypeOf(new(nanodi.BadConstructorError)))
				Expect(errors.Unwrap(err)).Should(MatchError(nanodi.ErrBadReturnSignature))
			}
		})
	})

	Context("Class", func() {
		It("should pass resolved dependencies positionally", func() {
			c := nanodi.New().
				BindConstant("Greeting", "Hello").
				BindConstant("Name", "Bob").
				Bind("Message", nanodi.Class(
					func(deps ...any) (any, error) {
						return deps[0].(string) + ", " + deps[1].(string), nil
					},
					"Greeting", "Name",
				))

			message, err := nanodi.Resolve[string](c, "Message")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(message).To(Equal("Hello, Bob"))
		})

		It("should return error for gap in dependencies", func() {
			err := nanodi.Class(
				func(deps ...any) (any, error) { return nil, nil },
				"Greeting", nil, "Name",
			).Err()

			Expect(err).Should(BeAssignableToTypeOf(new(nanodi.UndeclaredDependencyError)))
			Expect(err.(*nanodi.UndeclaredDependencyError).Position).To(Equal(1))
		})

		It("should refuse not comparable dependency identifier", func() {
			err := nanodi.Class(
				func(deps ...any) (any, error) { return nil, nil },
				[]string{"Greeting"},
			).Err()

			Expect(err).Should(BeAssignableToTypeOf(new(nanodi.InvalidIdentifierError)))
		})

		It("should refuse nil constructor", func() {
			err := nanodi.Class(nil).Err()

			Expect(errors.Unwrap(err)).Should(MatchError(nanodi.ErrNilConstructor))
		})

		It("should fail Bind with constructor error", func() {
			c := nanodi.Bind("Message", nanodi.Class(nil))

			Expect(c.Err()).Should(BeAssignableToTypeOf(new(nanodi.BindingError)))

			var bad *nanodi.BadConstructorError

			Expect(errors.As(c.Err(), &bad)).To(BeTrue())
		})
	})

	Context("Struct", func() {
		It("should return error if type argument is not a struct", func() {
			Expect(nanodi.Struct[int]().Err()).Should(BeAssignableToTypeOf(new(nanodi.StructError)))
			Expect(nanodi.Struct[string]().Err()).Should(BeAssignableToTypeOf(new(nanodi.StructError)))
			Expect(nanodi.Struct[*Hero]().Err()).Should(BeAssignableToTypeOf(new(nanodi.StructError)))
			Expect(nanodi.Struct[NameService]().Err()).Should(BeAssignableToTypeOf(new(nanodi.StructError)))
		})

		It("should collect tagged exported fields only", func() {
			constructor := nanodi.Struct[Impostor]()

			Expect(constructor.Err()).ShouldNot(HaveOccurred())
			Expect(constructor.String()).To(Equal("nanodi_test.Impostor"))
			Expect(constructor.Dependencies()).
				To(Equal([]nanodi.Identifier{"Hero", "NameService"}))
		})

		It("should fill tagged fields", func() {
			c := nanodi.New().
				Bind("NameService", nanodi.Func(nameServiceConstructor)).
				Bind("Hero", nanodi.Func(heroConstructor, "NameService")).
				Bind("Impostor", nanodi.Struct[Impostor]())

			impostor, err := nanodi.Resolve[Impostor](c, "Impostor")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(impostor.Announce()).To(Equal("Bob pretends that Bob is our hero!"))
			Expect(impostor.Notes).To(BeEmpty())
		})

		It("should return error for empty tag", func() {
			err := nanodi.Struct[taggedWithGap]().Err()

			Expect(err).Should(BeAssignableToTypeOf(new(nanodi.UndeclaredDependencyError)))
			Expect(err.(*nanodi.UndeclaredDependencyError).Position).To(Equal(1))
		})
	})

	Context("Pointer", func() {
		It("should return error if type argument is not a struct", func() {
			Expect(nanodi.Pointer[int]().Err()).Should(BeAssignableToTypeOf(new(nanodi.StructError)))
			Expect(nanodi.Pointer[*Hero]().Err()).Should(BeAssignableToTypeOf(new(nanodi.StructError)))
		})

		It("should fill tagged fields", func() {
			c := nanodi.New().
				Bind("NameService", nanodi.Func(nameServiceConstructor)).
				Bind("Hero", nanodi.Func(heroConstructor, "NameService")).
				Bind("Impostor", nanodi.Pointer[Impostor](), nanodi.Transient)

			impostor1, err := nanodi.Resolve[*Impostor](c, "Impostor")

			Expect(err).ShouldNot(HaveOccurred())

			impostor2, err := nanodi.Resolve[*Impostor](c, "Impostor")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(impostor1).NotTo(BeIdenticalTo(impostor2))
			Expect(impostor1.Hero).To(BeIdenticalTo(impostor2.Hero))
			Expect(nanodi.Pointer[Impostor]().String()).To(Equal("*nanodi_test.Impostor"))
		})

		It("should return error if field has wrong type", func() {
			c := nanodi.New().
				BindConstant("NameService", NameProvider("Bob")).
				BindConstant("Hero", "not a hero").
				Bind("Impostor", nanodi.Pointer[Impostor]())

			_, err := c.Resolve("Impostor")

			var mismatch *nanodi.TypeMismatchError

			Expect(errors.As(err, &mismatch)).To(BeTrue())
			Expect(mismatch.Identifier).To(Equal("Hero"))
		})
	})

	Context("Factory", func() {
		It("should be called without arguments", func() {
			c := nanodi.New().Bind("Identified", nanodi.Factory(func() (any, error) {
				return identifiedConstructor(), nil
			}), nanodi.Transient)

			id1, err := nanodi.Resolve[*Identified](c, "Identified")

			Expect(err).ShouldNot(HaveOccurred())

			id2, err := nanodi.Resolve[*Identified](c, "Identified")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(id1).NotTo(BeIdenticalTo(id2))
			Expect(nanodi.Factory(nil).Err()).Should(MatchError(nanodi.ErrNilFactory))
		})
	})
})
