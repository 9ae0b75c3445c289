package container

import (
	"reflect"
)

// Variant is implemented by the closed sum type a container is specialised to.
// The sum type is usually a sealed interface and each case a concrete type.
type Variant interface {
	Variant() string
}

func NewClosed[V Variant](opts ...Option) *Container[V] {
	return New[V](opts...)
}

// BuildCase builds or fetches name and unwraps the case C from the stored sum
// value. It panics with *VariantMismatchError when another case is stored.
func BuildCase[C any, V Variant](c *Container[V], name string, builder Builder[V]) C {
	return unwrapCase[C](name, c.Build(name, builder))
}

func TryBuildCase[C any, V Variant](c *Container[V], name string, builder Builder[V]) (res C, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()

	return BuildCase[C](c, name, builder), nil
}

func unwrapCase[C any, V Variant](name string, v V) C {
	if res, ok := any(v).(C); ok {
		return res
	}

	got := "<nil>"
	if any(v) != nil {
		got = v.Variant()
	}
	panic(&VariantMismatchError{
		Name:     name,
		Expected: reflect.TypeFor[C]().String(),
		Got:      got,
	})
}
