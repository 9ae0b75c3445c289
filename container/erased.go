package container

import (
	"reflect"

	"github.com/habiliai/svccontainer/errors"
)

// Erased stores services of any type. The expected type is checked when a
// service is read back, so two call sites that disagree about what a name
// holds fail at that point.
type Erased = Container[any]

func NewErased(opts ...Option) *Erased {
	return New[any](opts...)
}

// Build builds or fetches name and downcasts it to T. It panics with
// *TypeMismatchError when the stored service is not a T.
func Build[T any](c *Erased, name string, builder func(c *Erased) T) T {
	v := c.Build(name, func(c *Erased) any {
		return builder(c)
	})
	return downcast[T](name, v)
}

func TryBuild[T any](c *Erased, name string, builder func(c *Erased) T) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()

	return Build(c, name, builder), nil
}

func Set[T any](c *Erased, name string, obj T) {
	c.Set(name, obj)
}

// Get returns an already stored service without building anything.
func Get[T any](c *Erased, name string) (res T, err error) {
	slot, ok := c.storage.Load(name)
	if !ok || slot.State != Ready {
		err = errors.Wrapf(errors.ErrNotFound, "service %q", name)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()
	res = downcast[T](name, slot.Value)
	return
}

func MustGet[T any](c *Erased, name string) T {
	res, err := Get[T](c, name)
	if err != nil {
		panic(err)
	}

	return res
}

// downcast treats a nil service as the zero value of T only when T itself
// can be nil.
func downcast[T any](name string, v any) T {
	if v == nil {
		expected := reflect.TypeFor[T]()
		if !nilable(expected) {
			panic(&TypeMismatchError{Name: name, Expected: expected})
		}
		var zero T
		return zero
	}

	res, ok := v.(T)
	if !ok {
		panic(&TypeMismatchError{Name: name, Expected: reflect.TypeFor[T](), Got: reflect.TypeOf(v)})
	}
	return res
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
