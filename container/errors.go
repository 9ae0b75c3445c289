package container

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/habiliai/svccontainer/errors"
)

// CircularDependencyError is raised when a build re-enters a name that is
// still in-progress. Chain is the build path that led back to Name.
type CircularDependencyError struct {
	Name  string
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("%v: %q", errors.ErrCircularDependency, e.Name)
	}
	return fmt.Sprintf("%v: %s", errors.ErrCircularDependency, strings.Join(e.Chain, " -> "))
}

func (e *CircularDependencyError) Unwrap() error {
	return errors.ErrCircularDependency
}

// BuildInProgressError is raised on a concurrent storage when name is being
// built by a different call chain.
type BuildInProgressError struct {
	Name string
}

func (e *BuildInProgressError) Error() string {
	return fmt.Sprintf("%v: %q", errors.ErrBuildInProgress, e.Name)
}

func (e *BuildInProgressError) Unwrap() error {
	return errors.ErrBuildInProgress
}

type TypeMismatchError struct {
	Name     string
	Expected reflect.Type
	Got      reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%v: service %q is %v, not %v", errors.ErrTypeMismatch, e.Name, e.Got, e.Expected)
}

func (e *TypeMismatchError) Unwrap() error {
	return errors.ErrTypeMismatch
}

type VariantMismatchError struct {
	Name     string
	Expected string
	Got      string
}

func (e *VariantMismatchError) Error() string {
	return fmt.Sprintf("%v: service %q holds variant %q, expected %s", errors.ErrVariantMismatch, e.Name, e.Got, e.Expected)
}

func (e *VariantMismatchError) Unwrap() error {
	return errors.ErrVariantMismatch
}

// asError turns a recovered panic value into an error.
func asError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return errors.Errorf("%v", r)
}
