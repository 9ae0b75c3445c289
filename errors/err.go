package errors

import (
	"fmt"
)

var (
	ErrCircularDependency = fmt.Errorf("svccontainer: circular dependency")
	ErrTypeMismatch       = fmt.Errorf("svccontainer: type mismatch")
	ErrVariantMismatch    = fmt.Errorf("svccontainer: variant mismatch")
	ErrInvalidName        = fmt.Errorf("svccontainer: invalid service name")
	ErrNotFound           = fmt.Errorf("svccontainer: not found")
	ErrInvalidConfig      = fmt.Errorf("svccontainer: invalid config")
	ErrBuildInProgress    = fmt.Errorf("svccontainer: service is being built concurrently")
)
