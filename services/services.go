package services

import (
	"github.com/google/uuid"
)

const (
	ServiceAKey          = "service_a"
	ServiceATraitKey     = "service_a_trait"
	ServiceAEnumKey      = "service_a_enum"
	DirectDependencyKey  = "service_with_direct_dependency_on_a"
	TraitDependencyKey   = "service_with_trait_dependency_on_a"
	VariantDependencyKey = "service_with_enum_dependency_on_a"
	CircularAKey         = "circularA"
	CircularBKey         = "circularB"
)

var MockServiceAUUID = uuid.MustParse("dccfce5b-726e-43a1-8433-b7c1911b5af4")

type (
	// Identifier is what dependents see of service A when they do not care
	// which implementation they got.
	Identifier interface {
		UUID() uuid.UUID
	}

	ServiceA struct {
		ID uuid.UUID
	}

	// ServiceAMock always reports MockServiceAUUID.
	ServiceAMock struct{}

	WithDirectDependency struct {
		ServiceA *ServiceA
	}

	WithTraitDependency struct {
		ServiceA Identifier
	}

	WithVariantDependency struct {
		ServiceA AVariant
	}

	CircularA struct {
		B *CircularB
	}

	CircularB struct {
		A *CircularA
	}
)

func NewServiceAValue() *ServiceA {
	return &ServiceA{ID: uuid.New()}
}

func (a *ServiceA) UUID() uuid.UUID {
	return a.ID
}

func (ServiceAMock) UUID() uuid.UUID {
	return MockServiceAUUID
}

var (
	_ Identifier = (*ServiceA)(nil)
	_ Identifier = ServiceAMock{}
)
