package services

import (
	"github.com/habiliai/svccontainer/container"
)

type (
	// Service enumerates every service a Closed container can hold.
	Service interface {
		container.Variant
		isService()
	}

	Closed = container.Container[Service]
)

func NewClosedContainer(opts ...container.Option) *Closed {
	return container.NewClosed[Service](opts...)
}

func (*ServiceA) Variant() string              { return "service_a" }
func (ServiceAMock) Variant() string           { return "service_a_mock" }
func (*WithDirectDependency) Variant() string  { return "direct_dependency" }
func (*WithTraitDependency) Variant() string   { return "trait_dependency" }
func (*WithVariantDependency) Variant() string { return "variant_dependency" }
func (*CircularA) Variant() string             { return "circular_a" }
func (*CircularB) Variant() string             { return "circular_b" }

func (*ServiceA) isService()              {}
func (ServiceAMock) isService()           {}
func (*WithDirectDependency) isService()  {}
func (*WithTraitDependency) isService()   {}
func (*WithVariantDependency) isService() {}
func (*CircularA) isService()             {}
func (*CircularB) isService()             {}

func ClosedServiceA(c *Closed) *ServiceA {
	return container.BuildCase[*ServiceA](c, ServiceAKey, func(*Closed) Service {
		return NewServiceAValue()
	})
}

// ClosedIdentifier accepts either the real or the mock case of service A.
func ClosedIdentifier(c *Closed) Identifier {
	svc := c.Build(ServiceATraitKey, func(*Closed) Service {
		return NewServiceAValue()
	})

	switch svc := svc.(type) {
	case *ServiceA:
		return svc
	case ServiceAMock:
		return svc
	default:
		panic(&container.VariantMismatchError{
			Name:     ServiceATraitKey,
			Expected: "service_a or service_a_mock",
			Got:      svc.Variant(),
		})
	}
}

func ClosedDirectDependency(c *Closed) *WithDirectDependency {
	return container.BuildCase[*WithDirectDependency](c, DirectDependencyKey, func(c *Closed) Service {
		return &WithDirectDependency{ServiceA: ClosedServiceA(c)}
	})
}

func ClosedTraitDependency(c *Closed) *WithTraitDependency {
	return container.BuildCase[*WithTraitDependency](c, TraitDependencyKey, func(c *Closed) Service {
		return &WithTraitDependency{ServiceA: ClosedIdentifier(c)}
	})
}

func ClosedVariantDependency(c *Closed) *WithVariantDependency {
	return container.BuildCase[*WithVariantDependency](c, VariantDependencyKey, func(c *Closed) Service {
		return &WithVariantDependency{ServiceA: closedAVariant(c)}
	})
}

// closedAVariant wraps whichever case of service A the trait key holds.
func closedAVariant(c *Closed) AVariant {
	switch a := ClosedIdentifier(c).(type) {
	case *ServiceA:
		return AReal{ServiceA: a}
	default:
		return AMock{Identifier: a}
	}
}

func ClosedCircularA(c *Closed) *CircularA {
	return container.BuildCase[*CircularA](c, CircularAKey, func(c *Closed) Service {
		return &CircularA{B: ClosedCircularB(c)}
	})
}

func ClosedCircularB(c *Closed) *CircularB {
	return container.BuildCase[*CircularB](c, CircularBKey, func(c *Closed) Service {
		return &CircularB{A: ClosedCircularA(c)}
	})
}
