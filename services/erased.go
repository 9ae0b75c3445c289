package services

import (
	"github.com/habiliai/svccontainer/container"
)

func NewServiceA(c *container.Erased) *ServiceA {
	return container.Build(c, ServiceAKey, func(*container.Erased) *ServiceA {
		return NewServiceAValue()
	})
}

func NewServiceAIdentifier(c *container.Erased) Identifier {
	return container.Build(c, ServiceATraitKey, func(*container.Erased) Identifier {
		return NewServiceAValue()
	})
}

func NewServiceAVariant(c *container.Erased) AVariant {
	return container.Build(c, ServiceAEnumKey, func(*container.Erased) AVariant {
		return AReal{ServiceA: NewServiceAValue()}
	})
}

func NewWithDirectDependency(c *container.Erased) *WithDirectDependency {
	return container.Build(c, DirectDependencyKey, func(c *container.Erased) *WithDirectDependency {
		return &WithDirectDependency{ServiceA: NewServiceA(c)}
	})
}

func NewWithTraitDependency(c *container.Erased) *WithTraitDependency {
	return container.Build(c, TraitDependencyKey, func(c *container.Erased) *WithTraitDependency {
		return &WithTraitDependency{ServiceA: NewServiceAIdentifier(c)}
	})
}

func NewWithVariantDependency(c *container.Erased) *WithVariantDependency {
	return container.Build(c, VariantDependencyKey, func(c *container.Erased) *WithVariantDependency {
		return &WithVariantDependency{ServiceA: NewServiceAVariant(c)}
	})
}

func NewCircularA(c *container.Erased) *CircularA {
	return container.Build(c, CircularAKey, func(c *container.Erased) *CircularA {
		return &CircularA{B: NewCircularB(c)}
	})
}

func NewCircularB(c *container.Erased) *CircularB {
	return container.Build(c, CircularBKey, func(c *container.Erased) *CircularB {
		return &CircularB{A: NewCircularA(c)}
	})
}
