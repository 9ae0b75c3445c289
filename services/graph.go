package services

import (
	"github.com/habiliai/svccontainer/container"
)

// Identity is the printable summary of one resolved demo service.
type Identity struct {
	Name     string `yaml:"name" json:"name"`
	UUID     string `yaml:"uuid" json:"uuid"`
	Variant  string `yaml:"variant,omitempty" json:"variant,omitempty"`
	SharesID bool   `yaml:"sharesId" json:"sharesId"`
}

// ResolveErased builds the whole demo graph on an erased container. SharesID
// reports whether a dependent holds the same service A instance as the one
// resolved directly.
func ResolveErased(c *container.Erased) []Identity {
	a := NewServiceA(c)
	direct := NewWithDirectDependency(c)
	trait := NewWithTraitDependency(c)
	identifier := NewServiceAIdentifier(c)
	variant := NewWithVariantDependency(c)
	aVariant := NewServiceAVariant(c)

	return []Identity{
		{Name: ServiceAKey, UUID: a.ID.String(), SharesID: true},
		{Name: DirectDependencyKey, UUID: direct.ServiceA.ID.String(), SharesID: direct.ServiceA == a},
		{Name: TraitDependencyKey, UUID: trait.ServiceA.UUID().String(), SharesID: trait.ServiceA == identifier},
		{
			Name:     VariantDependencyKey,
			UUID:     VariantUUID(variant.ServiceA).String(),
			Variant:  variantName(variant.ServiceA),
			SharesID: VariantUUID(variant.ServiceA) == VariantUUID(aVariant),
		},
	}
}

func ResolveClosed(c *Closed) []Identity {
	a := ClosedServiceA(c)
	direct := ClosedDirectDependency(c)
	trait := ClosedTraitDependency(c)
	identifier := ClosedIdentifier(c)
	variant := ClosedVariantDependency(c)

	return []Identity{
		{Name: ServiceAKey, UUID: a.ID.String(), Variant: a.Variant(), SharesID: true},
		{Name: DirectDependencyKey, UUID: direct.ServiceA.ID.String(), Variant: direct.Variant(), SharesID: direct.ServiceA == a},
		{Name: TraitDependencyKey, UUID: trait.ServiceA.UUID().String(), Variant: trait.Variant(), SharesID: trait.ServiceA == identifier},
		{
			Name:     VariantDependencyKey,
			UUID:     VariantUUID(variant.ServiceA).String(),
			Variant:  variantName(variant.ServiceA),
			SharesID: VariantUUID(variant.ServiceA) == identifier.UUID(),
		},
	}
}

func variantName(v AVariant) string {
	switch v.(type) {
	case AReal:
		return "real"
	case AMock:
		return "mock"
	default:
		return ""
	}
}
