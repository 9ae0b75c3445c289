package services

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	// AVariant is either the real service A or a stand-in for it.
	AVariant interface {
		isAVariant()
	}

	AReal struct {
		*ServiceA
	}

	AMock struct {
		Identifier
	}
)

func (AReal) isAVariant() {}
func (AMock) isAVariant() {}

func VariantUUID(v AVariant) uuid.UUID {
	switch v := v.(type) {
	case AReal:
		return v.ID
	case AMock:
		return v.UUID()
	default:
		panic(fmt.Sprintf("unknown service A variant %T", v))
	}
}
