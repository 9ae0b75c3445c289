package servicestest

import (
	"github.com/google/uuid"
	"github.com/habiliai/svccontainer/services"
	"github.com/stretchr/testify/mock"
)

type Identifier struct {
	mock.Mock
}

func (m *Identifier) UUID() uuid.UUID {
	args := m.Called()
	return args.Get(0).(uuid.UUID)
}

var (
	_ services.Identifier = (*Identifier)(nil)
)
