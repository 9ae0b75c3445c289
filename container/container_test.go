package container_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/habiliai/svccontainer/container"
	"github.com/habiliai/svccontainer/errors"
	"github.com/stretchr/testify/suite"
)

type (
	token struct {
		ID uuid.UUID
	}
	dependent struct {
		Token *token
	}
)

type ContainerTestSuite struct {
	suite.Suite

	newContainer func(opts ...container.Option) *container.Erased
	c            *container.Erased
	tokenBuilds  int
}

func (s *ContainerTestSuite) SetupTest() {
	s.c = s.newContainer()
	s.tokenBuilds = 0
}

func (s *ContainerTestSuite) buildToken(c *container.Erased) *token {
	return container.Build(c, "token", func(*container.Erased) *token {
		s.tokenBuilds++
		return &token{ID: uuid.New()}
	})
}

func (s *ContainerTestSuite) buildDependent(c *container.Erased) *dependent {
	return container.Build(c, "dependent", func(c *container.Erased) *dependent {
		return &dependent{Token: s.buildToken(c)}
	})
}

func (s *ContainerTestSuite) TestBuildMemoizes() {
	first := s.buildToken(s.c)
	second := s.buildToken(s.c)

	s.Same(first, second)
	s.Equal(1, s.tokenBuilds)
	s.Equal(container.Ready, s.c.State("token"))
}

func (s *ContainerTestSuite) TestDependencyFromBottom() {
	tok := s.buildToken(s.c)
	dep := s.buildDependent(s.c)

	s.Same(tok, dep.Token)
	s.Equal(tok.ID, dep.Token.ID)
	s.Equal(1, s.tokenBuilds)
}

func (s *ContainerTestSuite) TestDependencyFromTop() {
	dep := s.buildDependent(s.c)
	tok := s.buildToken(s.c)

	s.Same(tok, dep.Token)
	s.Equal(1, s.tokenBuilds)
}

func (s *ContainerTestSuite) TestSetOverridesBuiltService() {
	built := s.buildToken(s.c)
	override := &token{ID: uuid.New()}

	container.Set(s.c, "token", override)

	s.Same(override, s.buildToken(s.c))
	s.NotEqual(built.ID, s.buildDependent(s.c).Token.ID)
	s.Equal(override.ID, s.buildDependent(s.c).Token.ID)
	s.Equal(1, s.tokenBuilds)
}

func (s *ContainerTestSuite) TestSetBeforeBuildSkipsBuilder() {
	override := &token{ID: uuid.New()}
	container.Set(s.c, "token", override)

	s.Same(override, s.buildDependent(s.c).Token)
	s.Zero(s.tokenBuilds)
}

func (s *ContainerTestSuite) TestSlotIsInProgressWhileBuilding() {
	var observed container.SlotState
	container.Build(s.c, "slow", func(c *container.Erased) *token {
		observed = c.State("slow")
		return &token{}
	})

	s.Equal(container.InProgress, observed)
	s.Equal(container.Ready, s.c.State("slow"))
	s.Equal(container.Absent, s.c.State("never"))
}

func (s *ContainerTestSuite) TestCircularDependency() {
	_, err := container.TryBuild(s.c, "circularA", newCircularA)
	s.Require().Error(err)
	s.True(errors.Is(err, errors.ErrCircularDependency))

	var circularErr *container.CircularDependencyError
	s.Require().True(errors.As(err, &circularErr))
	s.Equal("circularA", circularErr.Name)
	s.Equal([]string{"circularA", "circularB", "circularA"}, circularErr.Chain)
	s.Contains(err.Error(), "circularA -> circularB -> circularA")

	// the failed chain leaves nothing reserved behind
	s.Equal(container.Absent, s.c.State("circularA"))
	s.Equal(container.Absent, s.c.State("circularB"))
	s.Empty(s.c.Names())
}

func (s *ContainerTestSuite) TestCircularDependencyPanics() {
	s.Panics(func() {
		buildCircularA(s.c)
	})

	_, err := container.TryBuild(s.c, "circularA", newCircularA)
	s.True(errors.Is(err, errors.ErrCircularDependency), "a second attempt detects the cycle again")
}

func (s *ContainerTestSuite) TestSelfDependency() {
	var self func(c *container.Erased) *token
	self = func(c *container.Erased) *token {
		container.Build(c, "self", self)
		return &token{}
	}

	_, err := container.TryBuild(s.c, "self", self)

	var circularErr *container.CircularDependencyError
	s.Require().True(errors.As(err, &circularErr))
	s.Equal([]string{"self", "self"}, circularErr.Chain)
}

func (s *ContainerTestSuite) TestCycleBelowReadyServiceKeepsIt() {
	tok := s.buildToken(s.c)

	_, err := container.TryBuild(s.c, "uses-cycle", func(c *container.Erased) *token {
		s.buildToken(c)
		buildCircularA(c)
		return &token{}
	})
	s.Require().Error(err)

	s.Equal(container.Ready, s.c.State("token"))
	s.Same(tok, s.buildToken(s.c))
	s.Equal(container.Absent, s.c.State("uses-cycle"))
}

func (s *ContainerTestSuite) TestBuilderPanicReleasesSlot() {
	_, err := container.TryBuild(s.c, "broken", func(*container.Erased) *token {
		panic("boom")
	})
	s.Require().Error(err)
	s.Contains(err.Error(), "boom")
	s.Equal(container.Absent, s.c.State("broken"))

	tok, err := container.TryBuild(s.c, "broken", func(*container.Erased) *token {
		return &token{ID: uuid.New()}
	})
	s.Require().NoError(err)
	s.NotNil(tok)
}

func (s *ContainerTestSuite) TestEmptyName() {
	_, err := container.TryBuild(s.c, "", func(*container.Erased) *token {
		return &token{}
	})
	s.True(errors.Is(err, errors.ErrInvalidName))

	s.Panics(func() {
		container.Set(s.c, "", &token{})
	})
}

func (s *ContainerTestSuite) TestObserverReceivesDependencies() {
	var events []container.BuildEvent
	c := s.newContainer(container.WithObserver(func(e container.BuildEvent) {
		events = append(events, e)
	}))

	s.buildDependent(c)
	s.buildDependent(c)

	s.Require().Len(events, 2)
	s.Equal("token", events[0].Name)
	s.Empty(events[0].Dependencies)
	s.Equal("dependent", events[1].Name)
	s.Equal([]string{"token"}, events[1].Dependencies)
	s.Equal([]string{"dependent", "token"}, c.Names())
}

func TestContainerWithMapStorage(t *testing.T) {
	suite.Run(t, &ContainerTestSuite{
		newContainer: func(opts ...container.Option) *container.Erased {
			return container.NewErased(opts...)
		},
	})
}

func TestContainerWithSyncStorage(t *testing.T) {
	suite.Run(t, &ContainerTestSuite{
		newContainer: func(opts ...container.Option) *container.Erased {
			return container.NewWithStorage[any](container.NewSyncStorage[any](), opts...)
		},
	})
}

func buildCircularA(c *container.Erased) *token {
	return container.Build(c, "circularA", newCircularA)
}

func newCircularA(c *container.Erased) *token {
	buildCircularB(c)
	return &token{}
}

func buildCircularB(c *container.Erased) *token {
	return container.Build(c, "circularB", func(c *container.Erased) *token {
		buildCircularA(c)
		return &token{}
	})
}
