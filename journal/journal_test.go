package journal_test

import (
	"path/filepath"
	"testing"

	"github.com/habiliai/svccontainer/config"
	"github.com/habiliai/svccontainer/container"
	"github.com/habiliai/svccontainer/internal/mytesting"
	"github.com/habiliai/svccontainer/journal"
	"github.com/habiliai/svccontainer/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type JournalTestSuite struct {
	mytesting.Suite

	DB *gorm.DB
}

func (s *JournalTestSuite) SetupTest() {
	s.Suite.SetupTest()

	conf := config.Default()
	conf.JournalDSN = filepath.Join(s.T().TempDir(), "journal.db")
	config.Set(s.Container, conf)

	s.DB = journal.Get(s.Container)
}

func (s *JournalTestSuite) TearDownTest() {
	s.Require().NoError(journal.Close(s.DB))
	s.Suite.TearDownTest()
}

func (s *JournalTestSuite) TestJournalIsMemoized() {
	s.Same(s.DB, journal.Get(s.Container))
}

func (s *JournalTestSuite) TestRecorderStoresBuilds() {
	recorder := journal.NewRecorder(s.DB, nil)
	c := container.NewErased(container.WithObserver(recorder.Observe))

	services.NewWithDirectDependency(c)
	services.NewWithDirectDependency(c)

	entries, err := journal.List(s.Context, s.DB, recorder.ContainerID())
	s.Require().NoError(err)
	s.Require().Len(entries, 2)

	s.Equal(services.ServiceAKey, entries[0].Name)
	s.Empty(entries[0].Dependencies)
	s.Equal(services.DirectDependencyKey, entries[1].Name)
	s.Equal([]string{services.ServiceAKey}, []string(entries[1].Dependencies))
	s.Equal(recorder.ContainerID(), entries[1].ContainerID)

	ids, err := journal.ListContainers(s.Context, s.DB)
	s.Require().NoError(err)
	s.Contains(ids, recorder.ContainerID())
}

func (s *JournalTestSuite) TestFailedBuildIsNotRecorded() {
	recorder := journal.NewRecorder(s.DB, nil)
	c := container.NewErased(container.WithObserver(recorder.Observe))

	s.Panics(func() {
		services.NewCircularA(c)
	})

	entries, err := journal.List(s.Context, s.DB, recorder.ContainerID())
	s.Require().NoError(err)
	s.Empty(entries)
}

func TestJournal(t *testing.T) {
	suite.Run(t, new(JournalTestSuite))
}

func TestTryGetReportsOpenFailure(t *testing.T) {
	c := container.NewErased()
	conf := config.Default()
	conf.JournalDSN = filepath.Join(t.TempDir(), "missing-dir", "journal.db")
	config.Set(c, conf)

	_, err := journal.TryGet(c)
	assert.Error(t, err)
	assert.Equal(t, container.Absent, c.State(journal.Key))
}
