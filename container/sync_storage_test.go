package container_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/habiliai/svccontainer/container"
	"github.com/habiliai/svccontainer/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStorageReserve(t *testing.T) {
	s := container.NewSyncStorage[int]()

	_, reserved := s.Reserve("a")
	require.True(t, reserved)

	slot, reserved := s.Reserve("a")
	assert.False(t, reserved)
	assert.Equal(t, container.InProgress, slot.State)

	s.Release("a")
	_, ok := s.Load("a")
	assert.False(t, ok)

	s.Store("a", 7)
	s.Release("a")
	slot, ok = s.Load("a")
	require.True(t, ok)
	assert.Equal(t, container.Ready, slot.State)
	assert.Equal(t, 7, slot.Value)
}

func TestSyncStorageConcurrentReserveHasOneWinner(t *testing.T) {
	s := container.NewSyncStorage[int]()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, reserved := s.Reserve("contended"); reserved {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}

func TestConcurrentContainerSharesWarmedServices(t *testing.T) {
	c := container.NewErased(container.WithConcurrency())
	warmed := container.Build(c, "token", func(*container.Erased) *token {
		return &token{ID: uuid.New()}
	})

	const workers = 32
	var wg sync.WaitGroup
	results := make([]*dependent, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("dependent-%d", i)
			results[i] = container.Build(c, name, func(c *container.Erased) *dependent {
				return &dependent{Token: container.MustGet[*token](c, "token")}
			})
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		assert.Same(t, warmed, res.Token)
	}
	assert.Len(t, c.Names(), workers+1)
}

func TestConcurrentBuilderRecordsEveryDependency(t *testing.T) {
	const fanout = 16

	var (
		mu     sync.Mutex
		events = map[string]container.BuildEvent{}
	)
	c := container.NewErased(container.WithConcurrency(), container.WithObserver(func(e container.BuildEvent) {
		mu.Lock()
		defer mu.Unlock()
		events[e.Name] = e
	}))

	container.Build(c, "fanout", func(c *container.Erased) *token {
		var wg sync.WaitGroup
		for i := 0; i < fanout; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				container.Build(c, fmt.Sprintf("dep-%d", i), func(*container.Erased) *token {
					return &token{ID: uuid.New()}
				})
			}(i)
		}
		wg.Wait()
		return &token{}
	})

	expected := make([]string, 0, fanout)
	for i := 0; i < fanout; i++ {
		expected = append(expected, fmt.Sprintf("dep-%d", i))
	}

	mu.Lock()
	defer mu.Unlock()
	require.Contains(t, events, "fanout")
	assert.ElementsMatch(t, expected, events["fanout"].Dependencies)
	assert.Len(t, events, fanout+1)
}

func TestConcurrentBuildOfSameNameIsNotACycle(t *testing.T) {
	c := container.NewErased(container.WithConcurrency())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan *token)
	go func() {
		done <- container.Build(c, "slow", func(*container.Erased) *token {
			close(started)
			<-release
			return &token{ID: uuid.New()}
		})
	}()
	<-started

	_, err := container.TryBuild(c, "slow", func(*container.Erased) *token {
		t.Error("the second caller must not run the builder")
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrBuildInProgress))
	assert.False(t, errors.Is(err, errors.ErrCircularDependency))

	var inProgress *container.BuildInProgressError
	require.True(t, errors.As(err, &inProgress))
	assert.Equal(t, "slow", inProgress.Name)

	close(release)
	built := <-done
	assert.Same(t, built, container.MustGet[*token](c, "slow"))
}
