package container

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/habiliai/svccontainer/errors"
	"github.com/samber/lo"
)

type (
	// Builder constructs the service for one name. It receives the container so
	// that it can build its own dependencies through it.
	Builder[V any] func(c *Container[V]) V

	BuildEvent struct {
		Name         string
		Duration     time.Duration
		Dependencies []string
	}
	Observer func(BuildEvent)

	Option func(*options)

	options struct {
		logger     *slog.Logger
		observers  []Observer
		concurrent bool
	}

	// Container lazily builds named services and keeps them for its lifetime.
	// Every name is built at most once unless Set replaces it.
	Container[V any] struct {
		storage   Storage[V]
		logger    *slog.Logger
		observers []Observer

		// frame is the build this view was handed to, nil at the top level.
		frame *frame
	}

	// frame is one running build. Builders may resolve dependencies from
	// several goroutines, so deps is guarded by mu.
	frame struct {
		name   string
		parent *frame

		mu   sync.Mutex
		deps []string
	}
)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, observer)
	}
}

// WithConcurrency backs the container with SyncStorage. It has no effect on
// NewWithStorage.
func WithConcurrency() Option {
	return func(o *options) {
		o.concurrent = true
	}
}

func New[V any](opts ...Option) *Container[V] {
	o := applyOptions(opts)
	if o.concurrent {
		return newContainer[V](NewSyncStorage[V](), o)
	}
	return newContainer[V](NewMapStorage[V](), o)
}

func NewWithStorage[V any](storage Storage[V], opts ...Option) *Container[V] {
	return newContainer(storage, applyOptions(opts))
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

func newContainer[V any](storage Storage[V], o *options) *Container[V] {
	return &Container[V]{
		storage:   storage,
		logger:    o.logger,
		observers: o.observers,
	}
}

// Set installs v under name whatever state the name is in. Later builds of
// name return v.
func (c *Container[V]) Set(name string, v V) {
	if name == "" {
		panic(errors.WithStack(errors.ErrInvalidName))
	}
	if slot, ok := c.storage.Load(name); ok {
		c.logger.Debug("service overridden", "name", name, "previous", slot.State.String())
	}
	c.storage.Store(name, v)
}

// Build returns the service stored under name, running builder first if the
// name has never been built or set. It panics with *CircularDependencyError
// when name is re-entered while its own builder is still running. On a
// concurrent storage, asking for a name that another call chain is still
// building panics with *BuildInProgressError instead.
func (c *Container[V]) Build(name string, builder Builder[V]) V {
	if name == "" {
		panic(errors.WithStack(errors.ErrInvalidName))
	}
	if c.frame != nil {
		c.frame.addDependency(name)
	}

	if existing, reserved := c.storage.Reserve(name); !reserved {
		if existing.State == Ready {
			return existing.Value
		}

		chain := c.chain(name)
		if _, concurrent := c.storage.(concurrentStorage); concurrent && !slices.Contains(chain[:len(chain)-1], name) {
			err := &BuildInProgressError{Name: name}
			c.logger.Warn("service is being built by another caller", "name", name)
			panic(err)
		}

		err := &CircularDependencyError{Name: name, Chain: chain}
		c.logger.Error("circular dependency detected", "name", name, "chain", err.Chain)
		panic(err)
	}

	built := false
	defer func() {
		// a panicking builder must not leave the name reserved
		if !built {
			c.storage.Release(name)
		}
	}()

	f := &frame{name: name, parent: c.frame}
	start := time.Now()
	v := builder(c.view(f))
	c.storage.Store(name, v)
	built = true

	event := BuildEvent{
		Name:         name,
		Duration:     time.Since(start),
		Dependencies: f.dependencies(),
	}
	c.logger.Debug("service built", "name", name, "duration", event.Duration, "dependencies", event.Dependencies)
	for _, observer := range c.observers {
		observer(event)
	}

	return v
}

// TryBuild is Build with failures returned instead of raised.
func (c *Container[V]) TryBuild(name string, builder Builder[V]) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asError(r)
		}
	}()

	return c.Build(name, builder), nil
}

func (c *Container[V]) State(name string) SlotState {
	slot, ok := c.storage.Load(name)
	if !ok {
		return Absent
	}
	return slot.State
}

// Names returns every name that is in-progress or ready, sorted.
func (c *Container[V]) Names() []string {
	return c.storage.Names()
}

func (c *Container[V]) view(f *frame) *Container[V] {
	return &Container[V]{
		storage:   c.storage,
		logger:    c.logger,
		observers: c.observers,
		frame:     f,
	}
}

func (c *Container[V]) chain(name string) []string {
	chain := []string{name}
	for f := c.frame; f != nil; f = f.parent {
		chain = append([]string{f.name}, chain...)
	}
	return chain
}

func (f *frame) addDependency(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deps = append(f.deps, name)
}

func (f *frame) dependencies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return lo.Uniq(f.deps)
}
