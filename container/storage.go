package container

import (
	"sort"

	"github.com/samber/lo"
)

// Storage holds the slots of a container. The build algorithm only talks to
// storage through this interface, so the backend can be swapped without
// touching it.
type Storage[V any] interface {
	// Load returns the slot for name. ok is false when the name is absent.
	Load(name string) (slot Slot[V], ok bool)
	// Reserve marks an absent name in-progress and reports true. If the name
	// is already present it leaves it alone and returns the existing slot.
	Reserve(name string) (existing Slot[V], reserved bool)
	// Store installs a ready value, whatever the previous state was.
	Store(name string, v V)
	// Release drops an in-progress reservation. Ready slots are kept.
	Release(name string)
	Names() []string
}

// MapStorage is a plain map. It must not be shared between goroutines.
type MapStorage[V any] struct {
	slots map[string]Slot[V]
}

var _ Storage[any] = (*MapStorage[any])(nil)

func NewMapStorage[V any]() *MapStorage[V] {
	return &MapStorage[V]{
		slots: make(map[string]Slot[V]),
	}
}

func (s *MapStorage[V]) Load(name string) (Slot[V], bool) {
	slot, ok := s.slots[name]
	return slot, ok
}

func (s *MapStorage[V]) Reserve(name string) (Slot[V], bool) {
	if slot, ok := s.slots[name]; ok {
		return slot, false
	}
	s.slots[name] = inProgress[V]()
	return Slot[V]{}, true
}

func (s *MapStorage[V]) Store(name string, v V) {
	s.slots[name] = ready(v)
}

func (s *MapStorage[V]) Release(name string) {
	if slot, ok := s.slots[name]; ok && slot.State == InProgress {
		delete(s.slots, name)
	}
}

func (s *MapStorage[V]) Names() []string {
	names := lo.Keys(s.slots)
	sort.Strings(names)
	return names
}
