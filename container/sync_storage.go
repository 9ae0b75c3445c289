package container

import (
	"sort"

	"github.com/habiliai/svccontainer/internal/syncx"
)

// SyncStorage is safe for concurrent use. Each call is atomic on its own, but
// nothing is held while a builder runs. A goroutine that asks for a name
// another goroutine is still building gets *BuildInProgressError.
type SyncStorage[V any] struct {
	slots syncx.Map[string, *Slot[V]]
}

var (
	_ Storage[any]      = (*SyncStorage[any])(nil)
	_ concurrentStorage = (*SyncStorage[any])(nil)
)

// concurrentStorage marks storages shared between call chains, where an
// in-progress slot outside the current chain is contention, not a cycle.
type concurrentStorage interface {
	concurrent()
}

func NewSyncStorage[V any]() *SyncStorage[V] {
	return &SyncStorage[V]{}
}

func (s *SyncStorage[V]) Load(name string) (Slot[V], bool) {
	slot, ok := s.slots.Load(name)
	if !ok {
		return Slot[V]{}, false
	}
	return *slot, true
}

func (s *SyncStorage[V]) Reserve(name string) (Slot[V], bool) {
	reservation := &Slot[V]{State: InProgress}
	slot, loaded := s.slots.LoadOrStore(name, reservation)
	if loaded {
		return *slot, false
	}
	return Slot[V]{}, true
}

func (s *SyncStorage[V]) Store(name string, v V) {
	slot := ready(v)
	s.slots.Store(name, &slot)
}

func (s *SyncStorage[V]) Release(name string) {
	slot, ok := s.slots.Load(name)
	if !ok || slot.State != InProgress {
		return
	}
	s.slots.CompareAndDelete(name, slot)
}

func (*SyncStorage[V]) concurrent() {}

func (s *SyncStorage[V]) Names() []string {
	names := s.slots.Keys()
	sort.Strings(names)
	return names
}
