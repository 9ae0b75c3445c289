package syncx

import (
	"sync"
)

// Map is a typed view over sync.Map. Values should be pointers so that
// CompareAndDelete can compare them.
type Map[TK comparable, TV any] struct {
	data sync.Map
}

func (m *Map[TK, TV]) Store(key TK, value TV) {
	m.data.Store(key, value)
}

func (m *Map[TK, TV]) Load(key TK) (TV, bool) {
	v, ok := m.data.Load(key)
	var v2 TV
	if ok {
		v2, ok = v.(TV)
	}
	return v2, ok
}

func (m *Map[TK, TV]) LoadOrStore(key TK, value TV) (TV, bool) {
	v, loaded := m.data.LoadOrStore(key, value)
	return v.(TV), loaded
}

func (m *Map[TK, TV]) CompareAndDelete(key TK, old TV) bool {
	return m.data.CompareAndDelete(key, old)
}

func (m *Map[TK, TV]) Keys() []TK {
	var keys []TK
	m.data.Range(func(k, _ any) bool {
		keys = append(keys, k.(TK))
		return true
	})
	return keys
}
