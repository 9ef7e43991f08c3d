package store

import (
	"iter"
	"sync"
	"sync/atomic"
)

// SyncMap is a Store safe for concurrent use, several expansion workers can
// share it.
type SyncMap[K comparable] struct {
	Entries *sync.Map
	count   atomic.Int64
}

func NewSyncMap[K comparable]() *SyncMap[K] {
	return &SyncMap[K]{
		Entries: &sync.Map{},
	}
}

func (m *SyncMap[K]) Insert(key K) bool {
	_, loaded := m.Entries.LoadOrStore(key, struct{}{})
	if loaded {
		return false
	}
	m.count.Add(1)
	return true
}

func (m *SyncMap[K]) Contains(key K) bool {
	_, exists := m.Entries.Load(key)
	return exists
}

func (m *SyncMap[K]) Len() int {
	return int(m.count.Load())
}

func (m *SyncMap[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		m.Entries.Range(func(key, _ any) bool {
			return yield(key.(K))
		})
	}
}
