package store

import (
	"iter"
	"maps"
)

// Map is a Store over the builtin map. Not safe for concurrent use.
type Map[K comparable] struct {
	Entries map[K]struct{}
}

func NewMap[K comparable](capacity int) *Map[K] {
	return &Map[K]{
		Entries: make(map[K]struct{}, capacity),
	}
}

func (m *Map[K]) Insert(key K) bool {
	if _, exists := m.Entries[key]; exists {
		return false
	}
	m.Entries[key] = struct{}{}
	return true
}

func (m *Map[K]) Contains(key K) bool {
	_, exists := m.Entries[key]
	return exists
}

func (m *Map[K]) Len() int {
	return len(m.Entries)
}

func (m *Map[K]) All() iter.Seq[K] {
	return maps.Keys(m.Entries)
}
