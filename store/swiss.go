package store

import (
	"iter"

	"github.com/cockroachdb/swiss"
)

// Swiss is a Store over a swiss table. Not safe for concurrent use.
type Swiss[K comparable] struct {
	table *swiss.Map[K, struct{}]
}

// NewSwiss builds the table, hash may be nil to keep the runtime hash.
func NewSwiss[K comparable](capacity int, hash func(key K) uint64) *Swiss[K] {
	if hash == nil {
		return &Swiss[K]{table: swiss.New[K, struct{}](capacity)}
	}
	withHash := swiss.WithHash[K, struct{}](func(key *K, seed uintptr) uintptr {
		return uintptr(hash(*key)) ^ seed
	})
	return &Swiss[K]{table: swiss.New[K, struct{}](capacity, withHash)}
}

func (s *Swiss[K]) Insert(key K) bool {
	if _, exists := s.table.Get(key); exists {
		return false
	}
	s.table.Put(key, struct{}{})
	return true
}

func (s *Swiss[K]) Contains(key K) bool {
	_, exists := s.table.Get(key)
	return exists
}

func (s *Swiss[K]) Len() int {
	return s.table.Len()
}

func (s *Swiss[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		s.table.All(func(key K, _ struct{}) bool {
			return yield(key)
		})
	}
}
