package store

import (
	"errors"
	"fmt"
	"iter"
)

const (
	BackendMap     = "map"
	BackendSyncMap = "syncmap"
	BackendSwiss   = "swiss"
	BackendBTree   = "btree"
)

var ErrUnknownBackend = errors.New("unknown backend")

// Store is the deduplicating set of keys discovered by an expansion.
type Store[K comparable] interface {
	// Insert adds key, it returns true if key was not present.
	Insert(key K) bool
	Contains(key K) bool
	Len() int
	// All iterates keys once, in backend order.
	All() iter.Seq[K]
}

// Options tune a backend. Less is mandatory for BackendBTree. Hash, when
// set, replaces the runtime hash of the swiss table.
type Options[K comparable] struct {
	Capacity int
	Less     func(a, b K) bool
	Hash     func(key K) uint64
}

func Backends() []string {
	return []string{BackendMap, BackendSyncMap, BackendSwiss, BackendBTree}
}

func ValidateBackend(name string) error {
	switch name {
	case BackendMap, BackendSyncMap, BackendSwiss, BackendBTree:
		return nil
	}
	return fmt.Errorf("%w '%s'", ErrUnknownBackend, name)
}

// Concurrent reports whether a backend can be shared between goroutines.
func Concurrent(backend string) bool {
	return backend == BackendSyncMap
}

func New[K comparable](backend string, options Options[K]) (Store[K], error) {
	switch backend {
	case BackendMap:
		return NewMap[K](options.Capacity), nil
	case BackendSyncMap:
		return NewSyncMap[K](), nil
	case BackendSwiss:
		return NewSwiss[K](options.Capacity, options.Hash), nil
	case BackendBTree:
		if options.Less == nil {
			return nil, fmt.Errorf("backend '%s' needs an order", backend)
		}
		return NewBTree[K](options.Less), nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownBackend, backend)
}

// Union inserts every key of srcs into dst and returns how many were new.
func Union[K comparable](dst Store[K], srcs ...Store[K]) int {
	added := 0
	for _, src := range srcs {
		for key := range src.All() {
			if dst.Insert(key) {
				added++
			}
		}
	}
	return added
}
