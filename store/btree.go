package store

import (
	"iter"

	"github.com/google/btree"
)

// BTree is an ordered Store, All yields keys in ascending order. Not safe for
// concurrent use.
type BTree[K comparable] struct {
	Btree *btree.BTreeG[K]
}

func NewBTree[K comparable](less func(a, b K) bool) *BTree[K] {
	return &BTree[K]{
		Btree: btree.NewG(32, btree.LessFunc[K](less)),
	}
}

func (b *BTree[K]) Insert(key K) bool {
	_, replaced := b.Btree.ReplaceOrInsert(key)
	return !replaced
}

func (b *BTree[K]) Contains(key K) bool {
	return b.Btree.Has(key)
}

func (b *BTree[K]) Len() int {
	return b.Btree.Len()
}

func (b *BTree[K]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		b.Btree.Ascend(func(key K) bool {
			return yield(key)
		})
	}
}
