// Package expander computes the downward closure of a batch of itemsets.
//
// The Engine walks the subsets of one itemset by removing one element at a
// time, recording every content it reaches in a shared Store and pruning any
// branch whose key is already there. A key is inserted before its own
// children are visited and the walk is depth first, so a key that is present
// is either fully expanded or on the current path; in both cases its subsets
// are, or will be, in the store.
package expander

import (
	"context"

	"github.com/fulldump/itemclosure/keys"
	"github.com/fulldump/itemclosure/store"
)

// checkEvery is how many recursive calls run between two checks of the
// context.
const checkEvery = 1024

type Engine[K comparable] struct {
	store store.Store[K]
	calls int
	err   error
}

func NewEngine[K comparable](s store.Store[K]) *Engine[K] {
	return &Engine[K]{store: s}
}

// Expand records w and all its non empty subsets. w is back to its original
// content when Expand returns, also when ctx is done halfway: the walk then
// unwinds and Expand returns ctx.Err(), leaving the store partial.
func (e *Engine[K]) Expand(ctx context.Context, w keys.Working[K]) error {
	if e.err = ctx.Err(); e.err != nil {
		return e.err
	}
	e.expand(ctx, w, w.Key())
	return e.err
}

func (e *Engine[K]) expand(ctx context.Context, w keys.Working[K], key K) {

	e.store.Insert(key)

	if w.Len() <= 1 {
		return
	}

	slots := w.Slots()
	for slot := 0; slot < slots; slot++ {
		item, ok := w.Remove(slot)
		if !ok {
			continue
		}
		child := w.Key()
		if !e.store.Contains(child) {
			e.calls++
			if e.calls%checkEvery == 0 {
				e.err = ctx.Err()
			}
			if e.err == nil {
				e.expand(ctx, w, child)
			}
		}
		w.Restore(slot, item)
		if e.err != nil {
			return
		}
	}
}

// Calls is the number of recursive expansions performed so far, top level
// calls excluded.
func (e *Engine[K]) Calls() int {
	return e.calls
}

func (e *Engine[K]) Store() store.Store[K] {
	return e.store
}
