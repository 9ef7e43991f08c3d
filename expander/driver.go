package expander

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/fulldump/itemclosure/itemset"
	"github.com/fulldump/itemclosure/keys"
	"github.com/fulldump/itemclosure/store"
)

// Driver runs the Engine over a whole batch.
type Driver[K comparable] struct {
	Strategy keys.Strategy[K]
	NewStore func() (store.Store[K], error)

	// Workers above 1 expands the batch in parallel. It is capped to
	// runtime.GOMAXPROCS(0) and to the batch size.
	Workers int

	// Shared means NewStore returns a store safe for concurrent use: all
	// workers write into one store instead of merging private ones.
	Shared bool
}

type Result[K comparable] struct {
	Store   store.Store[K]
	Calls   int
	Workers int
}

// Run expands every itemset of batch. Range errors are detected for the
// whole batch before anything is expanded.
func (d *Driver[K]) Run(ctx context.Context, batch *itemset.Batch) (*Result[K], error) {

	workings := make([]keys.Working[K], 0, batch.Len())
	for i, items := range batch.Itemsets {
		w, err := d.Strategy.Working(items)
		if err != nil {
			return nil, &itemset.RecordError{Index: i, Err: err}
		}
		workings = append(workings, w)
	}

	workers := min(d.Workers, len(workings), runtime.GOMAXPROCS(0))
	if workers <= 1 {
		return d.sequential(ctx, workings)
	}
	return d.parallel(ctx, workings, workers)
}

func (d *Driver[K]) sequential(ctx context.Context, workings []keys.Working[K]) (*Result[K], error) {

	s, err := d.NewStore()
	if err != nil {
		return nil, err
	}

	e := NewEngine(s)
	for _, w := range workings {
		if err := e.Expand(ctx, w); err != nil {
			return nil, err
		}
	}

	return &Result[K]{
		Store:   s,
		Calls:   e.Calls(),
		Workers: 1,
	}, nil
}

// parallel deals itemsets round robin to workers. A worker may expand again a
// subset another worker already covered, the union removes the duplicates.
func (d *Driver[K]) parallel(ctx context.Context, workings []keys.Working[K], workers int) (*Result[K], error) {

	var shared store.Store[K]
	if d.Shared {
		s, err := d.NewStore()
		if err != nil {
			return nil, err
		}
		shared = s
	}

	stores := make([]store.Store[K], workers)
	calls := make([]int, workers)

	g, ctx := errgroup.WithContext(ctx)
	for worker := 0; worker < workers; worker++ {
		g.Go(func() error {
			s := shared
			if s == nil {
				var err error
				s, err = d.NewStore()
				if err != nil {
					return err
				}
			}
			stores[worker] = s

			e := NewEngine(s)
			for i := worker; i < len(workings); i += workers {
				if err := e.Expand(ctx, workings[i]); err != nil {
					return err
				}
			}
			calls[worker] = e.Calls()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result[K]{
		Store:   shared,
		Workers: workers,
	}
	for _, c := range calls {
		result.Calls += c
	}
	if shared == nil {
		result.Store = stores[0]
		store.Union(stores[0], stores[1:]...)
	}

	return result, nil
}
