package expander

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/itemclosure/itemset"
	"github.com/fulldump/itemclosure/keys"
	"github.com/fulldump/itemclosure/store"
)

func batchOf(sets ...[]int64) *itemset.Batch {
	b := itemset.NewBatch()
	for _, s := range sets {
		b.Add(itemset.MustNew(s...))
	}
	return b
}

func options(representation, backend string) Options {
	o := DefaultOptions()
	o.Representation = representation
	o.Backend = backend
	return o
}

func TestRun_Counts(t *testing.T) {

	cases := []struct {
		name  string
		batch *itemset.Batch
		count int
	}{
		{"disjoint", batchOf([]int64{1, 2, 3}, []int64{4, 5, 6}), 14},
		{"overlap", batchOf([]int64{57, 58, 59, 60}, []int64{60, 99}), 17},
		{"singleton", batchOf([]int64{5}), 1},
		{"repeated", batchOf([]int64{1, 2, 3}, []int64{1, 2, 3}), 7},
		{"nested", batchOf([]int64{1, 2, 3}, []int64{1, 2}), 7},
	}

	for _, representation := range keys.Representations() {
		for _, backend := range store.Backends() {
			for _, c := range cases {
				name := fmt.Sprintf("%s %s %s", representation, backend, c.name)
				biff.Alternative(name, func(a *biff.A) {
					report, err := Run(context.Background(), c.batch, options(representation, backend))
					biff.AssertNil(err)
					biff.AssertEqual(report.Count, c.count)
					biff.AssertEqual(report.Itemsets, c.batch.Len())
					biff.AssertEqual(report.Representation, representation)
					biff.AssertEqual(report.Backend, backend)
				})
			}
		}
	}
}

func TestRun_Singleton(t *testing.T) {
	report, err := Run(context.Background(), batchOf([]int64{5}), DefaultOptions())
	biff.AssertNil(err)
	biff.AssertEqual(report.Count, 1)
	biff.AssertEqual(report.Calls, 0)
	biff.AssertEqual(report.Keys(), []any{[]uint32{5}})
}

func TestRun_EmptyItemset(t *testing.T) {
	for _, representation := range keys.Representations() {
		biff.Alternative(representation, func(a *biff.A) {
			report, err := Run(context.Background(), batchOf([]int64{}), options(representation, store.BackendMap))
			biff.AssertNil(err)
			biff.AssertEqual(report.Count, 1)
			biff.AssertEqual(report.Calls, 0)
		})
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	report, err := Run(context.Background(), batchOf(), DefaultOptions())
	biff.AssertNil(err)
	biff.AssertEqual(report.Count, 0)
	biff.AssertEqual(report.Keys(), []any{})
}

func TestRun_Calls(t *testing.T) {
	// {1,2,3} reaches its 6 proper non empty subsets once each
	report, err := Run(context.Background(), batchOf([]int64{1, 2, 3}), DefaultOptions())
	biff.AssertNil(err)
	biff.AssertEqual(report.Calls, 6)

	// the second itemset only adds {99} and {60,99}
	report, err = Run(context.Background(), batchOf([]int64{57, 58, 59, 60}, []int64{60, 99}), DefaultOptions())
	biff.AssertNil(err)
	biff.AssertEqual(report.Calls, 14+1)
}

func TestRun_DownwardClosure(t *testing.T) {

	batch := batchOf(
		[]int64{1, 4, 9, 16, 25},
		[]int64{4, 9, 30},
		[]int64{2, 3, 5, 7},
		[]int64{100},
	)

	expected := map[string]bool{}
	for _, s := range batch.Itemsets {
		for subset := range subsets(s) {
			expected[subset.String()] = true
		}
	}

	for _, representation := range []string{keys.RepresentationSequence, keys.RepresentationBitmask, keys.RepresentationBitVector} {
		biff.Alternative(representation, func(a *biff.A) {
			report, err := Run(context.Background(), batch, options(representation, store.BackendSwiss))
			biff.AssertNil(err)
			biff.AssertEqual(report.Count, len(expected))

			obtained := map[string]bool{}
			for _, k := range report.Keys() {
				values := k.([]uint32)
				s := make(itemset.Itemset, len(values))
				for i, v := range values {
					s[i] = itemset.Item(v)
				}
				obtained[s.String()] = true
			}
			biff.AssertEqual(obtained, expected)
		})
	}
}

// subsets yields every non empty subset of s.
func subsets(s itemset.Itemset) func(func(itemset.Itemset) bool) {
	return func(yield func(itemset.Itemset) bool) {
		for mask := 1; mask < 1<<len(s); mask++ {
			subset := itemset.Itemset{}
			for i, item := range s {
				if mask&(1<<i) != 0 {
					subset = append(subset, item)
				}
			}
			if !yield(subset) {
				return
			}
		}
	}
}

func TestRun_Parallel(t *testing.T) {

	sets := [][]int64{}
	for i := int64(0); i < 40; i++ {
		sets = append(sets, []int64{i%7 + 1, i%11 + 10, i%13 + 30, i%5 + 50, 60})
	}
	batch := batchOf(sets...)

	sequential, err := Run(context.Background(), batch, options(keys.RepresentationSequence, store.BackendBTree))
	biff.AssertNil(err)

	for _, backend := range store.Backends() {
		biff.Alternative(backend, func(a *biff.A) {
			o := options(keys.RepresentationSequence, backend)
			o.Workers = 4

			parallel, err := Run(context.Background(), batch, o)
			biff.AssertNil(err)
			biff.AssertEqual(parallel.Workers, min(4, runtime.GOMAXPROCS(0)))
			biff.AssertEqual(parallel.Count, sequential.Count)
			biff.AssertEqual(len(parallel.Keys()), sequential.Count)
		})
	}
}

func TestRun_MoreWorkersThanItemsets(t *testing.T) {
	o := DefaultOptions()
	o.Workers = 16
	report, err := Run(context.Background(), batchOf([]int64{1, 2}, []int64{3}), o)
	biff.AssertNil(err)
	biff.AssertEqual(report.Workers, min(2, runtime.GOMAXPROCS(0)))
	biff.AssertEqual(report.Count, 4)
}

func TestRun_WorkersCappedToProcs(t *testing.T) {
	procs := runtime.GOMAXPROCS(0)

	sets := [][]int64{}
	for i := int64(0); i < int64(procs)+8; i++ {
		sets = append(sets, []int64{i + 1, i + 2})
	}

	o := DefaultOptions()
	o.Workers = procs + 8
	report, err := Run(context.Background(), batchOf(sets...), o)
	biff.AssertNil(err)
	biff.AssertEqual(report.Workers, procs)
}

func TestRun_OutOfRange(t *testing.T) {

	biff.Alternative("Bitmask item zero", func(a *biff.A) {
		_, err := Run(context.Background(), batchOf([]int64{1, 2}, []int64{0, 3}), options(keys.RepresentationBitmask, store.BackendMap))

		recordErr := &itemset.RecordError{}
		biff.AssertTrue(errors.As(err, &recordErr))
		biff.AssertEqual(recordErr.Index, 1)

		rangeErr := &itemset.OutOfRangeError{}
		biff.AssertTrue(errors.As(err, &rangeErr))
		biff.AssertEqual(rangeErr.Item, itemset.Item(0))
	})

	biff.Alternative("Bitmask item 129", func(a *biff.A) {
		_, err := Run(context.Background(), batchOf([]int64{128, 129}), options(keys.RepresentationBitmask, store.BackendMap))
		rangeErr := &itemset.OutOfRangeError{}
		biff.AssertTrue(errors.As(err, &rangeErr))
		biff.AssertEqual(rangeErr.Item, itemset.Item(129))
	})

	biff.Alternative("Bitmask full range", func(a *biff.A) {
		report, err := Run(context.Background(), batchOf([]int64{1, 64, 65, 128}), options(keys.RepresentationBitmask, store.BackendMap))
		biff.AssertNil(err)
		biff.AssertEqual(report.Count, 15)
	})

	biff.Alternative("Bit vector fixed width", func(a *biff.A) {
		o := options(keys.RepresentationBitVector, store.BackendMap)
		o.Width = 8
		_, err := Run(context.Background(), batchOf([]int64{1, 8}), o)
		rangeErr := &itemset.OutOfRangeError{}
		biff.AssertTrue(errors.As(err, &rangeErr))
		biff.AssertEqual(rangeErr.Item, itemset.Item(8))
	})
}

func TestRun_InvalidOptions(t *testing.T) {

	biff.Alternative("Representation", func(a *biff.A) {
		_, err := Run(context.Background(), batchOf(), options("trie", store.BackendMap))
		biff.AssertTrue(errors.Is(err, keys.ErrUnknownRepresentation))
	})

	biff.Alternative("Backend", func(a *biff.A) {
		_, err := Run(context.Background(), batchOf(), options(keys.RepresentationSequence, "lsm"))
		biff.AssertTrue(errors.Is(err, store.ErrUnknownBackend))
	})

	biff.Alternative("Hash", func(a *biff.A) {
		o := DefaultOptions()
		o.Hash = "md5"
		_, err := Run(context.Background(), batchOf(), o)
		biff.AssertTrue(errors.Is(err, keys.ErrUnknownHash))
	})
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, batchOf([]int64{1, 2, 3}), DefaultOptions())
	biff.AssertTrue(errors.Is(err, context.Canceled))
}

func TestRun_Digest(t *testing.T) {
	for _, hash := range keys.Hashes() {
		biff.Alternative(hash, func(a *biff.A) {
			o := options(keys.RepresentationDigest, store.BackendSwiss)
			o.Hash = hash

			report, err := Run(context.Background(), batchOf([]int64{1, 2, 3}, []int64{4, 5, 6}), o)
			biff.AssertNil(err)
			biff.AssertTrue(report.Lossy)
			biff.AssertEqual(report.Hash, hash)
			for _, k := range report.Keys() {
				_, isDigest := k.(uint64)
				biff.AssertTrue(isDigest)
			}
		})
	}
}

func TestEngine_RestoresWorking(t *testing.T) {
	w, err := keys.Sequence{}.Working(itemset.MustNew(3, 1, 2))
	biff.AssertNil(err)
	before := w.Key()

	e := NewEngine[string](store.NewMap[string](0))
	biff.AssertNil(e.Expand(context.Background(), w))

	biff.AssertEqual(w.Key(), before)
	biff.AssertEqual(w.Len(), 3)
	biff.AssertEqual(e.Store().Len(), 7)
}

// cancelAfter cancels its context once n keys have been inserted.
type cancelAfter struct {
	store.Store[string]
	n      int
	cancel context.CancelFunc
}

func (s *cancelAfter) Insert(key string) bool {
	if s.Len() == s.n {
		s.cancel()
	}
	return s.Store.Insert(key)
}

func TestEngine_Canceled(t *testing.T) {

	values := []int64{}
	for i := int64(1); i <= 20; i++ {
		values = append(values, i)
	}

	biff.Alternative("Canceled halfway", func(a *biff.A) {
		w, err := keys.Sequence{}.Working(itemset.MustNew(values...))
		biff.AssertNil(err)
		before := w.Key()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s := &cancelAfter{Store: store.NewMap[string](0), n: 100, cancel: cancel}

		e := NewEngine[string](s)
		err = e.Expand(ctx, w)
		biff.AssertTrue(errors.Is(err, context.Canceled))

		// the walk stops within one check interval
		biff.AssertTrue(s.Len() < 100+2*checkEvery)
		biff.AssertEqual(w.Key(), before)
		biff.AssertEqual(w.Len(), 20)
	})

	biff.Alternative("Canceled before", func(a *biff.A) {
		w, err := keys.Sequence{}.Working(itemset.MustNew(1, 2, 3))
		biff.AssertNil(err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := store.NewMap[string](0)
		err = NewEngine[string](s).Expand(ctx, w)
		biff.AssertTrue(errors.Is(err, context.Canceled))
		biff.AssertEqual(s.Len(), 0)
	})
}
