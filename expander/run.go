package expander

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fulldump/itemclosure/itemset"
	"github.com/fulldump/itemclosure/keys"
	"github.com/fulldump/itemclosure/output"
	"github.com/fulldump/itemclosure/store"
)

type Options struct {
	Representation string
	Hash           string
	Backend        string

	// Width of the bit vector representation, 0 to use 1 + max item of the
	// batch.
	Width uint

	Workers int
}

func DefaultOptions() Options {
	return Options{
		Representation: keys.RepresentationSequence,
		Hash:           string(keys.HashFNV),
		Backend:        store.BackendMap,
		Workers:        1,
	}
}

func (o Options) Validate() error {
	if err := keys.ValidateRepresentation(o.Representation); err != nil {
		return err
	}
	if _, err := keys.ParseHash(o.Hash); err != nil {
		return err
	}
	if err := store.ValidateBackend(o.Backend); err != nil {
		return err
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	return nil
}

// Report is the outcome of one run.
type Report struct {
	Representation string        `json:"representation"`
	Backend        string        `json:"backend"`
	Hash           string        `json:"hash"`
	Lossy          bool          `json:"lossy"`
	Itemsets       int           `json:"itemsets"`
	Items          int           `json:"items"`
	Count          int           `json:"count"`
	Calls          int           `json:"calls"`
	Workers        int           `json:"workers"`
	Elapsed        time.Duration `json:"elapsed"`

	write   func(w io.Writer, pretty bool) error
	collect func() []any
}

// WriteJSON serializes the expanded store.
func (r *Report) WriteJSON(w io.Writer, pretty bool) error {
	return r.write(w, pretty)
}

// Keys returns the expanded store as JSON ready values.
func (r *Report) Keys() []any {
	return r.collect()
}

// Run expands batch with the representation, hash and backend named in
// options.
func Run(ctx context.Context, batch *itemset.Batch, options Options) (*Report, error) {

	if err := options.Validate(); err != nil {
		return nil, err
	}
	hash, _ := keys.ParseHash(options.Hash)

	switch options.Representation {
	case keys.RepresentationSequence:
		return run[string](ctx, batch, keys.Sequence{}, hash, options)
	case keys.RepresentationBitmask:
		return run[keys.Mask](ctx, batch, keys.Bitmask{}, hash, options)
	case keys.RepresentationBitVector:
		width := options.Width
		if width == 0 {
			width = keys.WidthOf(batch)
		}
		v, err := keys.NewBitVector(width)
		if err != nil {
			return nil, err
		}
		return run[string](ctx, batch, v, hash, options)
	case keys.RepresentationDigest:
		return run[uint64](ctx, batch, keys.NewDigest(hash), hash, options)
	}

	return nil, fmt.Errorf("%w '%s'", keys.ErrUnknownRepresentation, options.Representation)
}

func run[K comparable](ctx context.Context, batch *itemset.Batch, strategy keys.Strategy[K], hash keys.Hash, options Options) (*Report, error) {

	t0 := time.Now()

	d := &Driver[K]{
		Strategy: strategy,
		NewStore: func() (store.Store[K], error) {
			sum := hash.Func()
			buf := []byte{}
			return store.New[K](options.Backend, store.Options[K]{
				Less: strategy.Less,
				Hash: func(key K) uint64 {
					buf = strategy.AppendBytes(buf[:0], key)
					return sum(buf)
				},
			})
		},
		Workers: options.Workers,
		Shared:  store.Concurrent(options.Backend),
	}

	result, err := d.Run(ctx, batch)
	if err != nil {
		return nil, err
	}

	s := result.Store
	return &Report{
		Representation: strategy.Name(),
		Backend:        options.Backend,
		Hash:           string(hash),
		Lossy:          strategy.Lossy(),
		Itemsets:       batch.Len(),
		Items:          batch.Items(),
		Count:          s.Len(),
		Calls:          result.Calls,
		Workers:        result.Workers,
		Elapsed:        time.Since(t0),
		write: func(w io.Writer, pretty bool) error {
			return output.Write(w, s, strategy, pretty)
		},
		collect: func() []any {
			return output.Collect(s, strategy)
		},
	}, nil
}
