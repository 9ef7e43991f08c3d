package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fulldump/itemclosure/expander"
	"github.com/fulldump/itemclosure/itemset"
	"github.com/fulldump/itemclosure/keys"
	"github.com/fulldump/itemclosure/logger"
	"github.com/fulldump/itemclosure/store"
)

// DefaultMaxItemset is the largest itemset a request may carry when no other
// limit is configured. An itemset of n items has 2^n - 1 subsets.
const DefaultMaxItemset = 20

type Service struct {
	logger     *logger.Logger
	defaults   expander.Options
	maxItemset int
}

// NewService returns a service that expands requests with defaults and
// rejects itemsets larger than maxItemset, DefaultMaxItemset when it is not
// positive.
func NewService(l *logger.Logger, defaults expander.Options, maxItemset int) *Service {
	if l == nil {
		l = logger.Noop()
	}
	if maxItemset <= 0 {
		maxItemset = DefaultMaxItemset
	}
	return &Service{
		logger:     l,
		defaults:   defaults,
		maxItemset: maxItemset,
	}
}

type ExpandRequest struct {
	Representation string                 `json:"representation"`
	Hash           string                 `json:"hash"`
	Backend        string                 `json:"backend"`
	Width          uint                   `json:"width"`
	Workers        int                    `json:"workers"`
	Filter         map[string]interface{} `json:"filter"`
	IncludeKeys    bool                   `json:"include_keys"`

	// Sets is the input document: an array of records with a `set` member.
	Sets json.RawMessage `json:"sets"`
}

type ExpandResponse struct {
	ID             string `json:"id"`
	Count          int    `json:"count"`
	Calls          int    `json:"calls"`
	Itemsets       int    `json:"itemsets"`
	Representation string `json:"representation"`
	Backend        string `json:"backend"`
	Hash           string `json:"hash"`
	Lossy          bool   `json:"lossy"`
	Keys           []any  `json:"keys,omitempty"`
}

func (s *Service) options(req *ExpandRequest) expander.Options {
	o := s.defaults
	if req.Representation != "" {
		o.Representation = req.Representation
	}
	if req.Hash != "" {
		o.Hash = req.Hash
	}
	if req.Backend != "" {
		o.Backend = req.Backend
	}
	if req.Width != 0 {
		o.Width = req.Width
	}
	if req.Workers != 0 {
		o.Workers = req.Workers
	}
	return o
}

func (s *Service) Expand(ctx context.Context, req *ExpandRequest) (*ExpandResponse, error) {

	id := uuid.NewString()
	l := s.logger.WithRequest(id)

	o := s.options(req)
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrorInvalidRequest, err)
	}

	sets := req.Sets
	if len(bytes.TrimSpace(sets)) == 0 {
		return nil, fmt.Errorf("%w: missing sets", ErrorInvalidRequest)
	}

	batch, err := itemset.Load(bytes.NewReader(sets), itemset.LoadOptions{
		Filter: req.Filter,
	})
	l.LogLoad(ctx, "request", batchLen(batch), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrorInvalidRequest, err)
	}

	for i, items := range batch.Itemsets {
		if items.Len() > s.maxItemset {
			return nil, fmt.Errorf("%w: record %d has %d items, at most %d are accepted",
				ErrorInvalidRequest, i, items.Len(), s.maxItemset)
		}
	}

	report, err := expander.Run(ctx, batch, o)
	if err != nil {
		l.LogRun(ctx, logger.Run{Representation: o.Representation, Backend: o.Backend}, err)
		rangeErr := &itemset.OutOfRangeError{}
		if errors.As(err, &rangeErr) {
			return nil, fmt.Errorf("%w: %w", ErrorInvalidRequest, err)
		}
		return nil, err
	}
	l.LogRun(ctx, logger.Run{
		Representation: report.Representation,
		Backend:        report.Backend,
		Hash:           report.Hash,
		Lossy:          report.Lossy,
		Itemsets:       report.Itemsets,
		Items:          report.Items,
		Count:          report.Count,
		Calls:          report.Calls,
		Workers:        report.Workers,
		Elapsed:        report.Elapsed,
	}, nil)

	response := &ExpandResponse{
		ID:             id,
		Count:          report.Count,
		Calls:          report.Calls,
		Itemsets:       report.Itemsets,
		Representation: report.Representation,
		Backend:        report.Backend,
		Hash:           report.Hash,
		Lossy:          report.Lossy,
	}
	if req.IncludeKeys {
		response.Keys = report.Keys()
	}

	return response, nil
}

func batchLen(b *itemset.Batch) int {
	if b == nil {
		return 0
	}
	return b.Len()
}

type Catalog struct {
	Representations []string `json:"representations"`
	Hashes          []string `json:"hashes"`
	Backends        []string `json:"backends"`
	Defaults        Defaults `json:"defaults"`
}

type Defaults struct {
	Representation string `json:"representation"`
	Hash           string `json:"hash"`
	Backend        string `json:"backend"`
	Workers        int    `json:"workers"`
	MaxItemset     int    `json:"max_itemset"`
}

func (s *Service) Catalog() *Catalog {
	return &Catalog{
		Representations: keys.Representations(),
		Hashes:          keys.Hashes(),
		Backends:        store.Backends(),
		Defaults: Defaults{
			Representation: s.defaults.Representation,
			Hash:           s.defaults.Hash,
			Backend:        s.defaults.Backend,
			Workers:        s.defaults.Workers,
			MaxItemset:     s.maxItemset,
		},
	}
}
