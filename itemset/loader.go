package itemset

import (
	"fmt"
	"io"

	"github.com/SierraSoftworks/connor"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Record is one element of the input array. Only `set` is interpreted; any
// other member is kept available to the record filter.
type Record struct {
	Set *[]int64 `json:"set"`
}

type LoadOptions struct {
	// Filter is a connor condition evaluated against every record, records
	// not matching are skipped. Empty means keep everything.
	Filter map[string]interface{}
}

// Load decodes a JSON array of records into a Batch. It stops at the first
// malformed record: a batch is never partially loaded.
func Load(r io.Reader, options LoadOptions) (*Batch, error) {

	d := jsontext.NewDecoder(r)

	t, err := d.ReadToken()
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if t.Kind() != '[' {
		return nil, ErrNotArray
	}

	hasFilter := len(options.Filter) > 0

	batch := NewBatch()
	for i := 0; d.PeekKind() != ']'; i++ {
		value, err := d.ReadValue()
		if err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}

		if hasFilter {
			match, err := matchRecord(options.Filter, value)
			if err != nil {
				return nil, &RecordError{Index: i, Err: err}
			}
			if !match {
				continue
			}
		}

		s, err := ParseRecord(value)
		if err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		batch.Add(s)
	}

	if _, err := d.ReadToken(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	// nothing but whitespace may follow the array
	if _, err := d.ReadToken(); err != io.EOF {
		if err == nil {
			err = ErrTrailingData
		}
		return nil, fmt.Errorf("read input: %w", err)
	}

	return batch, nil
}

// ParseRecord decodes one raw record into a normalized Itemset.
func ParseRecord(value []byte) (Itemset, error) {
	record := &Record{}
	if err := json.Unmarshal(value, record); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if record.Set == nil {
		return nil, ErrMissingSet
	}
	return New(*record.Set...)
}

// FromRecords builds a batch from already decoded records, the shape the API
// receives.
func FromRecords(records []Record) (*Batch, error) {
	batch := NewBatch()
	for i, record := range records {
		if record.Set == nil {
			return nil, &RecordError{Index: i, Err: ErrMissingSet}
		}
		s, err := New(*record.Set...)
		if err != nil {
			return nil, &RecordError{Index: i, Err: err}
		}
		batch.Add(s)
	}
	return batch, nil
}

func matchRecord(filter map[string]interface{}, value []byte) (bool, error) {
	data := map[string]interface{}{}
	if err := json.Unmarshal(value, &data); err != nil {
		return false, fmt.Errorf("unmarshal: %w", err)
	}
	match, err := connor.Match(filter, data)
	if err != nil {
		return false, fmt.Errorf("match: %w", err)
	}
	return match, nil
}

// ParseFilter decodes a textual connor condition, as given on the command line.
func ParseFilter(s string) (map[string]interface{}, error) {
	if s == "" {
		return nil, nil
	}
	filter := map[string]interface{}{}
	if err := json.Unmarshal([]byte(s), &filter); err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	return filter, nil
}
