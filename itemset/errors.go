package itemset

import (
	"errors"
	"fmt"
)

var (
	ErrNotArray      = errors.New("input must be a JSON array of records")
	ErrMissingSet    = errors.New("record has no `set` field")
	ErrNegativeItem  = errors.New("negative item")
	ErrItemTooLarge  = errors.New("item too large")
	ErrDuplicateItem = errors.New("duplicated item")
	ErrTrailingData  = errors.New("unexpected data after the input array")
)

// RecordError locates a problem in the input batch.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Err.Error())
}

func (e *RecordError) Unwrap() error { return e.Err }

// OutOfRangeError is returned when an item does not fit the fixed width of a
// key representation. Items are never truncated or wrapped.
type OutOfRangeError struct {
	Item           Item
	Min            Item
	Max            Item
	Representation string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("item %d out of range [%d, %d] for %s representation", e.Item, e.Min, e.Max, e.Representation)
}
