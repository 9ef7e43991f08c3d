// Package keys implements the canonical key representations of an itemset.
//
// A Strategy turns an itemset into a mutable Working itemset. The expansion
// engine removes and restores elements of the Working itemset in place and
// asks for its Key after every edit, so equal contents must always produce
// equal keys whatever the removal order was.
package keys

import (
	"errors"
	"fmt"

	"github.com/fulldump/itemclosure/itemset"
)

const (
	RepresentationSequence  = "sequence"
	RepresentationBitmask   = "bitmask"
	RepresentationBitVector = "bitvector"
	RepresentationDigest    = "digest"
)

var ErrUnknownRepresentation = errors.New("unknown representation")

// Working is an itemset being expanded.
type Working[K comparable] interface {
	// Len is the current number of elements.
	Len() int
	// Slots is the number of positions Remove accepts. It does not change
	// while removals are balanced by restores.
	Slots() int
	// Remove takes out the element at slot. It returns false, and changes
	// nothing, when the slot holds no element.
	Remove(slot int) (itemset.Item, bool)
	// Restore undoes Remove(slot).
	Restore(slot int, item itemset.Item)
	// Key encodes the current content.
	Key() K
}

// Strategy is one key representation.
type Strategy[K comparable] interface {
	Name() string
	// Lossy is true when distinct contents may share a key.
	Lossy() bool
	Working(items itemset.Itemset) (Working[K], error)
	// Decode recovers the content of a key, false for lossy keys.
	Decode(key K) (itemset.Itemset, bool)
	// Less is a total order over keys, used by ordered stores.
	Less(a, b K) bool
	// AppendBytes appends a byte view of key to dst, used to hash keys with
	// a custom hash function.
	AppendBytes(dst []byte, key K) []byte
}

func Representations() []string {
	return []string{
		RepresentationSequence,
		RepresentationBitmask,
		RepresentationBitVector,
		RepresentationDigest,
	}
}

func ValidateRepresentation(name string) error {
	for _, r := range Representations() {
		if r == name {
			return nil
		}
	}
	return fmt.Errorf("%w '%s'", ErrUnknownRepresentation, name)
}
