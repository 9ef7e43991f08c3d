package itemset

import (
	"fmt"
	"slices"
	"strings"
)

// MaxItem is the largest identifier accepted on input. Representations may
// narrow it further (see OutOfRangeError).
const MaxItem = 1<<16 - 1

// Item is a small non-negative item identifier.
type Item uint32

// Itemset is a set of items kept in ascending order.
type Itemset []Item

// New builds a normalized itemset from raw values. Duplicated values are
// rejected: a mined itemset never repeats an item.
func New(values ...int64) (Itemset, error) {
	s := make(Itemset, 0, len(values))
	for _, v := range values {
		if v < 0 {
			return nil, fmt.Errorf("%w: %d", ErrNegativeItem, v)
		}
		if v > MaxItem {
			return nil, fmt.Errorf("%w: %d > %d", ErrItemTooLarge, v, MaxItem)
		}
		s = append(s, Item(v))
	}
	slices.Sort(s)
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateItem, s[i])
		}
	}
	return s, nil
}

// MustNew is New for literals in tests and examples.
func MustNew(values ...int64) Itemset {
	s, err := New(values...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Itemset) Len() int {
	return len(s)
}

func (s Itemset) Max() (Item, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

func (s Itemset) Contains(item Item) bool {
	_, found := slices.BinarySearch(s, item)
	return found
}

func (s Itemset) Clone() Itemset {
	return slices.Clone(s)
}

// SubsetOf reports whether every item of s is in other.
func (s Itemset) SubsetOf(other Itemset) bool {
	for _, item := range s {
		if !other.Contains(item) {
			return false
		}
	}
	return true
}

// Ints returns the items as plain integers, handy for JSON shapes.
func (s Itemset) Ints() []uint32 {
	out := make([]uint32, len(s))
	for i, item := range s {
		out[i] = uint32(item)
	}
	return out
}

func (s Itemset) String() string {
	parts := make([]string, len(s))
	for i, item := range s {
		parts[i] = fmt.Sprint(item)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
