package itemset

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Batch is the loaded input: itemsets in source order and the universe of
// items they use.
type Batch struct {
	Itemsets []Itemset
	Universe *roaring.Bitmap
}

func NewBatch(itemsets ...Itemset) *Batch {
	b := &Batch{
		Itemsets: make([]Itemset, 0, len(itemsets)),
		Universe: roaring.New(),
	}
	for _, s := range itemsets {
		b.Add(s)
	}
	return b
}

func (b *Batch) Add(s Itemset) {
	b.Itemsets = append(b.Itemsets, s)
	for _, item := range s {
		b.Universe.Add(uint32(item))
	}
}

func (b *Batch) Len() int {
	return len(b.Itemsets)
}

// Items is the number of distinct items in the batch.
func (b *Batch) Items() int {
	return int(b.Universe.GetCardinality())
}

// MaxItem returns the largest item of the batch, false when the batch holds
// no item at all.
func (b *Batch) MaxItem() (Item, bool) {
	if b.Universe.IsEmpty() {
		return 0, false
	}
	return Item(b.Universe.Maximum()), true
}

// Largest returns the cardinality of the biggest itemset, which bounds the
// recursion depth of an expansion.
func (b *Batch) Largest() int {
	largest := 0
	for _, s := range b.Itemsets {
		largest = max(largest, len(s))
	}
	return largest
}
