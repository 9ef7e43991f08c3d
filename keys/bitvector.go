package keys

import (
	"encoding/binary"
	"errors"

	"github.com/bits-and-blooms/bitset"

	"github.com/fulldump/itemclosure/itemset"
)

// BitVector keys an itemset by a bit vector of a fixed width, item i is bit
// i. The width is shared by the whole run: either configured or computed from
// the batch with WidthOf.
type BitVector struct {
	width uint
}

func NewBitVector(width uint) (*BitVector, error) {
	if width == 0 {
		return nil, errors.New("bit vector width must be positive")
	}
	return &BitVector{width: width}, nil
}

// WidthOf is 1 + the largest item of the batch, at least 1.
func WidthOf(batch *itemset.Batch) uint {
	maxItem, ok := batch.MaxItem()
	if !ok {
		return 1
	}
	return uint(maxItem) + 1
}

func (v *BitVector) Width() uint { return v.width }

func (v *BitVector) Name() string { return RepresentationBitVector }

func (v *BitVector) Lossy() bool { return false }

func (v *BitVector) Working(items itemset.Itemset) (Working[string], error) {
	bs := bitset.New(v.width)
	for _, item := range items {
		if uint(item) >= v.width {
			return nil, &itemset.OutOfRangeError{
				Item:           item,
				Min:            0,
				Max:            itemset.Item(v.width - 1),
				Representation: RepresentationBitVector,
			}
		}
		bs.Set(uint(item))
	}
	return &bitvectorWorking{
		bs:    bs,
		width: v.width,
		n:     len(items),
	}, nil
}

func (v *BitVector) Decode(key string) (itemset.Itemset, bool) {
	if len(key)%8 != 0 {
		return nil, false
	}
	words := make([]uint64, 0, len(key)/8)
	for i := 0; i < len(key); i += 8 {
		words = append(words, binary.LittleEndian.Uint64([]byte(key[i:i+8])))
	}
	bs := bitset.From(words)
	items := make(itemset.Itemset, 0, bs.Count())
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		items = append(items, itemset.Item(i))
	}
	return items, true
}

func (v *BitVector) Less(a, b string) bool { return a < b }

func (v *BitVector) AppendBytes(dst []byte, key string) []byte {
	return append(dst, key...)
}

type bitvectorWorking struct {
	bs    *bitset.BitSet
	width uint
	n     int
	buf   []byte
}

func (w *bitvectorWorking) Len() int { return w.n }

func (w *bitvectorWorking) Slots() int { return int(w.width) }

func (w *bitvectorWorking) Remove(slot int) (itemset.Item, bool) {
	if slot < 0 || uint(slot) >= w.width || !w.bs.Test(uint(slot)) {
		return 0, false
	}
	w.bs.Clear(uint(slot))
	w.n--
	return itemset.Item(slot), true
}

func (w *bitvectorWorking) Restore(slot int, item itemset.Item) {
	w.bs.Set(uint(slot))
	w.n++
}

func (w *bitvectorWorking) Key() string {
	w.buf = w.buf[:0]
	for _, word := range w.bs.Bytes() {
		w.buf = binary.LittleEndian.AppendUint64(w.buf, word)
	}
	return string(w.buf)
}
