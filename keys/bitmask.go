package keys

import (
	"encoding/binary"
	"math/bits"

	"github.com/fulldump/itemclosure/itemset"
)

// MaskWidth is the number of items a Mask holds, items 1..MaskWidth.
const MaskWidth = 128

// Mask is a 128 bit set, item i is stored at bit i-1.
type Mask struct {
	Hi uint64
	Lo uint64
}

func (m Mask) Has(bit uint) bool {
	if bit < 64 {
		return m.Lo&(1<<bit) != 0
	}
	return m.Hi&(1<<(bit-64)) != 0
}

func (m Mask) With(bit uint) Mask {
	if bit < 64 {
		m.Lo |= 1 << bit
	} else {
		m.Hi |= 1 << (bit - 64)
	}
	return m
}

func (m Mask) Without(bit uint) Mask {
	if bit < 64 {
		m.Lo &^= 1 << bit
	} else {
		m.Hi &^= 1 << (bit - 64)
	}
	return m
}

func (m Mask) Count() int {
	return bits.OnesCount64(m.Hi) + bits.OnesCount64(m.Lo)
}

// Bitmask keys an itemset by a fixed 128 bit mask. Items outside 1..128 are
// rejected.
type Bitmask struct{}

func (Bitmask) Name() string { return RepresentationBitmask }

func (Bitmask) Lossy() bool { return false }

func (Bitmask) Working(items itemset.Itemset) (Working[Mask], error) {
	m, err := MaskOf(items)
	if err != nil {
		return nil, err
	}
	return &bitmaskWorking{mask: m, n: len(items)}, nil
}

// MaskOf encodes items into a Mask.
func MaskOf(items itemset.Itemset) (Mask, error) {
	m := Mask{}
	for _, item := range items {
		if item < 1 || item > MaskWidth {
			return Mask{}, &itemset.OutOfRangeError{
				Item:           item,
				Min:            1,
				Max:            MaskWidth,
				Representation: RepresentationBitmask,
			}
		}
		m = m.With(uint(item - 1))
	}
	return m, nil
}

func (Bitmask) Decode(key Mask) (itemset.Itemset, bool) {
	items := make(itemset.Itemset, 0, key.Count())
	for lo := key.Lo; lo != 0; lo &= lo - 1 {
		items = append(items, itemset.Item(bits.TrailingZeros64(lo)+1))
	}
	for hi := key.Hi; hi != 0; hi &= hi - 1 {
		items = append(items, itemset.Item(bits.TrailingZeros64(hi)+65))
	}
	return items, true
}

func (Bitmask) Less(a, b Mask) bool {
	if a.Hi != b.Hi {
		return a.Hi < b.Hi
	}
	return a.Lo < b.Lo
}

func (Bitmask) AppendBytes(dst []byte, key Mask) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, key.Lo)
	return binary.LittleEndian.AppendUint64(dst, key.Hi)
}

type bitmaskWorking struct {
	mask Mask
	n    int
}

func (w *bitmaskWorking) Len() int { return w.n }

func (w *bitmaskWorking) Slots() int { return MaskWidth }

func (w *bitmaskWorking) Remove(slot int) (itemset.Item, bool) {
	if slot < 0 || slot >= MaskWidth || !w.mask.Has(uint(slot)) {
		return 0, false
	}
	w.mask = w.mask.Without(uint(slot))
	w.n--
	return itemset.Item(slot + 1), true
}

func (w *bitmaskWorking) Restore(slot int, item itemset.Item) {
	w.mask = w.mask.With(uint(slot))
	w.n++
}

func (w *bitmaskWorking) Key() Mask {
	return w.mask
}
