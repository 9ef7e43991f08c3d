package keys

import (
	"encoding/binary"
	"slices"

	"github.com/fulldump/itemclosure/itemset"
)

// Sequence keys an itemset by its ascending item sequence, four big endian
// bytes per item, so string order is the lexicographic order of the items.
type Sequence struct{}

func (Sequence) Name() string { return RepresentationSequence }

func (Sequence) Lossy() bool { return false }

func (Sequence) Working(items itemset.Itemset) (Working[string], error) {
	return &sequenceWorking{
		sequence: newSequence(items),
	}, nil
}

func (Sequence) Decode(key string) (itemset.Itemset, bool) {
	if len(key)%4 != 0 {
		return nil, false
	}
	items := make(itemset.Itemset, 0, len(key)/4)
	for i := 0; i < len(key); i += 4 {
		items = append(items, itemset.Item(binary.BigEndian.Uint32([]byte(key[i:i+4]))))
	}
	return items, true
}

func (Sequence) Less(a, b string) bool { return a < b }

func (Sequence) AppendBytes(dst []byte, key string) []byte {
	return append(dst, key...)
}

// sequence is the mutable item slice shared by Sequence and Digest.
type sequence struct {
	items itemset.Itemset
	buf   []byte
}

func newSequence(items itemset.Itemset) sequence {
	// one spare slot so that Restore never reallocates
	s := make(itemset.Itemset, len(items), len(items)+1)
	copy(s, items)
	return sequence{
		items: s,
		buf:   make([]byte, 0, 4*len(items)),
	}
}

func (s *sequence) Len() int { return len(s.items) }

func (s *sequence) Slots() int { return len(s.items) }

func (s *sequence) Remove(slot int) (itemset.Item, bool) {
	if slot < 0 || slot >= len(s.items) {
		return 0, false
	}
	item := s.items[slot]
	s.items = slices.Delete(s.items, slot, slot+1)
	return item, true
}

func (s *sequence) Restore(slot int, item itemset.Item) {
	s.items = slices.Insert(s.items, slot, item)
}

func (s *sequence) bytes() []byte {
	s.buf = s.buf[:0]
	for _, item := range s.items {
		s.buf = binary.BigEndian.AppendUint32(s.buf, uint32(item))
	}
	return s.buf
}

type sequenceWorking struct {
	sequence
}

func (w *sequenceWorking) Key() string {
	return string(w.bytes())
}
