package keys

import (
	"encoding/binary"

	"github.com/fulldump/itemclosure/itemset"
)

// Digest keys an itemset by a 64 bit hash of its sequence bytes. It is lossy:
// two different contents colliding on the same hash are counted once. This is
// the fast, memory light mode and is reported as approximate.
type Digest struct {
	Hash Hash
}

func NewDigest(h Hash) *Digest {
	return &Digest{Hash: h}
}

func (d *Digest) Name() string { return RepresentationDigest }

func (d *Digest) Lossy() bool { return true }

func (d *Digest) Working(items itemset.Itemset) (Working[uint64], error) {
	return &digestWorking{
		sequence: newSequence(items),
		sum:      d.Hash.Func(),
	}, nil
}

func (d *Digest) Decode(key uint64) (itemset.Itemset, bool) {
	return nil, false
}

func (d *Digest) Less(a, b uint64) bool { return a < b }

func (d *Digest) AppendBytes(dst []byte, key uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, key)
}

type digestWorking struct {
	sequence
	sum func([]byte) uint64
}

func (w *digestWorking) Key() uint64 {
	return w.sum(w.bytes())
}
