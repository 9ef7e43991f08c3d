package keys

import (
	"errors"
	"fmt"
	"hash/fnv"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hash names a 64 bit hash function over bytes.
type Hash string

const (
	HashFNV     Hash = "fnv"
	HashXX      Hash = "xxhash"
	HashMapHash Hash = "maphash"
)

var ErrUnknownHash = errors.New("unknown hash")

var seed = maphash.MakeSeed()

func Hashes() []string {
	return []string{string(HashFNV), string(HashXX), string(HashMapHash)}
}

func ParseHash(name string) (Hash, error) {
	switch h := Hash(name); h {
	case HashFNV, HashXX, HashMapHash:
		return h, nil
	}
	return "", fmt.Errorf("%w '%s'", ErrUnknownHash, name)
}

// Func returns a hash function. Functions returned for HashFNV carry state
// and must not be shared between goroutines.
func (h Hash) Func() func([]byte) uint64 {
	switch h {
	case HashXX:
		return xxhash.Sum64
	case HashMapHash:
		return func(b []byte) uint64 {
			return maphash.Bytes(seed, b)
		}
	default:
		f := fnv.New64a()
		return func(b []byte) uint64 {
			f.Reset()
			f.Write(b)
			return f.Sum64()
		}
	}
}
