package bloom

import (
	"github.com/hust-tianbo/go_bloom/cache/bitmap/bitmap_interface"
	"github.com/hust-tianbo/go_bloom/hash"
)

// seed of the first hash, the second hash is seeded with the first result
const hashSeed = 0x9747b28c

func hashPair(fn hash.Func, elem []byte) (a, b uint32) {
	a = fn(hashSeed, elem)
	b = fn(a, elem)
	return a, b
}

// probe returns the bit offset of probe i. The sum is done in 64 bits so
// placements match the persisted format.
func probe(a, b uint32, i, nbits uint64) uint64 {
	return (uint64(a) + uint64(b)*i) % nbits
}

// Positions returns the hashes bit offsets, each in [0, nbits), that elem
// maps to.
func Positions(fn hash.Func, elem []byte, hashes uint8, nbits uint64) []uint64 {
	a, b := hashPair(fn, elem)
	out := make([]uint64, hashes)
	for i := range out {
		out[i] = probe(a, b, uint64(i), nbits)
	}
	return out
}

// testAndMaybeSetBit reports whether bit was set before the call, setting it
// when it was not and set is true. Not safe for concurrent use.
func testAndMaybeSetBit(bm bitmap_interface.Bitmap, bit uint64, set bool) bool {
	return bm.TestAndSet(uint(bit), set)
}
