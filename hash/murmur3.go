package hash

import "github.com/spaolacci/murmur3"

// Murmur3 is the x86 32-bit MurmurHash3. Filters built with it are not
// readable by libbloom.
func Murmur3(seed uint32, data []byte) uint32 {
	return murmur3.Sum32WithSeed(data, seed)
}
