package hash

import "encoding/binary"

const (
	murmur2M = 0x5bd1e995
	murmur2R = 24
)

// Murmur2 is Austin Appleby's 32-bit MurmurHash2, reading 4-byte blocks
// little endian. It is the hash of the libbloom2 file format.
func Murmur2(seed uint32, data []byte) uint32 {
	h := seed ^ uint32(len(data))

	cur := 0
	for cur+4 <= len(data) {
		k := binary.LittleEndian.Uint32(data[cur:])
		k *= murmur2M
		k ^= k >> murmur2R
		k *= murmur2M

		h *= murmur2M
		h ^= k
		cur += 4
	}

	switch len(data) - cur {
	case 3:
		h ^= uint32(data[cur+2]) << 16
		fallthrough
	case 2:
		h ^= uint32(data[cur+1]) << 8
		fallthrough
	case 1:
		h ^= uint32(data[cur])
		h *= murmur2M
	}

	h ^= h >> 13
	h *= murmur2M
	h ^= h >> 15
	return h
}
