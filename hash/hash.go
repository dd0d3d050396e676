// Package hash provides the seeded 32-bit hash functions used to place
// elements in a bloom filter.
package hash

// Func hashes data under seed. Implementations must be deterministic: the
// bit positions of a persisted filter depend on it.
type Func func(seed uint32, data []byte) uint32
