/*
Package bloom implements a libbloom2 compatible bloom filter.

A filter answers "definitely not present" or "possibly present" for opaque
byte-string elements. It is sized once from the expected number of entries
and a target false positive rate:

	bitsPerElement = -ln(error) / ln(2)^2
	bits           = floor(entries * bitsPerElement)
	bytes          = ceil(bits / 8)
	hashes         = ceil(ln(2) * bitsPerElement)

Probe i of the k probes is placed at (a + b*i) mod bits where
a = hash(0x9747b28c, element) and b = hash(a, element). Bit p lives in byte
p>>3 under mask 1<<(p&7).

# Lifecycle

A zero Filter is not ready. Init, Load or Decode make it ready; Release
drops the bit array and makes it not ready again. Every operation on a filter
that is not ready returns ErrNotInitialized.

# File format

	+-----------------------+  "libbloom2"
	| magic (9 bytes)       |
	+-----------------------+  u16 LE, always 64
	| metadata size         |
	+-----------------------+  see persist.go for the field offsets
	| metadata (64 bytes)   |
	+-----------------------+
	| bit array (bytes)     |
	+-----------------------+

# Concurrency

A Filter does no locking. Calls against one instance must be serialised by
the caller, for example by wrapping it in a Locked. Distinct instances share
nothing.
*/
package bloom
