package bloom

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"
)

const (
	// MinEntries is the smallest capacity a filter can be sized for.
	MinEntries = 1000

	ln2        = 0.693147180559945
	ln2Squared = 0.480453013918201

	// mantissa width of the extended type the original sizing used
	extendedPrec = 64
)

func init() {
	// bit offsets are passed to the storage layer as uint
	if bits.UintSize < 64 {
		panic(fmt.Sprintf("bloom: requires a 64-bit platform, uint is %d bits", bits.UintSize))
	}
}

// Params is the sizing of a filter.
type Params struct {
	Entries        uint32
	ErrorRate      float64
	Bits           uint64
	Bytes          uint64
	Hashes         uint8
	BitsPerElement float64
}

// Derive computes the sizing for entries expected elements at errorRate.
//
// entries must be at least MinEntries and errorRate must lie in (0, 1). A rate
// so small that more than 255 hash functions would be needed is rejected, as
// is one so close to 1 that no bits would be allocated.
func Derive(entries uint32, errorRate float64) (Params, error) {
	if entries < MinEntries {
		return Params{}, fmt.Errorf("%w: entries %d below %d", ErrInvalidParameters, entries, MinEntries)
	}
	if !(errorRate > 0 && errorRate < 1) {
		return Params{}, fmt.Errorf("%w: error rate %v outside (0,1)", ErrInvalidParameters, errorRate)
	}

	p := Params{Entries: entries, ErrorRate: errorRate}
	p.BitsPerElement = -math.Log(errorRate) / ln2Squared

	all := new(big.Float).SetPrec(extendedPrec).SetUint64(uint64(entries))
	all.Mul(all, big.NewFloat(p.BitsPerElement))
	p.Bits, _ = all.Uint64()
	if p.Bits == 0 {
		return Params{}, fmt.Errorf("%w: error rate %v leaves no bits", ErrInvalidParameters, errorRate)
	}

	p.Bytes = p.Bits / 8
	if p.Bits%8 != 0 {
		p.Bytes++
	}

	hashes := math.Ceil(ln2 * p.BitsPerElement)
	if hashes > math.MaxUint8 {
		return Params{}, fmt.Errorf("%w: error rate %v needs %.0f hash functions", ErrInvalidParameters, errorRate, hashes)
	}
	p.Hashes = uint8(hashes)

	return p, nil
}
