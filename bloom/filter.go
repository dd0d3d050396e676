package bloom

import (
	"fmt"
	"strings"

	"github.com/hust-tianbo/go_bloom/cache/bitmap/bitmap_interface"
	"github.com/hust-tianbo/go_bloom/cache/bitmap/willf_bitmap"
	"github.com/hust-tianbo/go_bloom/hash"
	"github.com/hust-tianbo/go_bloom/log"
)

const (
	VersionMajor = 2
	VersionMinor = 0

	// maxBytes bounds a bit array to a 48-bit address space.
	maxBytes = 1 << 48
)

// Version returns the format version implemented by this package.
func Version() string {
	return fmt.Sprintf("%d.%d", VersionMajor, VersionMinor)
}

// Filter is a bloom filter. The zero value is not ready; see Init and Load.
type Filter struct {
	entries   uint32
	errorRate float64
	bits      uint64
	bytes     uint64
	hashes    uint8
	bpe       float64
	major     uint8
	minor     uint8
	ready     bool

	bf   bitmap_interface.Bitmap
	hash hash.Func
}

type Option func(*Filter)

// WithHash replaces the default MurmurHash2. A filter must be loaded with the
// hash it was saved with.
func WithHash(fn hash.Func) Option {
	return func(f *Filter) {
		f.hash = fn
	}
}

// New returns a ready filter sized for entries elements at errorRate.
func New(entries uint32, errorRate float64, opts ...Option) (*Filter, error) {
	f := &Filter{}
	if err := f.Init(entries, errorRate, opts...); err != nil {
		return nil, err
	}
	return f, nil
}

// clear drops all state, leaving f not ready with opts applied.
func (f *Filter) clear(opts []Option) {
	*f = Filter{hash: hash.Murmur2}
	for _, o := range opts {
		o(f)
	}
	if f.hash == nil {
		f.hash = hash.Murmur2
	}
}

// Init (re)initializes f. On error f is left cleared and not ready.
func (f *Filter) Init(entries uint32, errorRate float64, opts ...Option) error {
	f.clear(opts)

	p, err := Derive(entries, errorRate)
	if err != nil {
		return err
	}

	bf, err := allocate(p.Bytes)
	if err != nil {
		return err
	}

	f.entries = p.Entries
	f.errorRate = p.ErrorRate
	f.bits = p.Bits
	f.bytes = p.Bytes
	f.hashes = p.Hashes
	f.bpe = p.BitsPerElement
	f.major = VersionMajor
	f.minor = VersionMinor
	f.bf = bf
	f.ready = true

	log.Debugf("bloom init entries:%d error:%v bits:%d hashes:%d", f.entries, f.errorRate, f.bits, f.hashes)
	return nil
}

func allocate(n uint64) (bm bitmap_interface.Bitmap, err error) {
	if n > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrOutOfMemory, n)
	}
	defer func() {
		if r := recover(); r != nil {
			bm, err = nil, fmt.Errorf("%w: %d bytes: %v", ErrOutOfMemory, n, r)
		}
	}()
	return willf_bitmap.NewWillfBitMap(n), nil
}

func (f *Filter) checkReady(op string) error {
	if f == nil || !f.ready {
		log.Warnf("bloom at %p not initialized, %s refused", f, op)
		return ErrNotInitialized
	}
	return nil
}

func (f *Filter) checkAdd(elem []byte, add bool) bool {
	a, b := hashPair(f.hash, elem)

	var hits uint8
	for i := uint64(0); i < uint64(f.hashes); i++ {
		x := probe(a, b, i, f.bits)
		if testAndMaybeSetBit(f.bf, x, add) {
			hits++
		} else if !add {
			return false
		}
	}
	return hits == f.hashes
}

// Add records elem. It reports true when every probed bit was already set,
// meaning elem (or a colliding combination) was present before the call.
func (f *Filter) Add(elem []byte) (bool, error) {
	if err := f.checkReady("add"); err != nil {
		return false, err
	}
	return f.checkAdd(elem, true), nil
}

// Check reports whether elem is possibly present. False is definite.
func (f *Filter) Check(elem []byte) (bool, error) {
	if err := f.checkReady("check"); err != nil {
		return false, err
	}
	return f.checkAdd(elem, false), nil
}

// Reset empties the filter, keeping its sizing.
func (f *Filter) Reset() error {
	if err := f.checkReady("reset"); err != nil {
		return err
	}
	f.bf.Reset()
	return nil
}

// Release drops the bit array. It is safe to call more than once; f can be
// reused with Init or Load.
func (f *Filter) Release() {
	if f == nil {
		return
	}
	f.bf = nil
	f.ready = false
}

func (f *Filter) Ready() bool                   { return f.ready }
func (f *Filter) Entries() uint32               { return f.entries }
func (f *Filter) ErrorRate() float64            { return f.errorRate }
func (f *Filter) Bits() uint64                  { return f.bits }
func (f *Filter) Bytes() uint64                 { return f.bytes }
func (f *Filter) Hashes() uint8                 { return f.hashes }
func (f *Filter) BitsPerElement() float64       { return f.bpe }
func (f *Filter) FormatVersion() (uint8, uint8) { return f.major, f.minor }

// Params returns the sizing of f.
func (f *Filter) Params() Params {
	return Params{
		Entries:        f.entries,
		ErrorRate:      f.errorRate,
		Bits:           f.bits,
		Bytes:          f.bytes,
		Hashes:         f.hashes,
		BitsPerElement: f.bpe,
	}
}

// SetBits returns the number of set bits, 0 when f is not ready.
func (f *Filter) SetBits() uint64 {
	if !f.ready {
		return 0
	}
	return f.bf.Cardinality()
}

// String is a human readable dump of the metadata.
func (f *Filter) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "bloom at %p\n", f)
	if !f.ready {
		sb.WriteString(" *** NOT READY ***\n")
	}
	fmt.Fprintf(&sb, " ->version = %d.%d\n", f.major, f.minor)
	fmt.Fprintf(&sb, " ->entries = %d\n", f.entries)
	fmt.Fprintf(&sb, " ->error = %f\n", f.errorRate)
	fmt.Fprintf(&sb, " ->bits = %d\n", f.bits)
	fmt.Fprintf(&sb, " ->bits per elem = %f\n", f.bpe)
	kb := f.bytes / 1024
	fmt.Fprintf(&sb, " ->bytes = %d (%d KB, %d MB)\n", f.bytes, kb, kb/1024)
	fmt.Fprintf(&sb, " ->hash functions = %d\n", f.hashes)
	return sb.String()
}
