package willf_bitmap

import (
	"encoding/binary"

	"github.com/hust-tianbo/go_bloom/cache/bitmap/bitmap_interface"

	wf "github.com/bits-and-blooms/bitset"
)

const wordBytes = 8

// WillfBitMap bitset实现的定长位图
// bitset的第w个字以小端序展开后，位p正好落在第p>>3个字节的第p&7位
type WillfBitMap struct {
	b     *wf.BitSet
	bytes uint64
}

var _ bitmap_interface.Bitmap = (*WillfBitMap)(nil)

func wordsFor(n uint64) uint64 {
	return (n + wordBytes - 1) / wordBytes
}

// NewWillfBitMap 创建n个字节的全零位图
func NewWillfBitMap(n uint64) *WillfBitMap {
	return &WillfBitMap{
		b:     wf.From(make([]uint64, wordsFor(n))),
		bytes: n,
	}
}

// FromBytes 从LSB0字节序列恢复位图，长度为len(data)
func FromBytes(data []byte) *WillfBitMap {
	n := uint64(len(data))
	words := make([]uint64, wordsFor(n))
	var tail [wordBytes]byte
	for i := range words {
		off := uint64(i) * wordBytes
		if off+wordBytes <= n {
			words[i] = binary.LittleEndian.Uint64(data[off:])
			continue
		}
		// 最后一个不完整的字补零
		tail = [wordBytes]byte{}
		copy(tail[:], data[off:])
		words[i] = binary.LittleEndian.Uint64(tail[:])
	}
	return &WillfBitMap{b: wf.From(words), bytes: n}
}

func (m *WillfBitMap) Set(i uint) {
	m.b.Set(i)
}

func (m *WillfBitMap) Test(i uint) bool {
	return m.b.Test(i)
}

// TestAndSet 非原子的读改写，调用方需要自行串行化
func (m *WillfBitMap) TestAndSet(i uint, set bool) bool {
	if m.b.Test(i) {
		return true
	}
	if set {
		m.b.Set(i)
	}
	return false
}

func (m *WillfBitMap) Size() uint64 {
	return m.bytes
}

func (m *WillfBitMap) Reset() {
	m.b.ClearAll()
}

func (m *WillfBitMap) Clone() bitmap_interface.Bitmap {
	return &WillfBitMap{b: m.b.Clone(), bytes: m.bytes}
}

func (m *WillfBitMap) Equal(slave bitmap_interface.Bitmap) bool {
	s, ok := slave.(*WillfBitMap)
	if !ok {
		return false
	}
	return m.bytes == s.bytes && m.b.Equal(s.b)
}

func (m *WillfBitMap) Cardinality() uint64 {
	return uint64(m.b.Count())
}

// Or 将slave按位或入当前位图，slave不会被修改
func (m *WillfBitMap) Or(slave bitmap_interface.Bitmap) bool {
	s, ok := slave.(*WillfBitMap)
	if !ok || s.bytes != m.bytes {
		return false
	}
	m.b.InPlaceUnion(s.b)
	return true
}

func (m *WillfBitMap) Bytes() []byte {
	out := make([]byte, wordsFor(m.bytes)*wordBytes)
	for i, w := range m.b.Bytes() {
		binary.LittleEndian.PutUint64(out[i*wordBytes:], w)
	}
	return out[:m.bytes]
}
