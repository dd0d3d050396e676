package willf_bitmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWillfBitMapByteLayout(t *testing.T) {
	m := NewWillfBitMap(11)
	require.Equal(t, uint64(11), m.Size())

	m.Set(0)
	m.Set(9)
	m.Set(87)

	b := m.Bytes()
	require.Len(t, b, 11)
	require.Equal(t, byte(0x01), b[0])
	require.Equal(t, byte(0x02), b[1])
	require.Equal(t, byte(0x80), b[10])
	require.Equal(t, uint64(3), m.Cardinality())
}

func TestWillfBitMapFromBytes(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x40}
	m := FromBytes(data)
	require.Equal(t, uint64(len(data)), m.Size())
	require.True(t, m.Test(0))
	require.True(t, m.Test(78))
	require.False(t, m.Test(1))
	require.Equal(t, data, m.Bytes())

	fresh := NewWillfBitMap(uint64(len(data)))
	fresh.Set(0)
	fresh.Set(78)
	require.True(t, fresh.Equal(m))
}

func TestWillfBitMapTestAndSet(t *testing.T) {
	m := NewWillfBitMap(4)

	require.False(t, m.TestAndSet(5, false))
	require.False(t, m.Test(5))

	require.False(t, m.TestAndSet(5, true))
	require.True(t, m.Test(5))
	require.True(t, m.TestAndSet(5, true))
	require.True(t, m.TestAndSet(5, false))
}

func TestWillfBitMapOr(t *testing.T) {
	a := NewWillfBitMap(16)
	b := NewWillfBitMap(16)
	a.Set(3)
	b.Set(100)

	before := b.Clone()
	require.True(t, a.Or(b))
	require.True(t, a.Test(3))
	require.True(t, a.Test(100))
	require.True(t, before.Equal(b))

	require.False(t, a.Or(NewWillfBitMap(17)))
}

func TestWillfBitMapReset(t *testing.T) {
	m := NewWillfBitMap(8)
	m.Set(1)
	m.Set(63)
	m.Reset()
	require.Equal(t, uint64(0), m.Cardinality())
	require.Equal(t, uint64(8), m.Size())
	require.Equal(t, make([]byte, 8), m.Bytes())
}
