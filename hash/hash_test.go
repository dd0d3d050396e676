package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMurmur2Vectors(t *testing.T) {
	cases := []struct {
		seed uint32
		data string
		want uint32
	}{
		{0, "", 0x0},
		{0x9747b28c, "", 0x106e08d9},
		{0, "a", 0x92685f5e},
		{0x9747b28c, "a", 0xa2d0b27c},
		{0, "abc", 0x13577c9b},
		{0, "abcd", 0x26873021},
		{0x9747b28c, "abcd", 0xb11ab5f4},
		{0, "hello world", 0x44a81419},
		{0x9747b28c, "hello world", 0x48d0c363},
		{0x9747b28c, "alpha", 0x4fbee528},
	}
	for _, c := range cases {
		require.Equalf(t, c.want, Murmur2(c.seed, []byte(c.data)), "seed=%#x data=%q", c.seed, c.data)
	}
}

func TestMurmur3Vectors(t *testing.T) {
	require.Equal(t, uint32(0), Murmur3(0, nil))
	require.Equal(t, uint32(0x514e28b7), Murmur3(1, nil))
	require.Equal(t, uint32(0x81f16f39), Murmur3(0xffffffff, nil))
}

func TestSeedChangesHash(t *testing.T) {
	var fns = map[string]Func{"murmur2": Murmur2, "murmur3": Murmur3}
	for name, fn := range fns {
		data := []byte("element")
		require.NotEqualf(t, fn(0, data), fn(1, data), "%s ignores its seed", name)
		require.Equal(t, fn(7, data), fn(7, data))
	}
}
