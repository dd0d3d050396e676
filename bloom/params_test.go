package bloom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	cases := []struct {
		entries uint32
		rate    float64
		bits    uint64
		bytes   uint64
		hashes  uint8
	}{
		{1000, 0.001, 14377, 1798, 10},
		{1000, 0.01, 9585, 1199, 7},
		{100000, 0.01, 958505, 119814, 7},
		{2000, 0.5, 2885, 361, 2},
		{1000000, 0.001, 14377587, 1797199, 10},
	}
	for _, c := range cases {
		p, err := Derive(c.entries, c.rate)
		require.NoError(t, err)
		require.Equal(t, c.entries, p.Entries)
		require.Equal(t, c.rate, p.ErrorRate)
		require.Equalf(t, c.bits, p.Bits, "bits for %d/%v", c.entries, c.rate)
		require.Equal(t, c.bytes, p.Bytes)
		require.Equal(t, c.hashes, p.Hashes)
		require.GreaterOrEqual(t, p.Bytes*8, p.Bits)
		require.InDelta(t, -math.Log(c.rate)/ln2Squared, p.BitsPerElement, 1e-12)
	}
}

func TestDeriveRejects(t *testing.T) {
	cases := []struct {
		name    string
		entries uint32
		rate    float64
	}{
		{"too few entries", 999, 0.01},
		{"zero rate", 1000, 0},
		{"rate of one", 1000, 1},
		{"negative rate", 1000, -0.5},
		{"nan rate", 1000, math.NaN()},
		{"too many hashes", 1000, 1e-300},
		{"no bits", 1000, 0.9999999},
	}
	for _, c := range cases {
		_, err := Derive(c.entries, c.rate)
		require.ErrorIsf(t, err, ErrInvalidParameters, c.name)
	}
}

func TestDeriveMaxHashes(t *testing.T) {
	p, err := Derive(1000, 1e-76)
	require.NoError(t, err)
	require.Equal(t, uint8(253), p.Hashes)

	// needs 256
	_, err = Derive(1000, 1e-77)
	require.ErrorIs(t, err, ErrInvalidParameters)
}
