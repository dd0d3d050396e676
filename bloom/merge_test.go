package bloom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func addAll(t *testing.T, f *Filter, elems ...string) {
	t.Helper()
	for _, e := range elems {
		_, err := f.Add([]byte(e))
		require.NoError(t, err)
	}
}

func TestMergeUnion(t *testing.T) {
	a := newFilter(t, 1000, 0.001)
	b := newFilter(t, 1000, 0.001)
	addAll(t, a, "alpha", "beta")
	addAll(t, b, "gamma")
	before := b.bf.Clone()

	require.True(t, a.Compatible(b))
	require.NoError(t, a.Merge(b))

	for _, e := range []string{"alpha", "beta", "gamma"} {
		ok, err := a.Check([]byte(e))
		require.NoError(t, err)
		require.Truef(t, ok, e)
	}
	ok, err := a.Check([]byte("delta"))
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, uint64(30), a.SetBits())

	require.True(t, before.Equal(b.bf))
	ok, err = b.Check([]byte("alpha"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMergeCommutes(t *testing.T) {
	a1 := newFilter(t, 1000, 0.01)
	b1 := newFilter(t, 1000, 0.01)
	addAll(t, a1, "a", "b", "c")
	addAll(t, b1, "x", "y")

	a2 := newFilter(t, 1000, 0.01)
	b2 := newFilter(t, 1000, 0.01)
	addAll(t, a2, "a", "b", "c")
	addAll(t, b2, "x", "y")

	require.NoError(t, a1.Merge(b1))
	require.NoError(t, b2.Merge(a2))
	require.Equal(t, a1.bf.Bytes(), b2.bf.Bytes())
}

func TestMergeIncompatible(t *testing.T) {
	base := func() *Filter {
		f := newFilter(t, 1000, 0.01)
		addAll(t, f, "kept")
		return f
	}
	others := map[string]*Filter{
		"entries":    newFilter(t, 2000, 0.01),
		"error rate": newFilter(t, 1000, 0.02),
	}
	minor := newFilter(t, 1000, 0.01)
	minor.minor++
	others["minor"] = minor
	sized := newFilter(t, 1000, 0.01)
	sized.bytes++
	others["bytes"] = sized

	for name, other := range others {
		dst := base()
		snapshot := dst.bf.Clone()
		otherBits := other.bf.Clone()

		require.Falsef(t, dst.Compatible(other), name)
		require.ErrorIsf(t, dst.Merge(other), ErrIncompatible, name)
		require.Truef(t, snapshot.Equal(dst.bf), name)
		require.Truef(t, otherBits.Equal(other.bf), name)
	}
}

func TestMergeNotReady(t *testing.T) {
	a := newFilter(t, 1000, 0.01)
	var b Filter
	require.ErrorIs(t, a.Merge(&b), ErrNotInitialized)
	require.ErrorIs(t, a.Merge(nil), ErrNotInitialized)
	require.ErrorIs(t, b.Merge(a), ErrNotInitialized)

	c := newFilter(t, 1000, 0.01)
	c.Release()
	require.ErrorIs(t, a.Merge(c), ErrNotInitialized)
}
