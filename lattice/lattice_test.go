package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxMerge(t *testing.T) {
	m := NewMax(1)
	require.True(t, m.Merge(NewMax(5)))
	assert.Equal(t, 5, m.Value)
	require.False(t, m.Merge(NewMax(3)))
	assert.Equal(t, 5, m.Value)
}

func TestMaxCompare(t *testing.T) {
	ord, ok := NewMax(1).Compare(NewMax(5))
	require.True(t, ok)
	assert.Equal(t, Less, ord)
}

func TestMinMerge(t *testing.T) {
	m := NewMin(5)
	require.True(t, m.Merge(NewMin(1)))
	assert.Equal(t, 1, m.Value)
	require.False(t, m.Merge(NewMin(3)))
}

func TestSetUnionMerge(t *testing.T) {
	s := NewSetUnion(1, 2)
	require.True(t, s.Merge(NewSetUnion(2, 3)))
	assert.ElementsMatch(t, keys(s.Value), []int{1, 2, 3})
	require.False(t, s.Merge(NewSetUnion(1, 2, 3)))
}

func TestSetUnionMergeElemSingleton(t *testing.T) {
	s := NewSetUnion[int]()
	require.True(t, s.MergeElem(1))
	require.False(t, s.MergeElem(1))
	require.True(t, s.MergeElem(2))
}

func TestSetUnionCompare(t *testing.T) {
	a := NewSetUnion(1, 2)
	b := NewSetUnion(1, 2, 3)
	ord, ok := a.Compare(b)
	require.True(t, ok)
	assert.Equal(t, Less, ord)

	ord, ok = a.Compare(a)
	require.True(t, ok)
	assert.Equal(t, Equal, ord)

	_, ok = a.Compare(NewSetUnion(4, 5))
	assert.False(t, ok)
}

func TestPointMergeEqual(t *testing.T) {
	p := NewPoint("hello")
	assert.False(t, p.Merge(NewPoint("hello")))
}

func TestPointMergeUnequalPanics(t *testing.T) {
	p := NewPoint("hello")
	assert.Panics(t, func() {
		p.Merge(NewPoint("world"))
	})
}

// A set-union fold over three ticks.
func TestSetUnionFoldThreeTicks(t *testing.T) {
	state := NewSetUnion[int]()

	state.Merge(NewSetUnion(1, 2))
	assert.ElementsMatch(t, keys(state.Value), []int{1, 2})

	state.Merge(NewSetUnion(2, 3))
	assert.ElementsMatch(t, keys(state.Value), []int{1, 2, 3})

	state.Merge(NewSetUnion[int]())
	assert.ElementsMatch(t, keys(state.Value), []int{1, 2, 3})
}

func keys[T comparable](m map[T]struct{}) []T {
	out := make([]T, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
