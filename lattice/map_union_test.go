package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapUnionMergeFull(t *testing.T) {
	a := NewMapUnion[string, Max[int], *Max[int]]()
	a.MergeSingleton("x", NewMax(1))

	b := NewMapUnion[string, Max[int], *Max[int]]()
	b.MergeSingleton("x", NewMax(5))
	b.MergeSingleton("y", NewMax(2))

	require.True(t, a.Merge(b))
	assert.Equal(t, 5, a.Value["x"].Value)
	assert.Equal(t, 2, a.Value["y"].Value)

	require.False(t, a.Merge(b))
}

func TestMapUnionMergeSingletonIntoFull(t *testing.T) {
	m := NewMapUnion[string, Max[int], *Max[int]]()
	require.True(t, m.MergeSingleton("x", NewMax(1)))
	require.True(t, m.MergeSingleton("x", NewMax(2)))
	require.False(t, m.MergeSingleton("x", NewMax(2)))
	assert.Equal(t, 2, m.Value["x"].Value)
}

func TestMapUnionCompareEqual(t *testing.T) {
	a := NewMapUnion[string, Max[int], *Max[int]]()
	a.MergeSingleton("x", NewMax(1))
	b := NewMapUnion[string, Max[int], *Max[int]]()
	b.MergeSingleton("x", NewMax(1))

	ord, ok := a.Compare(b)
	require.True(t, ok)
	assert.Equal(t, Equal, ord)
}

func TestMapUnionCompareLessGreaterAndIncomparable(t *testing.T) {
	a := NewMapUnion[string, Max[int], *Max[int]]()
	a.MergeSingleton("x", NewMax(1))

	b := NewMapUnion[string, Max[int], *Max[int]]()
	b.MergeSingleton("x", NewMax(1))
	b.MergeSingleton("y", NewMax(2))

	ord, ok := a.Compare(b)
	require.True(t, ok)
	assert.Equal(t, Less, ord, "a's keys are a strict subset of b's")

	ord, ok = b.Compare(a)
	require.True(t, ok)
	assert.Equal(t, Greater, ord)

	c := NewMapUnion[string, Max[int], *Max[int]]()
	c.MergeSingleton("x", NewMax(1))
	c.MergeSingleton("y", NewMax(9))

	d := NewMapUnion[string, Max[int], *Max[int]]()
	d.MergeSingleton("x", NewMax(5))

	_, ok = c.Compare(d)
	assert.False(t, ok, "incomparable: c has an extra key (y) but a lesser value at x")

	// property 2: merge==true iff compare(pre, post)==Less
	pre := NewMapUnion[string, Max[int], *Max[int]]()
	pre.MergeSingleton("x", NewMax(1))
	post := NewMapUnion[string, Max[int], *Max[int]]()
	post.MergeSingleton("x", NewMax(1))
	changed := post.MergeSingleton("y", NewMax(2))
	require.True(t, changed)
	ord, ok = pre.Compare(post)
	require.True(t, ok)
	assert.Equal(t, Less, ord)
}

func TestPairMerge(t *testing.T) {
	var p Pair[Max[int], Min[int], *Max[int], *Min[int]]
	p.First = NewMax(1)
	p.Second = NewMin(9)

	changed := p.Merge(Pair[Max[int], Min[int], *Max[int], *Min[int]]{
		First:  NewMax(5),
		Second: NewMin(2),
	})
	require.True(t, changed)
	assert.Equal(t, 5, p.First.Value)
	assert.Equal(t, 2, p.Second.Value)
}

func TestPairCompareMixedComponents(t *testing.T) {
	a := Pair[Max[int], Max[int], *Max[int], *Max[int]]{First: NewMax(1), Second: NewMax(1)}
	b := Pair[Max[int], Max[int], *Max[int], *Max[int]]{First: NewMax(2), Second: NewMax(2)}
	ord, ok := a.Compare(b)
	require.True(t, ok)
	assert.Equal(t, Less, ord)

	d := Pair[Max[int], Max[int], *Max[int], *Max[int]]{First: NewMax(1), Second: NewMax(2)}
	e := Pair[Max[int], Max[int], *Max[int], *Max[int]]{First: NewMax(2), Second: NewMax(1)}
	_, ok = d.Compare(e)
	assert.False(t, ok, "incomparable: First less, Second greater")
}

func TestDomPairMerge(t *testing.T) {
	type KV = DomPair[Max[int], Max[int], *Max[int], *Max[int]]

	d := KV{Key: NewMax(1), Value: NewMax(10)}

	// strictly dominated incoming key: discarded
	changed := d.Merge(KV{Key: NewMax(0), Value: NewMax(99)})
	assert.False(t, changed)
	assert.Equal(t, 1, d.Key.Value)
	assert.Equal(t, 10, d.Value.Value)

	// strictly dominating incoming key: replaces both
	changed = d.Merge(KV{Key: NewMax(5), Value: NewMax(1)})
	assert.True(t, changed)
	assert.Equal(t, 5, d.Key.Value)
	assert.Equal(t, 1, d.Value.Value)

	// equal key: merges value only
	changed = d.Merge(KV{Key: NewMax(5), Value: NewMax(50)})
	assert.True(t, changed)
	assert.Equal(t, 5, d.Key.Value)
	assert.Equal(t, 50, d.Value.Value)
}

func TestWithBottomMerge(t *testing.T) {
	b := Bottom[Max[int], *Max[int]]()
	assert.True(t, b.IsBottom())

	require.True(t, b.Merge(NewWithBottom[Max[int], *Max[int]](NewMax(1))))
	assert.False(t, b.IsBottom())
	assert.Equal(t, 1, b.Value.Value)

	require.False(t, b.Merge(Bottom[Max[int], *Max[int]]()))
	require.True(t, b.Merge(NewWithBottom[Max[int], *Max[int]](NewMax(5))))
	assert.Equal(t, 5, b.Value.Value)
}

func TestWithBottomCompareBottomBelowPresent(t *testing.T) {
	bot := Bottom[Max[int], *Max[int]]()
	present := NewWithBottom[Max[int], *Max[int]](NewMax(0))

	ord, ok := bot.Compare(present)
	require.True(t, ok)
	assert.Equal(t, Less, ord)
}

func TestWithTopMerge(t *testing.T) {
	v := NewWithTop[Max[int], *Max[int]](NewMax(1))
	require.True(t, v.Merge(Top[Max[int], *Max[int]]()))
	assert.True(t, v.IsTop())

	// once at top, further merges are no-ops
	require.False(t, v.Merge(NewWithTop[Max[int], *Max[int]](NewMax(99))))
	assert.True(t, v.IsTop())
}

func TestWithTopCompareTopAbovePresent(t *testing.T) {
	top := Top[Max[int], *Max[int]]()
	present := NewWithTop[Max[int], *Max[int]](NewMax(0))
	ord, ok := top.Compare(present)
	require.True(t, ok)
	assert.Equal(t, Greater, ord)
}
