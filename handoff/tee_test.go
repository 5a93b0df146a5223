package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIDGen() func() ID {
	var next ID
	return func() ID {
		next++
		return next
	}
}

// Tee to three readers: each sink receives [10,20,30] in order.
func TestTeeToThreeReaders(t *testing.T) {
	root, r1 := NewTee[int](newIDGen())
	r2 := root.AddReader()
	r3 := root.AddReader()

	root.GiveVec([]int{10, 20, 30})

	assert.Equal(t, []int{10, 20, 30}, r1.TakeInner())
	assert.Equal(t, []int{10, 20, 30}, r2.TakeInner())
	assert.Equal(t, []int{10, 20, 30}, r3.TakeInner())
}

// Property #5: every current reader observes the same sequence,
// regardless of drain timing (readers at different drain cadences).
func TestTeeReadersObserveSameSequenceIndependentOfDrainTiming(t *testing.T) {
	root, r1 := NewTee[string](newIDGen())
	r2 := root.AddReader()

	root.Give("a")
	assert.Equal(t, []string{"a"}, r1.TakeInner())
	// r2 hasn't drained yet.
	root.Give("b")
	root.Give("c")

	assert.Equal(t, []string{"b", "c"}, r1.TakeInner())
	assert.Equal(t, []string{"a", "b", "c"}, r2.TakeInner())
}

func TestTeeAddReaderMidStreamOnlySeesSubsequentWrites(t *testing.T) {
	root, r1 := NewTee[int](newIDGen())
	root.Give(1)

	r2 := root.AddReader()
	root.Give(2)

	assert.Equal(t, []int{1, 2}, r1.TakeInner())
	assert.Equal(t, []int{2}, r2.TakeInner())
}

func TestTeeReaderRemovalObservedAtNextWrite(t *testing.T) {
	root, r1 := NewTee[int](newIDGen())
	r2 := root.AddReader()

	root.Give(1)
	r2.Remove()

	// r2 already buffered item 1 before being removed; that is untouched.
	require.Equal(t, []int{1}, r2.TakeInner())

	// removal takes effect at the next write, not immediately.
	root.Give(2)
	assert.Equal(t, []int{1, 2}, r1.TakeInner())
	assert.True(t, r2.IsEmpty(), "removed reader receives no further items")
}

func TestTeeIsEmptyPerReader(t *testing.T) {
	root, r1 := NewTee[int](newIDGen())
	r2 := root.AddReader()

	root.Give(1)
	assert.False(t, r1.IsEmpty())
	r1.TakeInner()
	assert.True(t, r1.IsEmpty())
	assert.False(t, r2.IsEmpty())
}
