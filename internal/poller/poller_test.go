package poller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWakeThenWaitReturnsImmediately(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Wake())

	ok, err := w.Wait(1000)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWaitTimesOutWithoutWake(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	start := time.Now()
	ok, err := w.Wait(20)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestConcurrentWakesCoalesce(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, w.Wake())
	}

	ok, err := w.Wait(1000)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWakeAfterCloseDoesNotPanic(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Wake())
}
