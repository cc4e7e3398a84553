package modes

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetIsIdempotent(t *testing.T) {
	r := NewRegistry()

	a := r.Get("Charge")
	b := r.Get("Charge")
	require.NotNil(t, a)
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, "Charge", a.Name())
}

func TestRegistry_DistinctNamesGetDistinctHandles(t *testing.T) {
	r := NewRegistry()

	a := r.Get("On")
	b := r.Get("Off")
	assert.NotSame(t, a, b)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestRegistry_LookupDoesNotCreate(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup("Ghost Targets")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())

	m := r.Get("Ghost Targets")
	got, ok := r.Lookup("Ghost Targets")
	require.True(t, ok)
	assert.Same(t, m, got)
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	handles := make([]*Mode, 32)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = r.Get(HotLoad)
		}(i)
	}
	wg.Wait()

	for _, h := range handles {
		assert.Same(t, handles[0], h)
	}
	assert.Equal(t, 1, r.Len())
}

func TestNone(t *testing.T) {
	assert.Equal(t, -1, None.ID())
	assert.False(t, None.Is("None"))
	assert.False(t, (*Mode)(nil).Is(Charge))
	assert.True(t, Get(Charge).Is(Charge))
}

func TestRotaryShots(t *testing.T) {
	assert.Equal(t, "4-shot", RotaryShots(4))
}
