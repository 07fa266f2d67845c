package testutil

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerm(t *testing.T) {
	rng := NewRNG(4711)

	p := rng.Perm(100)
	require.Len(t, p, 100)

	sorted := append([]int(nil), p...)
	sort.Ints(sorted)
	for i, v := range sorted {
		assert.Equal(t, i, v)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	a := rng.Perm(10)
	b1 := make([]byte, 16)
	rng.FillBytes(b1)

	rng.Reset()
	assert.Equal(t, a, rng.Perm(10))
	b2 := make([]byte, 16)
	rng.FillBytes(b2)
	assert.Equal(t, b1, b2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestZipf(t *testing.T) {
	rng := NewRNG(42)
	counts := make([]int, 10)
	for range 5000 {
		v := rng.Zipf(10, 1.5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 10)
		counts[v]++
	}
	assert.Greater(t, counts[0], counts[9])
	assert.Equal(t, 0, rng.Zipf(1, 1.5))
}

func TestChurnOps(t *testing.T) {
	rng := NewRNG(7)
	ops := rng.ChurnOps(10000, 0.45)
	require.Len(t, ops, 10000)

	live, frees := 0, 0
	for _, op := range ops {
		if op.Free {
			require.Positive(t, live)
			require.Less(t, op.Victim, live)
			live--
			frees++
			continue
		}
		live++
	}
	assert.Positive(t, frees)
	assert.GreaterOrEqual(t, live, 0)
}
