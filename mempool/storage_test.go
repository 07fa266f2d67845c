package mempool

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memcore/avl"
	"github.com/hupe1980/memcore/testutil"
)

func TestHandleRoundTrip(t *testing.T) {
	for _, r := range []Ref{{0, 0}, {0, 1}, {7, 3}, {math.MaxUint32 - 1, math.MaxUint32 - 1}} {
		h := refToHandle(r)
		assert.NotZero(t, h)
		assert.Equal(t, r, handleToRef(h))
	}
	assert.Equal(t, avl.Handle(1), refToHandle(Ref{}))
}

func TestNodeStorage_Tree(t *testing.T) {
	store, err := NewNodeStorage[int, string](WithGroupSize(32), WithReleaseEmptyGroups(true))
	require.NoError(t, err)
	tree := avl.New(avl.Ordered[int](), avl.WithStorage[int, string](store))

	for _, k := range []int{50, 20, 80, 10, 30} {
		require.NoError(t, tree.Insert(k, "v"))
	}
	var got []int
	for k := range tree.All() {
		got = append(got, k)
	}
	assert.Equal(t, []int{10, 20, 30, 50, 80}, got)
	assert.Equal(t, 5, store.Pool().Len())

	rng := testutil.NewRNG(11)
	perm := rng.Perm(1000)
	for _, k := range perm {
		require.NoError(t, tree.Insert(k+100, "x"))
	}
	require.NoError(t, tree.Verify())
	require.NoError(t, store.Pool().Verify())
	assert.Equal(t, tree.Len(), store.Pool().Len())

	for _, k := range perm {
		require.True(t, tree.Remove(k+100))
	}
	require.NoError(t, tree.Verify())
	require.NoError(t, store.Pool().Verify())
	assert.Equal(t, 5, store.Pool().Len())

	tree.Clear()
	assert.Equal(t, 0, store.Pool().Stats().Groups)
	require.NoError(t, tree.Insert(1, "again"))
	v, ok := tree.Find(1)
	require.True(t, ok)
	assert.Equal(t, "again", v)

	require.NoError(t, tree.Destroy())
	_, err = store.Alloc()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestNewTree(t *testing.T) {
	released := 0
	tree, err := NewTree[int, int](avl.Ordered[int](), avl.WithValueDestructor[int, int](func(int) { released++ }))
	require.NoError(t, err)

	for i := range 5000 {
		require.NoError(t, tree.Insert(i, i))
	}
	require.NoError(t, tree.Verify())

	for i := range 5000 {
		require.True(t, tree.Remove(i))
	}
	assert.Equal(t, 5000, released)
	assert.Equal(t, 0, tree.Len())
	require.NoError(t, tree.Destroy())
}

func TestNodeStorage_BudgetFailure(t *testing.T) {
	store, err := NewNodeStorage[int, int](WithGroupSize(4), WithMemoryLimit(1))
	require.NoError(t, err)
	tree := avl.New(avl.Ordered[int](), avl.WithStorage[int, int](store))

	err = tree.Insert(1, 1)
	require.ErrorIs(t, err, ErrMemoryLimitExceeded)
	assert.Equal(t, 0, tree.Len())
	require.NoError(t, tree.Verify())
}
