package memcore

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memcore/avl"
	"github.com/hupe1980/memcore/mempool"
)

func TestNewPooledTree(t *testing.T) {
	tree, err := NewPooledTree[string, int](avl.Ordered[string]())
	require.NoError(t, err)

	require.NoError(t, tree.Insert("b", 2))
	require.NoError(t, tree.Insert("a", 1))
	require.NoError(t, tree.Insert("a", 3))

	v, ok := tree.Find("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, tree.Len())
	require.NoError(t, tree.Destroy())
}

func TestNewHeapList(t *testing.T) {
	type timer struct{ at, weight int }
	l := NewHeapList(4,
		func(a, b timer) int { return cmp.Compare(a.weight, b.weight) },
		func(a, b timer) int { return cmp.Compare(a.at, b.at) },
	)
	for _, tm := range []timer{{3, 1}, {1, 2}, {2, 7}} {
		_, err := l.Insert(tm)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, l.Front().Value.at)
	top, ok := l.Peek()
	require.True(t, ok)
	assert.Equal(t, 7, top.Value.weight)
	require.NoError(t, l.Verify())
}

func TestNewIdentityTree(t *testing.T) {
	a, b := new(int), new(int)
	tree := NewIdentityTree[int, string]()
	require.NoError(t, tree.Insert(a, "a"))
	require.NoError(t, tree.Insert(b, "b"))
	v, ok := tree.Find(b)
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, 2, tree.Len())
}

func TestMemoryBudget_Shared(t *testing.T) {
	groupBytes := int64(4*8 + mempool.GroupHeaderSize)
	budget := NewMemoryBudget(2 * groupBytes)

	a, err := NewPool[int64](mempool.WithGroupSize(4), mempool.WithMemoryBudget(budget))
	require.NoError(t, err)
	b, err := NewBytePool(8, mempool.WithGroupSize(4), mempool.WithMemoryBudget(budget))
	require.NoError(t, err)

	_, err = a.Alloc()
	require.NoError(t, err)
	_, err = b.Alloc()
	require.NoError(t, err)
	assert.Equal(t, 2*groupBytes, budget.MemoryUsage())

	for range 3 {
		_, err = a.Alloc()
		require.NoError(t, err)
	}
	_, err = a.Alloc()
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)

	require.NoError(t, b.Close())
	_, err = a.Alloc()
	require.NoError(t, err)
	assert.Equal(t, 2*groupBytes, budget.PeakMemoryUsage())
}

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}
	p, err := NewPool[int32](
		mempool.WithGroupSize(2),
		mempool.WithMetricsObserver(m),
		mempool.WithReleaseEmptyGroups(true),
	)
	require.NoError(t, err)

	x, err := p.Alloc()
	require.NoError(t, err)
	y, err := p.Alloc()
	require.NoError(t, err)
	z, err := p.Alloc()
	require.NoError(t, err)

	st := m.GetStats()
	assert.Equal(t, int64(2), st.GroupsCreated)
	assert.Equal(t, int64(2), st.LiveGroups)
	assert.Equal(t, int64(4), st.SlotsReserved)
	assert.Equal(t, 2*p.Stats().GroupBytes, st.GroupBytes)

	assert.True(t, p.Free(z))
	assert.False(t, p.Free(z))
	assert.False(t, p.Free(new(int32)))

	st = m.GetStats()
	assert.Equal(t, int64(1), st.GroupsReleased)
	assert.Equal(t, int64(1), st.LiveGroups)
	assert.Equal(t, int64(2), st.FreeRejections)

	assert.True(t, p.Free(x))
	assert.True(t, p.Free(y))
	assert.Equal(t, int64(0), m.GetStats().GroupBytes)
}

func TestInvalidPools(t *testing.T) {
	_, err := NewPool[struct{}]()
	assert.ErrorIs(t, err, ErrInvalidElementSize)

	_, err = NewBytePool(-1)
	assert.ErrorIs(t, err, ErrInvalidElementSize)

	_, err = NewPool[int](mempool.WithGroupSize(-3))
	assert.ErrorIs(t, err, ErrInvalidGroupSize)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).WithPool("records")

	p, err := NewPool[[16]byte](mempool.WithGroupSize(4), l.PoolOption())
	require.NoError(t, err)
	_, err = p.Alloc()
	require.NoError(t, err)

	ctx := context.Background()
	l.LogPoolStats(ctx, p.Stats())
	l.LogAlloc(ctx, 16, errors.New("boom"))
	l.LogVerify(ctx, "pool", p.Verify())

	out := buf.String()
	assert.Contains(t, out, "group created")
	assert.Contains(t, out, "pool=records")
	assert.Contains(t, out, "live=1")
	assert.Contains(t, out, "allocation failed")
	assert.Contains(t, out, "verification passed")

	assert.NotNil(t, NoopLogger().Logger)
	assert.NotNil(t, NewJSONLogger(slog.LevelWarn).WithElementSize(8))
	assert.NotNil(t, NewTextLogger(slog.LevelWarn))
	assert.NotNil(t, NewLogger(nil))
}
