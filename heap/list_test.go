package heap

import (
	"cmp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/memcore/testutil"
)

type job struct {
	deadline int
	priority int
}

func newJobList(capacity int) *List[job] {
	return NewList(capacity,
		func(a, b job) int { return cmp.Compare(a.priority, b.priority) },
		func(a, b job) int { return cmp.Compare(a.deadline, b.deadline) },
	)
}

func deadlines(l *List[job]) []int {
	var out []int
	for j := range l.All() {
		out = append(out, j.deadline)
	}
	return out
}

func TestList_TwoOrders(t *testing.T) {
	l := newJobList(8)
	for _, j := range []job{{30, 1}, {10, 5}, {20, 3}, {40, 9}, {20, 2}} {
		_, err := l.Insert(j)
		require.NoError(t, err)
		require.NoError(t, l.Verify())
	}
	assert.Equal(t, []int{10, 20, 20, 30, 40}, deadlines(l))

	top, ok := l.Peek()
	require.True(t, ok)
	assert.Equal(t, 9, top.Value.priority)
	assert.Equal(t, 0, top.HeapPos())

	// Equal list keys keep insertion order.
	second := l.Front().Next()
	assert.Equal(t, 3, second.Value.priority)
	assert.Equal(t, 2, second.Next().Value.priority)

	var prios []int
	for l.Len() > 0 {
		j, ok := l.Pop()
		require.True(t, ok)
		require.NoError(t, l.Verify())
		prios = append(prios, j.priority)
	}
	assert.Equal(t, []int{9, 5, 3, 2, 1}, prios)
	assert.Nil(t, l.Front())

	_, ok = l.Pop()
	assert.False(t, ok)
}

func TestList_InsertBeforeAfter(t *testing.T) {
	l := newJobList(4)
	mid, err := l.Insert(job{deadline: 50})
	require.NoError(t, err)

	_, err = l.InsertBefore(job{deadline: 99}, mid)
	require.NoError(t, err)
	_, err = l.InsertAfter(job{deadline: 1}, mid)
	require.NoError(t, err)
	last, err := l.InsertAfter(job{deadline: 7}, l.Front().Next().Next())
	require.NoError(t, err)
	require.NoError(t, l.Verify())

	assert.Equal(t, []int{99, 50, 1, 7}, deadlines(l))
	assert.Same(t, last, l.Front().Next().Next().Next())
	assert.Nil(t, last.Next())
}

func TestList_Capacity(t *testing.T) {
	l := newJobList(2)
	a, err := l.Insert(job{deadline: 1})
	require.NoError(t, err)
	_, err = l.Insert(job{deadline: 2})
	require.NoError(t, err)

	_, err = l.Insert(job{deadline: 3})
	assert.ErrorIs(t, err, ErrFull)
	_, err = l.InsertBefore(job{deadline: 3}, a)
	assert.ErrorIs(t, err, ErrFull)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 2, l.Cap())

	require.True(t, l.Remove(a))
	assert.Equal(t, Absent, a.HeapPos())
	b, err := l.Insert(job{deadline: 3})
	require.NoError(t, err)
	assert.Same(t, a, b, "freed entries are reused")
	require.NoError(t, l.Verify())

	assert.Panics(t, func() { newJobList(0) })
}

func TestList_RemoveAndForeign(t *testing.T) {
	l := newJobList(4)
	other := newJobList(4)
	x, err := other.Insert(job{deadline: 1})
	require.NoError(t, err)

	e, err := l.Insert(job{deadline: 5, priority: 5})
	require.NoError(t, err)

	assert.False(t, l.Remove(x))
	assert.False(t, l.Remove(nil))
	_, err = l.InsertAfter(job{}, x)
	assert.ErrorIs(t, err, ErrForeignEntry)

	require.True(t, l.Remove(e))
	assert.False(t, l.Remove(e), "double remove")
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 1, other.Len())
	require.NoError(t, l.Verify())
}

func TestList_Updates(t *testing.T) {
	l := newJobList(8)
	entries := make([]*Entry[job], 0, 5)
	for i := range 5 {
		e, err := l.Insert(job{deadline: i * 10, priority: i})
		require.NoError(t, err)
		entries = append(entries, e)
	}

	low := entries[0]
	low.Value.priority = 100
	l.UpdateHeap(low)
	require.NoError(t, l.Verify())
	top, _ := l.Peek()
	assert.Same(t, low, top)

	low.Value.deadline = 35
	l.UpdateList(low)
	require.NoError(t, l.Verify())
	assert.Equal(t, []int{10, 20, 30, 35, 40}, deadlines(l))
	assert.Same(t, low, l.Front().Next().Next().Next())
	assert.Same(t, entries[3], low.Prev())
}

func TestList_RandomOperations(t *testing.T) {
	const capacity = 64
	rng := testutil.NewRNG(11)
	l := newJobList(capacity)
	var live []*Entry[job]

	for range 3000 {
		switch op := rng.Intn(5); {
		case op < 2 && len(live) < capacity:
			e, err := l.Insert(job{deadline: rng.Intn(100), priority: rng.Intn(100)})
			require.NoError(t, err)
			live = append(live, e)
		case op == 2 && len(live) > 0:
			i := rng.Intn(len(live))
			require.True(t, l.Remove(live[i]))
			live = slices.Delete(live, i, i+1)
		case op == 3 && len(live) > 0:
			e := live[rng.Intn(len(live))]
			e.Value.priority = rng.Intn(100)
			l.UpdateHeap(e)
		case len(live) > 0:
			e := live[rng.Intn(len(live))]
			e.Value.deadline = rng.Intn(100)
			l.UpdateList(e)
		}
		require.NoError(t, l.Verify())
	}

	got := deadlines(l)
	assert.True(t, slices.IsSorted(got))
	assert.Len(t, got, len(live))
}

func TestList_CloneAndClear(t *testing.T) {
	l := newJobList(8)
	for i := range 6 {
		_, err := l.Insert(job{deadline: 60 - i*10, priority: i})
		require.NoError(t, err)
	}
	require.True(t, l.Remove(l.Front().Next()))

	c := l.Clone()
	require.NoError(t, c.Verify())
	assert.Equal(t, deadlines(l), deadlines(c))
	for pos := 0; pos < l.Len(); pos++ {
		a, _ := l.heap.At(pos)
		b, _ := c.heap.At(pos)
		assert.Equal(t, a.Value, b.Value)
	}

	_, err := c.Insert(job{deadline: 0, priority: 50})
	require.NoError(t, err)
	assert.Equal(t, 5, l.Len())
	assert.Equal(t, 6, c.Len())

	var destroyed []int
	l.Clear(func(j job) { destroyed = append(destroyed, j.deadline) })
	assert.Equal(t, []int{10, 30, 40, 50, 60}, destroyed)
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.Front())
	require.NoError(t, l.Verify())
	require.NoError(t, c.Verify())

	_, err = l.Insert(job{deadline: 1})
	require.NoError(t, err)
	require.NoError(t, l.Verify())
}

func TestList_VerifyDetectsBrokenLink(t *testing.T) {
	l := newJobList(4)
	for i := range 3 {
		_, err := l.Insert(job{deadline: i})
		require.NoError(t, err)
	}
	l.Front().Next().prev = nil
	assert.ErrorIs(t, l.Verify(), ErrCorrupt)
}
