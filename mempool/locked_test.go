package mempool

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestLocked_Concurrent(t *testing.T) {
	const (
		workers = 8
		rounds  = 500
	)
	l, err := NewLocked[[2]int64](WithGroupSize(64), WithReleaseEmptyGroups(true))
	require.NoError(t, err)

	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			held := make([]*[2]int64, 0, rounds)
			for i := range rounds {
				x, err := l.Alloc()
				if err != nil {
					return err
				}
				*x = [2]int64{int64(w), int64(i)}
				held = append(held, x)
			}
			for i, x := range held {
				if *x != [2]int64{int64(w), int64(i)} {
					return fmt.Errorf("worker %d: slot %d clobbered: %v", w, i, *x)
				}
				if !l.IsManaged(x) {
					return fmt.Errorf("worker %d: slot %d not managed", w, i)
				}
				if !l.Free(x) {
					return fmt.Errorf("worker %d: free %d rejected", w, i)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 0, l.Len())
	require.NoError(t, l.Verify())
	assert.Equal(t, 0, l.Stats().Groups)

	l.Do(func(p *Pool[[2]int64]) {
		_, err := p.Alloc()
		require.NoError(t, err)
	})
	assert.Equal(t, 1, l.Len())
	l.ReleaseEmptyGroups(false)
	require.NoError(t, l.Close())
}

func TestLocked_InvalidType(t *testing.T) {
	_, err := NewLocked[struct{}]()
	assert.ErrorIs(t, err, ErrInvalidElementSize)
}
