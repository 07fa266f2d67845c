package avl

import (
	"errors"
	"fmt"
)

// ErrCorrupt is returned by Verify when a structural invariant is broken.
var ErrCorrupt = errors.New("avl: corrupt tree")

// Verify walks the whole tree and checks ordering, balance tags, the node
// count and the tracked height.
func (t *Tree[K, V]) Verify() error {
	var (
		prev    K
		hasPrev bool
		count   int
	)

	var walk func(h Handle) (int, error)
	walk = func(h Handle) (int, error) {
		if h == 0 {
			return 0, nil
		}
		n := t.node(h)
		lh, err := walk(n.left)
		if err != nil {
			return 0, err
		}

		if hasPrev && t.compare(n.key, prev) >= 0 {
			return 0, fmt.Errorf("%w: keys out of order at node %d", ErrCorrupt, h)
		}
		prev, hasPrev = n.key, true
		count++

		rh, err := walk(n.right)
		if err != nil {
			return 0, err
		}

		var want balance
		switch diff := rh - lh; diff {
		case 0:
			want = balanced
		case 1:
			want = leanRight
		case -1:
			want = leanLeft
		default:
			return 0, fmt.Errorf("%w: node %d height difference %d", ErrCorrupt, h, diff)
		}
		if n.bal != want {
			return 0, fmt.Errorf("%w: node %d balance tag %d, want %d", ErrCorrupt, h, n.bal, want)
		}
		return max(lh, rh) + 1, nil
	}

	height, err := walk(t.root)
	if err != nil {
		return err
	}
	if count != t.count {
		return fmt.Errorf("%w: counted %d nodes, tracked %d", ErrCorrupt, count, t.count)
	}
	if height != t.height {
		return fmt.Errorf("%w: height %d, tracked %d", ErrCorrupt, height, t.height)
	}
	return nil
}
