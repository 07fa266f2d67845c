package avl

import (
	"cmp"
	"fmt"
	"iter"
)

// Tree is an AVL-balanced ordered map.
//
// A Tree is not safe for concurrent use, and no method may be called on the
// tree from inside a visitor or destructor.
type Tree[K, V any] struct {
	store   Storage[K, V]
	root    Handle
	compare func(a, b K) int

	destroyKey   func(K)
	destroyValue func(V)

	height int
	count  int

	// path is the traversal stack shared by all operations. It is reset, not
	// reallocated, unless the tree grew taller than its capacity.
	path []Handle
}

// Option configures a Tree.
type Option[K, V any] func(*Tree[K, V])

// WithKeyDestructor sets the function called on keys the tree releases.
func WithKeyDestructor[K, V any](fn func(K)) Option[K, V] {
	return func(t *Tree[K, V]) {
		t.destroyKey = fn
	}
}

// WithValueDestructor sets the function called on values the tree releases.
func WithValueDestructor[K, V any](fn func(V)) Option[K, V] {
	return func(t *Tree[K, V]) {
		t.destroyValue = fn
	}
}

// WithStorage makes the tree draw its nodes from s instead of a private Arena.
func WithStorage[K, V any](s Storage[K, V]) Option[K, V] {
	return func(t *Tree[K, V]) {
		if s != nil {
			t.store = s
		}
	}
}

// New creates an empty tree ordered by compare, which must follow the
// inverted sign convention described at Ordered. A nil compare panics; use
// NewIdentity for pointer keys without an order of their own.
func New[K, V any](compare func(a, b K) int, opts ...Option[K, V]) *Tree[K, V] {
	if compare == nil {
		panic("avl: nil comparator")
	}
	t := &Tree[K, V]{compare: compare}
	for _, opt := range opts {
		opt(t)
	}
	if t.store == nil {
		t.store = NewArena[K, V]()
	}
	return t
}

// NewOrdered creates an empty tree for naturally ordered keys.
func NewOrdered[K cmp.Ordered, V any](opts ...Option[K, V]) *Tree[K, V] {
	return New(Ordered[K](), opts...)
}

// NewIdentity creates an empty tree keyed by pointer identity, ordered by
// ComparePointers.
func NewIdentity[T, V any](opts ...Option[*T, V]) *Tree[*T, V] {
	return New(ComparePointers[T], opts...)
}

// Len returns the number of entries.
func (t *Tree[K, V]) Len() int { return t.count }

// Height returns the height of the tree. An empty tree has height 0.
func (t *Tree[K, V]) Height() int { return t.height }

func (t *Tree[K, V]) node(h Handle) *Node[K, V] {
	return t.store.Node(h)
}

func (t *Tree[K, V]) resetPath() {
	if cap(t.path) <= t.height {
		t.path = make([]Handle, 0, t.height+1)
		return
	}
	t.path = t.path[:0]
}

func (t *Tree[K, V]) top() Handle {
	if len(t.path) == 0 {
		return 0
	}
	return t.path[len(t.path)-1]
}

func (t *Tree[K, V]) pop() Handle {
	h := t.path[len(t.path)-1]
	t.path = t.path[:len(t.path)-1]
	return h
}

// findPath walks from the root towards key, pushing every visited node. It
// returns the matching node, or 0 with the would-be parent on top of the stack
// and the last comparison result.
func (t *Tree[K, V]) findPath(key K) (Handle, int) {
	t.resetPath()
	h, c := t.root, 0
	for h != 0 {
		t.path = append(t.path, h)
		n := t.node(h)
		c = t.compare(key, n.key)
		switch {
		case c > 0:
			h = n.left
		case c < 0:
			h = n.right
		default:
			return h, 0
		}
	}
	return 0, c
}

// Find returns the value stored under key.
func (t *Tree[K, V]) Find(key K) (V, bool) {
	h := t.root
	for h != 0 {
		n := t.node(h)
		c := t.compare(key, n.key)
		switch {
		case c > 0:
			h = n.left
		case c < 0:
			h = n.right
		default:
			return n.value, true
		}
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Find(key)
	return ok
}

// Insert stores value under key.
//
// If an equal key exists, the old value is released through the value
// destructor and replaced. The stored key is kept; the supplied key is
// released through the key destructor unless it is the stored key itself.
// The only error is a node allocation failure, in which case the tree is
// unchanged.
func (t *Tree[K, V]) Insert(key K, value V) error {
	found, c := t.findPath(key)
	if found != 0 {
		n := t.node(found)
		if t.destroyKey != nil && !identical(n.key, key) {
			t.destroyKey(key)
		}
		if t.destroyValue != nil && !identical(n.value, value) {
			t.destroyValue(n.value)
		}
		n.value = value
		return nil
	}

	z, err := t.store.Alloc()
	if err != nil {
		return fmt.Errorf("avl: allocate node: %w", err)
	}
	*t.node(z) = Node[K, V]{key: key, value: value}
	t.count++

	x := t.top()
	if x == 0 {
		t.root = z
		t.height++
		return nil
	}
	if c > 0 {
		t.node(x).left = z
	} else {
		t.node(x).right = z
	}

	// Tag balanced ancestors as leaning towards the grown side until the first
	// one that already leaned.
	for {
		xn := t.node(x)
		if xn.bal != balanced {
			break
		}
		if xn.right == z {
			xn.bal = leanRight
		} else {
			xn.bal = leanLeft
		}
		t.pop()
		if len(t.path) == 0 {
			t.height++
			return nil
		}
		z = x
		x = t.top()
	}

	xn := t.node(x)
	grewRight := xn.right == z
	if (grewRight && xn.bal == leanLeft) || (!grewRight && xn.bal == leanRight) {
		xn.bal = balanced
		return nil
	}

	// x is out of bounds. One rotation restores it without changing the height
	// of the subtree, so nothing above needs retagging.
	var sub Handle
	if grewRight {
		if t.node(z).bal == leanLeft {
			sub = t.rotateRightLeft(x, z)
		} else {
			sub = t.rotateLeft(x, z)
		}
	} else {
		if t.node(z).bal == leanRight {
			sub = t.rotateLeftRight(x, z)
		} else {
			sub = t.rotateRight(x, z)
		}
	}
	t.pop()
	t.replaceChild(x, sub)
	return nil
}

// Remove deletes key and reports whether it was present. The key and value
// are released through the destructors before the node is freed.
func (t *Tree[K, V]) Remove(key K) bool {
	found, _ := t.findPath(key)
	if found == 0 {
		return false
	}
	n := t.node(found)
	if t.destroyKey != nil {
		t.destroyKey(n.key)
	}
	if t.destroyValue != nil {
		t.destroyValue(n.value)
	}

	// With two children, pull up the in-order neighbour on the side the node
	// leans to and unlink the neighbour instead.
	if n.left != 0 && n.right != 0 {
		var m Handle
		if n.bal == leanLeft {
			m = t.pathToPredecessor(found)
		} else {
			m = t.pathToSuccessor(found)
		}
		mn := t.node(m)
		n.key, n.value = mn.key, mn.value
	}

	victim := t.pop()
	vn := t.node(victim)
	child := vn.left
	if child == 0 {
		child = vn.right
	}
	shrunkLeft := false
	if p := t.top(); p != 0 {
		pn := t.node(p)
		if pn.left == victim {
			pn.left = child
			shrunkLeft = true
		} else {
			pn.right = child
		}
	} else {
		t.root = child
	}
	t.store.Free(victim)
	t.count--

	for len(t.path) > 0 {
		x := t.pop()
		xn := t.node(x)
		cur := x

		switch {
		case xn.bal == balanced:
			if shrunkLeft {
				xn.bal = leanRight
			} else {
				xn.bal = leanLeft
			}
			return true
		case (shrunkLeft && xn.bal == leanLeft) || (!shrunkLeft && xn.bal == leanRight):
			xn.bal = balanced
		case xn.bal == leanLeft:
			z := xn.left
			zb := t.node(z).bal
			if zb == leanRight {
				cur = t.rotateLeftRight(x, z)
			} else {
				cur = t.rotateRight(x, z)
			}
			t.replaceChild(x, cur)
			if zb == balanced {
				return true
			}
		case xn.bal == leanRight:
			z := xn.right
			zb := t.node(z).bal
			if zb == leanLeft {
				cur = t.rotateRightLeft(x, z)
			} else {
				cur = t.rotateLeft(x, z)
			}
			t.replaceChild(x, cur)
			if zb == balanced {
				return true
			}
		default:
			panic(fmt.Sprintf("avl: invalid balance tag %d", xn.bal))
		}

		if p := t.top(); p != 0 {
			shrunkLeft = t.node(p).left == cur
		}
	}

	t.height--
	return true
}

// Foreach calls visit for every entry in ascending key order until visit
// returns false.
func (t *Tree[K, V]) Foreach(visit func(key K, value V) bool) {
	if t.root == 0 || visit == nil {
		return
	}
	t.resetPath()
	h := t.root
	for {
		for h != 0 {
			t.path = append(t.path, h)
			h = t.node(h).left
		}
		if len(t.path) == 0 {
			return
		}
		n := t.node(t.pop())
		if !visit(n.key, n.value) {
			return
		}
		h = n.right
	}
}

// All returns an iterator over the entries in ascending key order.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.Foreach(yield)
	}
}

// Clear releases every key and value and frees all nodes. The tree stays
// usable.
func (t *Tree[K, V]) Clear() {
	if t.destroyKey != nil || t.destroyValue != nil {
		t.Foreach(func(k K, v V) bool {
			if t.destroyKey != nil {
				t.destroyKey(k)
			}
			if t.destroyValue != nil {
				t.destroyValue(v)
			}
			return true
		})
	}
	t.store.Reset()
	t.root = 0
	t.height = 0
	t.count = 0
	t.path = t.path[:0]
}

// Destroy clears the tree and closes its storage. The tree must not be used
// afterwards.
func (t *Tree[K, V]) Destroy() error {
	t.Clear()
	t.path = nil
	return t.store.Close()
}

func (t *Tree[K, V]) pathToPredecessor(h Handle) Handle {
	for n := t.node(h).left; n != 0; n = t.node(n).right {
		t.path = append(t.path, n)
	}
	return t.top()
}

func (t *Tree[K, V]) pathToSuccessor(h Handle) Handle {
	for n := t.node(h).right; n != 0; n = t.node(n).left {
		t.path = append(t.path, n)
	}
	return t.top()
}

// replaceChild links sub where old hung below the node on top of the stack,
// or makes it the root when the stack is empty.
func (t *Tree[K, V]) replaceChild(old, sub Handle) {
	p := t.top()
	if p == 0 {
		t.root = sub
		return
	}
	pn := t.node(p)
	if pn.left == old {
		pn.left = sub
	} else {
		pn.right = sub
	}
}
