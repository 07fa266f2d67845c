package avl

// rotateLeft rotates the subtree rooted at x, whose right child is z, to the
// left and returns the new subtree root.
func (t *Tree[K, V]) rotateLeft(x, z Handle) Handle {
	xn, zn := t.node(x), t.node(z)
	xn.right = zn.left
	zn.left = x

	if zn.bal == balanced { // only reachable from Remove
		xn.bal = leanRight
		zn.bal = leanLeft
	} else {
		xn.bal = balanced
		zn.bal = balanced
	}
	return z
}

// rotateRight mirrors rotateLeft; z is the left child of x.
func (t *Tree[K, V]) rotateRight(x, z Handle) Handle {
	xn, zn := t.node(x), t.node(z)
	xn.left = zn.right
	zn.right = x

	if zn.bal == balanced { // only reachable from Remove
		xn.bal = leanLeft
		zn.bal = leanRight
	} else {
		xn.bal = balanced
		zn.bal = balanced
	}
	return z
}

// rotateRightLeft rotates z (the right child of x) right, then x left.
func (t *Tree[K, V]) rotateRightLeft(x, z Handle) Handle {
	xn, zn := t.node(x), t.node(z)
	y := zn.left
	yn := t.node(y)

	zn.left = yn.right
	yn.right = z
	xn.right = yn.left
	yn.left = x

	switch yn.bal {
	case leanLeft:
		xn.bal = balanced
		zn.bal = leanRight
	case leanRight:
		xn.bal = leanLeft
		zn.bal = balanced
	default:
		xn.bal = balanced
		zn.bal = balanced
	}
	yn.bal = balanced
	return y
}

// rotateLeftRight rotates z (the left child of x) left, then x right.
func (t *Tree[K, V]) rotateLeftRight(x, z Handle) Handle {
	xn, zn := t.node(x), t.node(z)
	y := zn.right
	yn := t.node(y)

	zn.right = yn.left
	yn.left = z
	xn.left = yn.right
	yn.right = x

	switch yn.bal {
	case leanRight:
		xn.bal = balanced
		zn.bal = leanLeft
	case leanLeft:
		xn.bal = leanRight
		zn.bal = balanced
	default:
		xn.bal = balanced
		zn.bal = balanced
	}
	yn.bal = balanced
	return y
}
