// Package avl implements an AVL-balanced ordered map with pluggable node
// storage.
//
// # Comparator Convention
//
// Comparators receive (candidate, stored) and use an inverted sign: a positive
// result means the candidate sorts before the stored key and the search goes
// left, a negative result means it sorts after and the search goes right, and
// zero means the keys are equal. Ordered and ComparePointers build comparators
// that follow this rule.
//
// New requires a comparator and panics on nil. Keys that only have identity
// use NewIdentity, which orders them by address with ComparePointers.
//
// # Node Storage
//
// Nodes are addressed by Handle and live in a Storage. By default every tree
// owns an Arena, which draws from the Go heap in fixed-size chunks. The
// mempool package provides a Storage backed by a fixed-size memory pool; the
// pool's own address index is an Arena-backed tree, so pool and tree never
// allocate from each other recursively.
//
// # Ownership
//
// Keys and values belong to the tree until they are removed, overwritten or
// cleared; at that point they are handed to the destructors configured with
// WithKeyDestructor and WithValueDestructor.
//
//	t := avl.NewOrdered[int, string]()
//	_ = t.Insert(50, "a")
//	_ = t.Insert(20, "b")
//	for k, v := range t.All() {
//		fmt.Println(k, v)
//	}
package avl
