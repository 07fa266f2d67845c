package avl

import (
	"cmp"
	"reflect"
	"unsafe"
)

// Ordered returns the tree comparator for naturally ordered keys.
//
// Tree comparators use an inverted sign: compare(candidate, stored) is
// positive when candidate sorts before stored, negative when after, and zero
// when the keys are equal.
func Ordered[K cmp.Ordered]() func(a, b K) int {
	return func(a, b K) int {
		return cmp.Compare(b, a)
	}
}

// ComparePointers orders pointers by address, using the inverted tree
// convention. It is the comparator of choice when keys have identity but no
// natural order.
func ComparePointers[T any](a, b *T) int {
	pa, pb := uintptr(unsafe.Pointer(a)), uintptr(unsafe.Pointer(b)) //nolint:gosec // address identity only
	switch {
	case pa < pb:
		return 1
	case pa > pb:
		return -1
	}
	return 0
}

// identical reports whether a and b are the same value. Values whose dynamic
// type is not comparable are never identical.
func identical[T any](a, b T) bool {
	va, vb := reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem()
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}
