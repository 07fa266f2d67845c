// Package conv provides checked integer conversions.
//
// Pool geometry arrives as int from options and is stored in fixed-width
// fields (uint32 slot indices, uint64 node handles). These helpers reject
// values that would wrap instead of silently truncating them.
//
// For conversions that are provably safe by construction (loop indices,
// counters bounded by a validated group size), use direct casts instead.
package conv
