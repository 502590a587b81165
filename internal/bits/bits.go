// Package bits provides the range-reduction primitives used to map hash
// values onto bucket intervals.
//
// Two interchangeable reducers are provided. FastRange is the default:
// a multiply-shift ("fastrange") reduction that avoids the division
// instruction entirely. ModRange is the portable fallback with exact
// uniformity. The engine resolves one of the two at construction time;
// correctness depends only on determinism and near-uniformity, so the two
// need not agree with each other.
package bits

import "math/bits"

// FastRange maps a 64-bit hash uniformly to [0, n) without division.
// Uses the "fastrange" technique: multiply and take the high word. The
// bias this introduces is negligible for the bounds used here (n fits in
// 16 bits against a 64-bit hash).
//
// n must be greater than zero.
func FastRange(hash uint64, n uint32) uint32 {
	hi, _ := bits.Mul64(hash, uint64(n))
	return uint32(hi)
}

// ModRange maps a 64-bit hash to [0, n) by modulo reduction. Exact and
// portable; used where an efficient widening multiply is unavailable or
// fastrange has been disabled.
//
// n must be greater than zero.
func ModRange(hash uint64, n uint32) uint32 {
	return uint32(hash % uint64(n))
}
