// Package core provides fundamental types shared by the duel engine and its
// front-ends. It has no external dependencies (especially no Bubble Tea) to
// keep game logic pure and testable.
package core

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
