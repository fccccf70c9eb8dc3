package common

import "golang.org/x/exp/constraints"

// Clamp restricts v to [lo, hi]. Used by the color converter
// (YCbCrToRGB and GrayToRGB) — one generic helper in place of a
// hand-duplicated clamp per call site.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DivCeil returns ceil(a/b) for positive integers, used to size the MCU
// grid from the image dimensions (spec.md §3: mcuWidth = ⌈w/8⌉).
func DivCeil(a, b int) int {
	return (a + b - 1) / b
}
