package gochart

import "math"

// Supersampling bounds. Geometry is built at nominal size times the
// multiplier, then downsampled to nominal size.
const (
	defaultMultiplier = 3
	minMultiplier     = 1
	maxMultiplier     = 5
)

// clampMultiplier maps an unset multiplier to the default and clamps the rest to 1-5.
func clampMultiplier(m int) int {
	if m <= 0 {
		return defaultMultiplier
	}
	if m > maxMultiplier {
		return maxMultiplier
	}
	return m
}

// clampUnit clamps v to [0, 1].
func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// floorPx truncates a device-pixel measure the way integer canvas sizes are derived.
func floorPx(v float64) float64 {
	return math.Floor(v)
}
