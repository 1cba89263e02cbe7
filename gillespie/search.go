package gillespie

import (
	"math"
	"sort"
)

// Both strategies select the first cumulative value strictly greater than
// the draw r. With r in [0,a0) that is the inverse-CDF rule for a discrete
// distribution proportional to the propensities, and a zero propensity can
// never be chosen because its cumulative value equals its predecessor's.

// searchBinary returns the index of the first entry of the non-decreasing
// slice cum that is strictly greater than r, or len(cum) if there is none.
func searchBinary[T Number, R drawn](cum []T, r R) int {
	return sort.Search(len(cum), func(i int) bool {
		return R(cum[i]) > r
	})
}

// scanLinear accumulates propensities until the running sum is strictly
// greater than r and returns that index, or len(propensities).
func scanLinear[T Number, R drawn](propensities []T, r R) int {
	var acc T
	for i, p := range propensities {
		acc += p
		if R(acc) > r {
			return i
		}
	}
	return len(propensities)
}

// drawContinuous returns u·a0 for a [0,1) draw u, kept strictly below a0.
func drawContinuous[T Number](src Source, a0 T) float64 {
	limit := float64(a0)
	r := src.UniformUnit() * limit
	if r >= limit {
		// u close to 1 can round the product up to a0.
		r = math.Nextafter(limit, 0)
	}
	return r
}

// drawDiscrete returns an integer drawn uniformly from [0,a0).
func drawDiscrete[T Number](src Source, a0 T) uint64 {
	return src.UniformIndex(uint64(a0))
}
