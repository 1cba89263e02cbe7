package gillespie

import "math"

// exactTau is the mean waiting time 1/a0. No randomness is consumed.
func exactTau[T Number](e *Engine[T]) float64 {
	if e.a0 == 0 {
		return math.Inf(1)
	}
	return 1 / float64(e.a0)
}

// sampledTau draws an exponential waiting time with rate a0.
//
// -ln(1-u) has the same distribution as -ln(u) for u in [0,1) but stays
// finite when the draw is exactly zero.
func sampledTau[T Number](e *Engine[T]) float64 {
	if e.a0 == 0 {
		return math.Inf(1)
	}
	return -math.Log1p(-e.src.UniformUnit()) / float64(e.a0)
}
