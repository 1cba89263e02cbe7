package gillespie

// Source supplies the uniform draws the engine consumes.
//
// Implementations need not be safe for concurrent use; an Engine only calls
// its Source from the goroutine driving it.
type Source interface {
	// UniformUnit returns a uniformly distributed value in [0,1).
	UniformUnit() float64

	// UniformIndex returns a uniformly distributed integer in [0,bound).
	// The engine never calls it with bound == 0.
	UniformIndex(bound uint64) uint64
}
