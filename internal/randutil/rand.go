package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by the
// PCG generator so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(Mix(u), Mix(u+goldenRatio64)))
}

// Mix is the splitmix64 finaliser. It spreads nearby seeds far apart.
func Mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Derive returns the seed for an independent stream of a run seeded with
// seed. Streams 0, 1, 2... never collide with each other for a fixed seed.
func Derive(seed int64, stream int) int64 {
	return int64(Mix(uint64(seed) + uint64(stream+1)*goldenRatio64))
}
