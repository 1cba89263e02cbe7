// Package randsrc provides the random sources an engine can draw from.
//
// Two interchangeable backends exist: the PCG generator from math/rand/v2
// and gonum's 64-bit Mersenne Twister. Both are deterministic for a given
// seed and neither is safe for concurrent use.
package randsrc

import (
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/Sandman83/gillespied/internal/randutil"
	"gonum.org/v1/gonum/mathext/prng"
)

// Backend identifies a generator implementation.
type Backend int

const (
	PCG Backend = iota
	MT19937
)

func (b Backend) String() string {
	switch b {
	case PCG:
		return "pcg"
	case MT19937:
		return "mt19937"
	default:
		return "unknown"
	}
}

// Backends lists every supported backend.
func Backends() []Backend {
	return []Backend{PCG, MT19937}
}

// ParseBackend parses a backend name as printed by Backend.String.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pcg", "":
		return PCG, nil
	case "mt19937", "mt":
		return MT19937, nil
	default:
		return 0, fmt.Errorf("unknown random backend %q (available: pcg, mt19937)", name)
	}
}

// Source adapts a generator to the draws the engine consumes.
type Source struct {
	rng     *rand.Rand
	backend Backend
}

// New returns a Source for backend seeded with seed.
func New(backend Backend, seed int64) (*Source, error) {
	switch backend {
	case PCG:
		return NewPCG(seed), nil
	case MT19937:
		return NewMT19937(seed), nil
	default:
		return nil, fmt.Errorf("unknown random backend %d", int(backend))
	}
}

// NewPCG returns a PCG-backed Source.
func NewPCG(seed int64) *Source {
	return &Source{rng: randutil.New(seed), backend: PCG}
}

// NewMT19937 returns a Mersenne Twister backed Source.
func NewMT19937(seed int64) *Source {
	mt := prng.NewMT19937()
	mt.Seed(randutil.Mix(uint64(seed)))
	return &Source{rng: rand.New(mt), backend: MT19937}
}

// UniformUnit returns a uniform float64 in [0,1).
func (s *Source) UniformUnit() float64 {
	return s.rng.Float64()
}

// UniformIndex returns a uniform integer in [0,bound). It panics if bound
// is zero.
func (s *Source) UniformIndex(bound uint64) uint64 {
	return s.rng.Uint64N(bound)
}

// Backend reports which generator the Source wraps.
func (s *Source) Backend() Backend {
	return s.backend
}
