package ensemble

import (
	"fmt"
	"math"
	"strings"

	"github.com/Sandman83/gillespied/gillespie"
)

// Numeric names the propensity type a scenario runs with.
type Numeric string

const (
	Float64 Numeric = "float64"
	Float32 Numeric = "float32"
	Uint64  Numeric = "uint64"
	Uint32  Numeric = "uint32"
)

// Numerics lists every supported propensity type.
func Numerics() []Numeric {
	return []Numeric{Float64, Float32, Uint64, Uint32}
}

// ParseNumeric parses a numeric type name. The empty string means float64.
func ParseNumeric(name string) (Numeric, error) {
	n := Numeric(strings.ToLower(strings.TrimSpace(name)))
	if n == "" {
		return Float64, nil
	}
	for _, known := range Numerics() {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown numeric type %q (available: float64, float32, uint64, uint32)", name)
}

// Discrete reports whether the type draws firing indices as integers.
func (n Numeric) Discrete() bool {
	return n == Uint64 || n == Uint32
}

// Convert turns propensities given as float64 into T. Unsigned targets
// require whole numbers that fit; floating targets may round. The result
// must also be acceptable to an engine.
func Convert[T gillespie.Number](values []float64) ([]T, error) {
	limit, discrete := bounds[T]()
	out := make([]T, len(values))
	for i, v := range values {
		if math.IsNaN(v) || v < 0 {
			return nil, fmt.Errorf("propensity %d: %v is not a non-negative number", i, v)
		}
		if discrete && (v != math.Trunc(v) || v >= limit) {
			return nil, fmt.Errorf("propensity %d: %v is not representable as %T", i, v, out[0])
		}
		if !discrete && v > limit {
			return nil, fmt.Errorf("propensity %d: %v overflows %T", i, v, out[0])
		}
		out[i] = T(v)
	}
	if err := gillespie.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// bounds returns the largest floating value T holds (inclusive) or, for
// unsigned types, the first whole number it cannot hold.
func bounds[T gillespie.Number]() (float64, bool) {
	switch any(*new(T)).(type) {
	case float32:
		return math.MaxFloat32, false
	case uint8:
		return 1 << 8, true
	case uint16:
		return 1 << 16, true
	case uint32:
		return 1 << 32, true
	case uint64, uint:
		return 0x1p64, true
	default:
		return math.MaxFloat64, false
	}
}
