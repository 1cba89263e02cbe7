package gillespie

// Number is the set of propensity types an Engine accepts.
type Number interface {
	~float32 | ~float64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// drawn is the domain a firing draw lives in: float64 for floating
// propensities, uint64 for unsigned ones.
type drawn interface {
	~float64 | ~uint64
}

// isFloat reports whether T is a floating-point type.
func isFloat[T Number]() bool {
	var half T = 1
	half /= 2
	return half != 0
}

// isInf reports whether v is an infinity. Always false for unsigned types.
func isInf[T Number](v T) bool {
	return v == v && v-v != 0
}
