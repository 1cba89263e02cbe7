package gillespie

import "fmt"

// Accumulate writes the running sum of propensities into dst and returns
// the total. dst must be exactly as long as propensities. On error dst may
// have been partially overwritten.
func Accumulate[T Number](dst, propensities []T) (T, error) {
	if len(propensities) == 0 {
		return 0, ErrEmpty
	}
	if len(dst) != len(propensities) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrLength, len(propensities), len(dst))
	}
	var acc T
	for i, p := range propensities {
		next, err := step(acc, p, i)
		if err != nil {
			return 0, err
		}
		acc = next
		dst[i] = acc
	}
	return acc, nil
}

// Validate reports whether propensities can be ingested: it must be
// non-empty, free of NaN and negative values, and its total must be finite
// and representable in T.
func Validate[T Number](propensities []T) error {
	_, err := total(propensities)
	return err
}

func total[T Number](propensities []T) (T, error) {
	if len(propensities) == 0 {
		return 0, ErrEmpty
	}
	var acc T
	for i, p := range propensities {
		next, err := step(acc, p, i)
		if err != nil {
			return 0, err
		}
		acc = next
	}
	return acc, nil
}

// step adds p to the running sum acc, checking p and the result.
func step[T Number](acc, p T, i int) (T, error) {
	if p != p {
		return 0, fmt.Errorf("%w at index %d", ErrNaN, i)
	}
	if p < 0 {
		return 0, fmt.Errorf("%w at index %d: %v", ErrNegative, i, p)
	}
	next := acc + p
	// Unsigned sums wrap below acc; floating sums saturate at +Inf.
	if next < acc || isInf(next) {
		return 0, fmt.Errorf("%w at index %d", ErrOverflow, i)
	}
	return next, nil
}
