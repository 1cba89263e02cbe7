package statistics

import (
	"fmt"
	"math"
	"sort"
)

// Summary accumulates scalar observations such as sampled waiting times.
type Summary struct {
	Count  int
	Sum    float64
	SumSq  float64   // Sum of squares for variance calculation
	Min    float64
	Max    float64
	Values []float64 // Store all values for median/percentile calculation
}

// Add incorporates a new observation.
func (s *Summary) Add(v float64) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}
	s.Count++
	s.Sum += v
	s.SumSq += v * v
	s.Values = append(s.Values, v)
}

// Merge folds another summary into s.
func (s *Summary) Merge(o *Summary) {
	if o == nil || o.Count == 0 {
		return
	}
	if s.Count == 0 || o.Min < s.Min {
		s.Min = o.Min
	}
	if s.Count == 0 || o.Max > s.Max {
		s.Max = o.Max
	}
	s.Count += o.Count
	s.Sum += o.Sum
	s.SumSq += o.SumSq
	s.Values = append(s.Values, o.Values...)
}

// Mean returns the arithmetic mean of all observations
func (s *Summary) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Variance returns the sample variance of all observations
func (s *Summary) Variance() float64 {
	if s.Count < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumSq - float64(s.Count)*mean*mean) / float64(s.Count-1)
	if v < 0 {
		// cancellation when every observation is equal
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation
func (s *Summary) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Summary) StdError() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Count))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Summary) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median observation
func (s *Summary) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0),
// interpolating linearly between neighbouring observations.
func (s *Summary) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the summary is internally consistent.
func (s *Summary) Validate() error {
	if s.Count < 0 {
		return fmt.Errorf("negative observation count: %d", s.Count)
	}
	if len(s.Values) != s.Count {
		return fmt.Errorf("value count mismatch: Count=%d, len(Values)=%d", s.Count, len(s.Values))
	}
	if math.IsNaN(s.Sum) || math.IsNaN(s.SumSq) {
		return fmt.Errorf("NaN in accumulated sums: Sum=%v, SumSq=%v", s.Sum, s.SumSq)
	}
	if s.Count > 0 && (s.Mean() < s.Min-1e-9*math.Abs(s.Min) || s.Mean() > s.Max+1e-9*math.Abs(s.Max)) {
		return fmt.Errorf("mean %.6f outside observed range [%.6f, %.6f]", s.Mean(), s.Min, s.Max)
	}
	return nil
}
