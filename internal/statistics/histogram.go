package statistics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Histogram counts how often each firing index was chosen. The final bucket
// holds the "no event" sentinel.
type Histogram struct {
	Counts []int
	Total  int
}

// NewHistogram returns a histogram for n reactions plus the sentinel.
func NewHistogram(n int) *Histogram {
	return &Histogram{Counts: make([]int, n+1)}
}

// Reactions returns the number of reaction buckets, excluding the sentinel.
func (h *Histogram) Reactions() int {
	return len(h.Counts) - 1
}

// Add records one firing index. Indices outside [0,n] are an error.
func (h *Histogram) Add(index int) error {
	if index < 0 || index >= len(h.Counts) {
		return fmt.Errorf("firing index %d outside [0, %d]", index, h.Reactions())
	}
	h.Counts[index]++
	h.Total++
	return nil
}

// Merge folds o into h. Both must have the same number of buckets.
func (h *Histogram) Merge(o *Histogram) error {
	if len(o.Counts) != len(h.Counts) {
		return fmt.Errorf("histogram size mismatch: %d vs %d", len(h.Counts), len(o.Counts))
	}
	for i, c := range o.Counts {
		h.Counts[i] += c
	}
	h.Total += o.Total
	return nil
}

// Sentinel returns how often no event was possible.
func (h *Histogram) Sentinel() int {
	return h.Counts[len(h.Counts)-1]
}

// Frequencies returns the relative frequency of every bucket.
func (h *Histogram) Frequencies() []float64 {
	freq := make([]float64, len(h.Counts))
	if h.Total == 0 {
		return freq
	}
	for i, c := range h.Counts {
		freq[i] = float64(c) / float64(h.Total)
	}
	return freq
}

// ZeroHits counts observations that landed on a reaction whose weight is
// zero. For a correct sampler it is always 0.
func (h *Histogram) ZeroHits(weights []float64) int {
	hits := 0
	for i, w := range weights {
		if w == 0 && i < h.Reactions() {
			hits += h.Counts[i]
		}
	}
	return hits
}

// GoodnessOfFit is the outcome of a chi-square test against expected
// weights.
type GoodnessOfFit struct {
	ChiSquare        float64
	DegreesOfFreedom int
	PValue           float64
}

// ChiSquare tests the reaction buckets against frequencies proportional to
// weights. Zero-weight reactions and the sentinel bucket are left out; use
// ZeroHits for those. With fewer than two live reactions there is nothing
// to test and the p-value is 1.
func (h *Histogram) ChiSquare(weights []float64) (GoodnessOfFit, error) {
	if len(weights) != h.Reactions() {
		return GoodnessOfFit{}, fmt.Errorf("weight count %d does not match %d reactions", len(weights), h.Reactions())
	}
	var obs, exp []float64
	total := 0.0
	live := 0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return GoodnessOfFit{}, fmt.Errorf("invalid weight %v at index %d", w, i)
		}
		if w > 0 {
			total += w
			live += h.Counts[i]
		}
	}
	for i, w := range weights {
		if w > 0 {
			obs = append(obs, float64(h.Counts[i]))
			exp = append(exp, float64(live)*w/total)
		}
	}
	if len(obs) < 2 || live == 0 {
		return GoodnessOfFit{PValue: 1}, nil
	}

	chi := stat.ChiSquare(obs, exp)
	df := len(obs) - 1
	return GoodnessOfFit{
		ChiSquare:        chi,
		DegreesOfFreedom: df,
		PValue:           distuv.ChiSquared{K: float64(df)}.Survival(chi),
	}, nil
}

// KolmogorovSmirnov returns the one-sample Kolmogorov-Smirnov statistic of
// samples against the continuous distribution function cdf.
func KolmogorovSmirnov(samples []float64, cdf func(float64) float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	d := 0.0
	for i, x := range sorted {
		f := cdf(x)
		d = math.Max(d, math.Max(float64(i+1)/n-f, f-float64(i)/n))
	}
	return d
}

// KSCritical returns the asymptotic critical value of the one-sample
// Kolmogorov-Smirnov statistic for n samples at significance alpha.
func KSCritical(n int, alpha float64) float64 {
	if n <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(-0.5*math.Log(alpha/2)) / math.Sqrt(float64(n))
}

// ExponentialCDF returns the distribution function of an exponential
// waiting time with the given rate.
func ExponentialCDF(rate float64) func(float64) float64 {
	return distuv.Exponential{Rate: rate}.CDF
}
