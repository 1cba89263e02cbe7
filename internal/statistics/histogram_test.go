package statistics

import (
	"math"
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram_AddAndFrequencies(t *testing.T) {
	h := NewHistogram(3)
	for _, i := range []int{0, 1, 1, 2, 3} {
		require.NoError(t, h.Add(i))
	}
	assert.Equal(t, 3, h.Reactions())
	assert.Equal(t, 5, h.Total)
	assert.Equal(t, 1, h.Sentinel())
	assert.Equal(t, []float64{0.2, 0.4, 0.2, 0.2}, h.Frequencies())

	assert.Error(t, h.Add(4))
	assert.Error(t, h.Add(-1))
	assert.Equal(t, 5, h.Total)
}

func TestHistogram_EmptyFrequencies(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0}, NewHistogram(2).Frequencies())
}

func TestHistogram_Merge(t *testing.T) {
	a, b := NewHistogram(2), NewHistogram(2)
	require.NoError(t, a.Add(0))
	require.NoError(t, b.Add(1))
	require.NoError(t, b.Add(2))
	require.NoError(t, a.Merge(b))
	assert.Equal(t, []int{1, 1, 1}, a.Counts)
	assert.Equal(t, 3, a.Total)

	assert.Error(t, a.Merge(NewHistogram(5)))
}

func TestHistogram_ZeroHits(t *testing.T) {
	h := &Histogram{Counts: []int{4, 2, 0, 1}, Total: 7}
	assert.Equal(t, 2, h.ZeroHits([]float64{1, 0, 0}))
	assert.Equal(t, 0, h.ZeroHits([]float64{1, 1, 1}))
}

func TestHistogram_ChiSquare(t *testing.T) {
	t.Run("perfect fit", func(t *testing.T) {
		h := &Histogram{Counts: []int{100, 200, 300, 0}, Total: 600}
		fit, err := h.ChiSquare([]float64{1, 2, 3})
		require.NoError(t, err)
		assert.InDelta(t, 0, fit.ChiSquare, 1e-12)
		assert.Equal(t, 2, fit.DegreesOfFreedom)
		assert.InDelta(t, 1, fit.PValue, 1e-12)
	})

	t.Run("known statistic", func(t *testing.T) {
		// expected 50/50, observed 60/40: (10^2 + 10^2) / 50 = 4
		h := &Histogram{Counts: []int{60, 40, 0}, Total: 100}
		fit, err := h.ChiSquare([]float64{1, 1})
		require.NoError(t, err)
		assert.InDelta(t, 4, fit.ChiSquare, 1e-12)
		assert.Equal(t, 1, fit.DegreesOfFreedom)
		// P(chi2_1 > 4) = erfc(sqrt(2))
		assert.InDelta(t, math.Erfc(math.Sqrt2), fit.PValue, 1e-9)
	})

	t.Run("zero weights are excluded", func(t *testing.T) {
		h := &Histogram{Counts: []int{50, 0, 50, 0}, Total: 100}
		fit, err := h.ChiSquare([]float64{1, 0, 1})
		require.NoError(t, err)
		assert.Equal(t, 1, fit.DegreesOfFreedom)
		assert.InDelta(t, 0, fit.ChiSquare, 1e-12)
	})

	t.Run("single live reaction", func(t *testing.T) {
		h := &Histogram{Counts: []int{0, 9, 0}, Total: 9}
		fit, err := h.ChiSquare([]float64{0, 5})
		require.NoError(t, err)
		assert.Equal(t, 1.0, fit.PValue)
		assert.Zero(t, fit.DegreesOfFreedom)
	})

	t.Run("bad weights", func(t *testing.T) {
		h := NewHistogram(2)
		_, err := h.ChiSquare([]float64{1})
		assert.Error(t, err)
		_, err = h.ChiSquare([]float64{1, -1})
		assert.Error(t, err)
		_, err = h.ChiSquare([]float64{1, math.NaN()})
		assert.Error(t, err)
	})
}

func TestKolmogorovSmirnov(t *testing.T) {
	uniform := func(x float64) float64 { return math.Max(0, math.Min(1, x)) }

	assert.Zero(t, KolmogorovSmirnov(nil, uniform))
	// A single sample at 0.5: D = max(1 - 0.5, 0.5 - 0) = 0.5
	assert.InDelta(t, 0.5, KolmogorovSmirnov([]float64{0.5}, uniform), 1e-12)

	rng := rand.New(rand.NewPCG(1, 2))
	const rate = 3.0
	samples := make([]float64, 20000)
	for i := range samples {
		samples[i] = rng.ExpFloat64() / rate
	}
	d := KolmogorovSmirnov(samples, ExponentialCDF(rate))
	assert.Less(t, d, KSCritical(len(samples), 0.001))

	// Against the wrong rate the statistic is far beyond the critical value.
	wrong := KolmogorovSmirnov(samples, ExponentialCDF(2*rate))
	assert.Greater(t, wrong, KSCritical(len(samples), 0.001))
}

func TestKSCritical(t *testing.T) {
	// c(0.05) = 1.3581 for the asymptotic distribution
	assert.InDelta(t, 1.3581/10, KSCritical(100, 0.05), 1e-4)
	assert.True(t, math.IsInf(KSCritical(0, 0.05), 1))
}
