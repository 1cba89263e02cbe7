package ensemble

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Sandman83/gillespied/internal/statistics"
	"github.com/Sandman83/gillespied/randsrc"
)

// ErrCheckFailed is wrapped by every error Result.Check returns.
var ErrCheckFailed = errors.New("statistical check failed")

// meanTolerance is how many standard errors the sampled mean waiting time
// may stray from 1/a0.
const meanTolerance = 4

// Result holds everything collected while running one scenario.
type Result struct {
	RunID    string
	Scenario Scenario
	Backend  randsrc.Backend
	Seed     int64
	Trials   int
	Workers  int

	A0      float64
	Weights []float64

	Tau       *statistics.Summary // finite waiting times only
	Quiescent int                 // steps where no event was possible
	KS        float64             // sampled-time variants only

	Indices  *statistics.Histogram
	Fit      statistics.GoodnessOfFit
	ZeroHits int

	Elapsed time.Duration
}

// ExpectedTau returns the mean waiting time 1/a0, or +Inf when a0 is 0.
func (r *Result) ExpectedTau() float64 {
	if r.A0 == 0 {
		return math.Inf(1)
	}
	return 1 / r.A0
}

// MeanDeviation returns the mean of tau - 1/a0 over all finite waiting
// times.
func (r *Result) MeanDeviation() float64 {
	if r.Tau.Count == 0 {
		return 0
	}
	return r.Tau.Mean() - r.ExpectedTau()
}

// Throughput returns steps per second of wall-clock time.
func (r *Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Trials) / r.Elapsed.Seconds()
}

// Check applies the statistical properties every variant must satisfy:
//
//   - a quiescent system always yields +Inf and the sentinel index
//   - a zero-propensity reaction never fires
//   - exact waiting times equal 1/a0 on every step
//   - sampled waiting times average to 1/a0 and follow Exp(a0)
//   - firing frequencies are proportional to propensities
//
// alpha is the significance level for the distributional tests.
func (r *Result) Check(alpha float64) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrCheckFailed, fmt.Sprintf(format, args...)))
	}

	if r.A0 == 0 {
		if r.Quiescent != r.Trials {
			fail("%d of %d quiescent steps returned a finite waiting time", r.Trials-r.Quiescent, r.Trials)
		}
		if s := r.Indices.Sentinel(); s != r.Trials {
			fail("%d of %d quiescent steps returned a reaction index", r.Trials-s, r.Trials)
		}
		return errors.Join(errs...)
	}

	if r.Quiescent != 0 {
		fail("%d steps returned an infinite waiting time with a0 = %g", r.Quiescent, r.A0)
	}
	if s := r.Indices.Sentinel(); s != 0 {
		fail("%d steps returned the sentinel index with a0 = %g", s, r.A0)
	}
	if r.ZeroHits != 0 {
		fail("zero-propensity reactions fired %d times", r.ZeroHits)
	}

	want := r.ExpectedTau()
	if r.Scenario.ExactTime {
		if r.Tau.Min != want || r.Tau.Max != want {
			fail("exact waiting time ranged over [%g, %g], want %g", r.Tau.Min, r.Tau.Max, want)
		}
	} else {
		if dev, se := r.MeanDeviation(), r.Tau.StdError(); math.Abs(dev) > meanTolerance*se {
			fail("mean waiting time deviates from 1/a0 by %g (%.1f standard errors)", dev, dev/se)
		}
		if crit := statistics.KSCritical(r.Tau.Count, alpha); r.KS > crit {
			fail("waiting times are not Exp(%g): KS statistic %g exceeds %g", r.A0, r.KS, crit)
		}
	}

	if r.Fit.PValue < alpha {
		fail("firing frequencies do not match propensities: chi-square %g, df %d, p = %g",
			r.Fit.ChiSquare, r.Fit.DegreesOfFreedom, r.Fit.PValue)
	}
	return errors.Join(errs...)
}
