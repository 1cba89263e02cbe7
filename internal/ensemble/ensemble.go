// Package ensemble runs many independent sampling steps against a fixed
// scenario and checks the results against the statistics the direct method
// must reproduce.
package ensemble

import (
	"context"
	"fmt"
	"io"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Sandman83/gillespied/gillespie"
	"github.com/Sandman83/gillespied/internal/randutil"
	"github.com/Sandman83/gillespied/internal/statistics"
	"github.com/Sandman83/gillespied/randsrc"
)

// batchSize is how many steps a worker takes between cancellation checks
// and progress reports.
const batchSize = 1024

// Config holds configuration for running ensembles
type Config struct {
	Trials  int
	Workers int // 0 means runtime.NumCPU()
	Seed    int64
	Backend randsrc.Backend
	Timeout time.Duration // per scenario, measured on Clock; 0 means no limit
	Logger  *log.Logger
	Clock   quartz.Clock

	// Progress, if set, is called from worker goroutines with the number of
	// steps completed so far. It must be safe for concurrent use.
	Progress func(scenario string, done, total int)
}

// Runner runs scenarios with a fixed configuration.
type Runner struct {
	config Config
}

// New creates a new runner with the given configuration
func New(config Config) *Runner {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Runner{config: config}
}

// Run samples the scenario Trials times and returns the collected results.
// Each worker owns one engine and one source, seeded from the run seed and
// the worker number, so results are reproducible for a fixed Seed and
// Workers.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*Result, error) {
	if r.config.Trials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", r.config.Trials)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	switch sc.Numeric {
	case Float64:
		return run[float64](ctx, r, sc)
	case Float32:
		return run[float32](ctx, r, sc)
	case Uint64:
		return run[uint64](ctx, r, sc)
	case Uint32:
		return run[uint32](ctx, r, sc)
	default:
		return nil, fmt.Errorf("scenario %q: unknown numeric type %q", sc.Name, sc.Numeric)
	}
}

// RunAll runs every scenario in order, stopping at the first error.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]*Result, error) {
	results := make([]*Result, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := r.Run(ctx, sc)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// partial is one worker's share of a run.
type partial struct {
	tau       statistics.Summary
	indices   *statistics.Histogram
	quiescent int
}

func run[T gillespie.Number](ctx context.Context, r *Runner, sc Scenario) (*Result, error) {
	props, err := Convert[T](sc.Propensities)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	a0, err := gillespie.Accumulate(make([]T, len(props)), props)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	trials := r.config.Trials
	workers := min(r.config.Workers, trials)
	res := &Result{
		RunID:    uuid.NewString(),
		Scenario: sc,
		Backend:  r.config.Backend,
		Seed:     r.config.Seed,
		Trials:   trials,
		Workers:  workers,
		A0:       float64(a0),
		Weights:  make([]float64, len(props)),
		Tau:      &statistics.Summary{},
		Indices:  statistics.NewHistogram(len(props)),
	}
	for i, p := range props {
		res.Weights[i] = float64(p)
	}

	logger := r.config.Logger.WithPrefix("ensemble").With("run", res.RunID, "scenario", sc.Name)
	logger.Info("Starting ensemble",
		"variant", sc.Variant(),
		"backend", r.config.Backend,
		"trials", trials,
		"workers", workers,
		"a0", res.A0)

	if r.config.Timeout > 0 {
		var cancel context.CancelCauseFunc
		ctx, cancel = context.WithCancelCause(ctx)
		defer cancel(nil)
		timer := r.config.Clock.AfterFunc(r.config.Timeout, func() {
			cancel(context.DeadlineExceeded)
		}, "ensemble", "timeout")
		defer timer.Stop()
	}

	var done atomic.Int64
	report := func(steps int) {
		if steps == 0 {
			return
		}
		n := done.Add(int64(steps))
		if r.config.Progress != nil {
			r.config.Progress(sc.Name, int(n), trials)
		}
	}

	start := r.config.Clock.Now()
	parts := make([]*partial, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		share := trials / workers
		if w < trials%workers {
			share++
		}
		g.Go(func() error {
			p, err := work(gctx, r.config, w, share, sc.EngineConfig(), props, logger, report)
			if err != nil {
				return err
			}
			parts[w] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("Ensemble aborted", "error", err, "completed", done.Load())
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	for _, p := range parts {
		res.Tau.Merge(&p.tau)
		res.Quiescent += p.quiescent
		if err := res.Indices.Merge(p.indices); err != nil {
			return nil, err
		}
	}
	res.Elapsed = r.config.Clock.Since(start)
	if err := res.analyse(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	logger.Info("Finished ensemble",
		"elapsed", res.Elapsed,
		"mean_tau", res.Tau.Mean(),
		"deviation", res.MeanDeviation(),
		"p_value", res.Fit.PValue,
		"zero_hits", res.ZeroHits)
	return res, nil
}

// work runs one worker's share of trials with its own engine and source.
func work[T gillespie.Number](ctx context.Context, config Config, worker, trials int, ec gillespie.Config, props []T, logger *log.Logger, report func(int)) (*partial, error) {
	src, err := randsrc.New(config.Backend, randutil.Derive(config.Seed, worker))
	if err != nil {
		return nil, err
	}
	engine, err := gillespie.New[T](ec, src, gillespie.WithLogger(logger.With("worker", worker)))
	if err != nil {
		return nil, err
	}

	p := &partial{indices: statistics.NewHistogram(len(props))}
	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}
	for i := 0; i < trials; i++ {
		tau, idx := engine.Step(props)
		if math.IsInf(tau, 1) {
			p.quiescent++
		} else {
			p.tau.Add(tau)
		}
		if err := p.indices.Add(idx); err != nil {
			return nil, err
		}

		if (i+1)%batchSize == 0 {
			report(batchSize)
			if ctx.Err() != nil {
				return nil, context.Cause(ctx)
			}
		}
	}
	report(trials % batchSize)
	return p, nil
}

// analyse derives the goodness-of-fit figures once all trials are merged.
func (res *Result) analyse() error {
	if err := res.Tau.Validate(); err != nil {
		return fmt.Errorf("waiting time statistics: %w", err)
	}
	fit, err := res.Indices.ChiSquare(res.Weights)
	if err != nil {
		return err
	}
	res.Fit = fit
	res.ZeroHits = res.Indices.ZeroHits(res.Weights)
	if !res.Scenario.ExactTime && res.A0 > 0 {
		res.KS = statistics.KolmogorovSmirnov(res.Tau.Values, statistics.ExponentialCDF(res.A0))
	}
	return nil
}
