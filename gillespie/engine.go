package gillespie

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Config selects the algorithm variant. It is fixed for the lifetime of an
// Engine.
type Config struct {
	// ExactTime makes WaitingTime return 1/a0 without a random draw.
	ExactTime bool

	// PersistentBuffer keeps the cumulative sum in an owned buffer and
	// defers index selection to a binary search on each FiringIndex call.
	PersistentBuffer bool

	// ReactionCount fixes the propensity vector length. Required when
	// PersistentBuffer is set; optional otherwise, where a non-zero value
	// is still enforced on every ingestion.
	ReactionCount int
}

func (c Config) validate() error {
	if c.ReactionCount < 0 {
		return fmt.Errorf("%w: negative reaction count %d", ErrConfig, c.ReactionCount)
	}
	if c.PersistentBuffer && c.ReactionCount == 0 {
		return fmt.Errorf("%w: persistent buffer requires a reaction count", ErrConfig)
	}
	return nil
}

// String names the variant, e.g. "sampled/persistent".
func (c Config) String() string {
	timing := "sampled"
	if c.ExactTime {
		timing = "exact"
	}
	search := "scan"
	if c.PersistentBuffer {
		search = "persistent"
	}
	return timing + "/" + search
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger used for debug output. By default the engine
// logs nothing.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Engine samples waiting times and firing indices for one simulation.
type Engine[T Number] struct {
	config Config
	src    Source
	logger *log.Logger

	cum       []T // persistent variant only
	a0        T
	n         int
	next      int // non-persistent variant only
	ingested  bool
	quiescent bool

	ingest func(e *Engine[T], propensities []T)
	index  func(e *Engine[T]) int
	tau    func(e *Engine[T]) float64
}

// New returns an Engine for the given configuration drawing from src.
func New[T Number](config Config, src Source, opts ...Option) (*Engine[T], error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrConfig)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	e := &Engine[T]{
		config: config,
		src:    src,
		logger: o.logger.WithPrefix("engine"),
		n:      config.ReactionCount,
	}

	continuous := isFloat[T]()
	switch {
	case config.PersistentBuffer && continuous:
		e.cum = make([]T, config.ReactionCount)
		e.ingest = ingestBuffered[T]
		e.index = bufferedIndex[T](drawContinuous[T])
	case config.PersistentBuffer:
		e.cum = make([]T, config.ReactionCount)
		e.ingest = ingestBuffered[T]
		e.index = bufferedIndex[T](drawDiscrete[T])
	case continuous:
		e.ingest = scanningIngest[T](drawContinuous[T])
		e.index = cachedIndex[T]
	default:
		e.ingest = scanningIngest[T](drawDiscrete[T])
		e.index = cachedIndex[T]
	}
	if config.ExactTime {
		e.tau = exactTau[T]
	} else {
		e.tau = sampledTau[T]
	}

	e.logger.Debug("engine created",
		"variant", config.String(),
		"continuous", continuous,
		"reactions", config.ReactionCount)
	return e, nil
}

// Ingest folds a fresh propensity vector into the engine. It panics with a
// *Fault if the vector is malformed; after such a panic the engine must be
// ingested again before it is queried.
func (e *Engine[T]) Ingest(propensities []T) {
	e.ingested = false
	e.ingest(e, propensities)
	e.ingested = true
}

// WaitingTime returns the time until the next event, or +Inf when no event
// is possible. In the sampled-time variant every call draws afresh.
func (e *Engine[T]) WaitingTime() float64 {
	e.mustBeIngested("WaitingTime")
	return e.tau(e)
}

// FiringIndex returns the index of the reaction that fires next, or the
// reaction count when no event is possible. In the persistent variant every
// call draws afresh; otherwise the index chosen during Ingest is returned.
func (e *Engine[T]) FiringIndex() int {
	e.mustBeIngested("FiringIndex")
	return e.index(e)
}

// Step ingests propensities and returns the waiting time and firing index,
// in that order.
func (e *Engine[T]) Step(propensities []T) (float64, int) {
	e.Ingest(propensities)
	return e.tau(e), e.index(e)
}

// A0 returns the total propensity from the last ingestion.
func (e *Engine[T]) A0() T {
	e.mustBeIngested("A0")
	return e.a0
}

// Cumulative returns the running sum from the last ingestion in the
// persistent variant, and nil otherwise. It is also nil before the first
// Ingest and after a faulted one. The slice is owned by the engine and
// overwritten by the next Ingest.
func (e *Engine[T]) Cumulative() []T {
	if !e.ingested {
		return nil
	}
	return e.cum
}

// ReactionCount returns the length of the last ingested vector, which is
// also the "no event" sentinel returned by FiringIndex.
func (e *Engine[T]) ReactionCount() int {
	return e.n
}

// Config returns the configuration the engine was built with.
func (e *Engine[T]) Config() Config {
	return e.config
}

func (e *Engine[T]) mustBeIngested(op string) {
	if !e.ingested {
		fault(op, ErrNotIngested)
	}
}

func (e *Engine[T]) setTotal(a0 T) {
	e.a0 = a0
	if quiet := a0 == 0; quiet != e.quiescent {
		e.quiescent = quiet
		e.logger.Debug("quiescence changed", "quiescent", quiet, "reactions", e.n)
	}
}

func ingestBuffered[T Number](e *Engine[T], propensities []T) {
	a0, err := Accumulate(e.cum, propensities)
	if err != nil {
		fault("Ingest", err)
	}
	e.setTotal(a0)
}

func bufferedIndex[T Number, R drawn](draw func(Source, T) R) func(*Engine[T]) int {
	return func(e *Engine[T]) int {
		if e.a0 == 0 {
			return e.n
		}
		return searchBinary(e.cum, draw(e.src, e.a0))
	}
}

// scanningIngest totals the vector in a first pass and, when an event is
// possible, picks the firing index by re-accumulating in a second pass.
func scanningIngest[T Number, R drawn](draw func(Source, T) R) func(*Engine[T], []T) {
	return func(e *Engine[T], propensities []T) {
		if e.config.ReactionCount != 0 && len(propensities) != e.config.ReactionCount {
			fault("Ingest", fmt.Errorf("%w: got %d, want %d", ErrLength, len(propensities), e.config.ReactionCount))
		}
		a0, err := total(propensities)
		if err != nil {
			fault("Ingest", err)
		}
		e.n = len(propensities)
		e.setTotal(a0)
		if a0 == 0 {
			e.next = e.n
			return
		}
		e.next = scanLinear(propensities, draw(e.src, a0))
	}
}

func cachedIndex[T Number](e *Engine[T]) int {
	return e.next
}
