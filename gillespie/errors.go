package gillespie

import (
	"errors"
	"fmt"
)

var (
	ErrEmpty       = errors.New("empty propensity vector")
	ErrNaN         = errors.New("propensity is NaN")
	ErrNegative    = errors.New("propensity is negative")
	ErrOverflow    = errors.New("total propensity overflows")
	ErrLength      = errors.New("propensity count does not match reaction count")
	ErrNotIngested = errors.New("engine queried before first ingestion")
	ErrConfig      = errors.New("invalid engine configuration")
)

// Fault is the panic value raised when an Engine is driven with malformed
// input. It wraps one of the sentinel errors above.
type Fault struct {
	Op  string
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("gillespie: %s: %v", f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func fault(op string, err error) {
	panic(&Fault{Op: op, Err: err})
}
