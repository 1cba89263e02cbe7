package ensemble

import (
	"errors"
	"fmt"

	"github.com/Sandman83/gillespied/gillespie"
)

// Scenario is a fixed propensity vector and the engine variant to sample
// it with.
type Scenario struct {
	Name             string
	Propensities     []float64
	Numeric          Numeric
	ExactTime        bool
	PersistentBuffer bool
}

// EngineConfig returns the engine configuration for the scenario.
func (s Scenario) EngineConfig() gillespie.Config {
	return gillespie.Config{
		ExactTime:        s.ExactTime,
		PersistentBuffer: s.PersistentBuffer,
		ReactionCount:    len(s.Propensities),
	}
}

// Variant describes the scenario's engine variant and numeric type.
func (s Scenario) Variant() string {
	return fmt.Sprintf("%s %s", s.EngineConfig(), s.Numeric)
}

// Validate checks that the scenario can be run.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario name is required")
	}
	if len(s.Propensities) == 0 {
		return fmt.Errorf("scenario %q: at least one propensity is required", s.Name)
	}

	var err error
	switch s.Numeric {
	case Float64:
		_, err = Convert[float64](s.Propensities)
	case Float32:
		_, err = Convert[float32](s.Propensities)
	case Uint64:
		_, err = Convert[uint64](s.Propensities)
	case Uint32:
		_, err = Convert[uint32](s.Propensities)
	default:
		err = fmt.Errorf("unknown numeric type %q", s.Numeric)
	}
	if err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return nil
}
