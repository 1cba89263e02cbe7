// Package config loads validation run configuration from HCL or YAML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/Sandman83/gillespied/internal/ensemble"
	"github.com/Sandman83/gillespied/randsrc"
)

// Config represents a complete validation run
type Config struct {
	Run       *RunSettings     `hcl:"run,block" yaml:"run"`
	Scenarios []ScenarioConfig `hcl:"scenario,block" yaml:"scenarios"`
}

// RunSettings contains run-level configuration
type RunSettings struct {
	Trials   int     `hcl:"trials,optional" yaml:"trials"`
	Workers  int     `hcl:"workers,optional" yaml:"workers"`
	Seed     int64   `hcl:"seed,optional" yaml:"seed"`
	Backend  string  `hcl:"backend,optional" yaml:"backend"`
	LogLevel string  `hcl:"log_level,optional" yaml:"log_level"`
	Timeout  string  `hcl:"timeout,optional" yaml:"timeout"`
	Alpha    float64 `hcl:"alpha,optional" yaml:"alpha"`
}

// ScenarioConfig defines one propensity vector and engine variant
type ScenarioConfig struct {
	Name             string    `hcl:"name,label" yaml:"name"`
	Propensities     []float64 `hcl:"propensities" yaml:"propensities"`
	Numeric          string    `hcl:"numeric,optional" yaml:"numeric"`
	ExactTime        bool      `hcl:"exact_time,optional" yaml:"exact_time"`
	PersistentBuffer bool      `hcl:"persistent_buffer,optional" yaml:"persistent_buffer"`
}

const (
	defaultTrials   = 100000
	defaultSeed     = 1
	defaultLogLevel = "info"
	defaultAlpha    = 1e-3
)

// DefaultConfig returns the built-in run: one scenario per engine variant
// over a vector with zero and non-zero propensities.
func DefaultConfig() *Config {
	props := []float64{1, 0, 2.5, 4, 0, 0.5}
	cfg := &Config{Run: &RunSettings{}}
	for _, exact := range []bool{true, false} {
		for _, persistent := range []bool{true, false} {
			sc := ScenarioConfig{
				Propensities:     props,
				Numeric:          string(ensemble.Float64),
				ExactTime:        exact,
				PersistentBuffer: persistent,
			}
			sc.Name = strings.ReplaceAll(sc.scenario().EngineConfig().String(), "/", "-")
			cfg.Scenarios = append(cfg.Scenarios, sc)
		}
	}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from an HCL file, or YAML when the file
// ends in .yaml or .yml. A missing file yields DefaultConfig.
func LoadConfig(filename string) (*Config, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	var config Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}
		diags = gohcl.DecodeBody(file.Body, nil, &config)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Run == nil {
		c.Run = &RunSettings{}
	}
	if c.Run.Trials == 0 {
		c.Run.Trials = defaultTrials
	}
	if c.Run.Seed == 0 {
		c.Run.Seed = defaultSeed
	}
	if c.Run.Backend == "" {
		c.Run.Backend = randsrc.PCG.String()
	}
	if c.Run.LogLevel == "" {
		c.Run.LogLevel = defaultLogLevel
	}
	if c.Run.Alpha == 0 {
		c.Run.Alpha = defaultAlpha
	}
	for i := range c.Scenarios {
		if c.Scenarios[i].Numeric == "" {
			c.Scenarios[i].Numeric = string(ensemble.Float64)
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Run.Trials < 1 {
		return fmt.Errorf("invalid trials: %d", c.Run.Trials)
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("invalid workers: %d", c.Run.Workers)
	}
	if _, err := randsrc.ParseBackend(c.Run.Backend); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Run.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Run.LogLevel, err)
	}
	if _, err := c.Run.TimeoutDuration(); err != nil {
		return err
	}
	if c.Run.Alpha <= 0 || c.Run.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %v", c.Run.Alpha)
	}

	if len(c.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario must be configured")
	}
	seen := make(map[string]bool, len(c.Scenarios))
	for _, sc := range c.Scenarios {
		if seen[sc.Name] {
			return fmt.Errorf("scenario %s: defined more than once", sc.Name)
		}
		seen[sc.Name] = true
		if _, err := ensemble.ParseNumeric(sc.Numeric); err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		if err := sc.scenario().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TimeoutDuration parses the per-scenario timeout. Empty means no limit.
func (r *RunSettings) TimeoutDuration() (time.Duration, error) {
	if r.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", r.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", r.Timeout)
	}
	return d, nil
}

// EnsembleConfig builds the runner configuration from the run settings.
func (c *Config) EnsembleConfig(logger *log.Logger) (ensemble.Config, error) {
	backend, err := randsrc.ParseBackend(c.Run.Backend)
	if err != nil {
		return ensemble.Config{}, err
	}
	timeout, err := c.Run.TimeoutDuration()
	if err != nil {
		return ensemble.Config{}, err
	}
	return ensemble.Config{
		Trials:  c.Run.Trials,
		Workers: c.Run.Workers,
		Seed:    c.Run.Seed,
		Backend: backend,
		Timeout: timeout,
		Logger:  logger,
	}, nil
}

// EnsembleScenarios converts the configured scenarios, keeping only those
// named in filter when it is non-empty.
func (c *Config) EnsembleScenarios(filter []string) ([]ensemble.Scenario, error) {
	want := make(map[string]bool, len(filter))
	for _, name := range filter {
		want[name] = true
	}
	found := make(map[string]bool, len(filter))
	var out []ensemble.Scenario
	for _, sc := range c.Scenarios {
		if len(want) > 0 && !want[sc.Name] {
			continue
		}
		found[sc.Name] = true
		out = append(out, sc.scenario())
	}
	for _, name := range filter {
		if !found[name] {
			return nil, fmt.Errorf("scenario %s: not configured", name)
		}
	}
	return out, nil
}

func (sc ScenarioConfig) scenario() ensemble.Scenario {
	numeric, err := ensemble.ParseNumeric(sc.Numeric)
	if err != nil {
		numeric = ensemble.Numeric(sc.Numeric)
	}
	return ensemble.Scenario{
		Name:             sc.Name,
		Propensities:     sc.Propensities,
		Numeric:          numeric,
		ExactTime:        sc.ExactTime,
		PersistentBuffer: sc.PersistentBuffer,
	}
}
