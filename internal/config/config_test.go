package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandman83/gillespied/internal/ensemble"
	"github.com/Sandman83/gillespied/randsrc"
)

func assertFullConfig(t *testing.T, cfg *Config) {
	t.Helper()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5000, cfg.Run.Trials)
	assert.Equal(t, 2, cfg.Run.Workers)
	assert.Equal(t, int64(99), cfg.Run.Seed)
	assert.Equal(t, "mt19937", cfg.Run.Backend)
	assert.Equal(t, "debug", cfg.Run.LogLevel)
	assert.Equal(t, 0.01, cfg.Run.Alpha)

	require.Len(t, cfg.Scenarios, 2)
	decay := cfg.Scenarios[0]
	assert.Equal(t, "decay", decay.Name)
	assert.Equal(t, []float64{3, 0, 1}, decay.Propensities)
	assert.Equal(t, "float64", decay.Numeric)
	assert.True(t, decay.ExactTime)
	assert.True(t, decay.PersistentBuffer)

	counts := cfg.Scenarios[1]
	assert.Equal(t, "uint32", counts.Numeric)
	assert.False(t, counts.ExactTime)

	ec, err := cfg.EnsembleConfig(log.Default())
	require.NoError(t, err)
	assert.Equal(t, randsrc.MT19937, ec.Backend)
	assert.Equal(t, 30*time.Second, ec.Timeout)
	assert.Equal(t, 5000, ec.Trials)
}

func TestLoadConfig_HCL(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "full.hcl"))
	require.NoError(t, err)
	assertFullConfig(t, cfg)
}

func TestLoadConfig_YAML(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)
	assertFullConfig(t, cfg)
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "minimal.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, defaultTrials, cfg.Run.Trials)
	assert.Equal(t, int64(defaultSeed), cfg.Run.Seed)
	assert.Equal(t, "pcg", cfg.Run.Backend)
	assert.Equal(t, "info", cfg.Run.LogLevel)
	assert.Equal(t, defaultAlpha, cfg.Run.Alpha)
	assert.Zero(t, cfg.Run.Workers)
	assert.Equal(t, "float64", cfg.Scenarios[0].Numeric)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	names := make([]string, len(cfg.Scenarios))
	for i, sc := range cfg.Scenarios {
		names[i] = sc.Name
	}
	assert.Equal(t, []string{"exact-persistent", "exact-scan", "sampled-persistent", "sampled-scan"}, names)
}

func TestLoadConfig_ParseError(t *testing.T) {
	_, err := LoadConfig(filepath.Join("testdata", "broken.hcl"))
	assert.ErrorContains(t, err, "failed to parse HCL file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"trials", func(c *Config) { c.Run.Trials = -1 }, "invalid trials"},
		{"workers", func(c *Config) { c.Run.Workers = -2 }, "invalid workers"},
		{"backend", func(c *Config) { c.Run.Backend = "xorshift" }, "unknown random backend"},
		{"log level", func(c *Config) { c.Run.LogLevel = "loud" }, "invalid log level"},
		{"timeout", func(c *Config) { c.Run.Timeout = "soon" }, "invalid timeout"},
		{"negative timeout", func(c *Config) { c.Run.Timeout = "-1s" }, "must not be negative"},
		{"alpha", func(c *Config) { c.Run.Alpha = 1 }, "alpha must be in (0, 1)"},
		{"no scenarios", func(c *Config) { c.Scenarios = nil }, "at least one scenario"},
		{"duplicate", func(c *Config) { c.Scenarios[1].Name = c.Scenarios[0].Name }, "defined more than once"},
		{"numeric", func(c *Config) { c.Scenarios[0].Numeric = "int16" }, "unknown numeric type"},
		{"negative propensity", func(c *Config) { c.Scenarios[0].Propensities = []float64{1, -1} }, "not a non-negative number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestEnsembleScenarios(t *testing.T) {
	cfg := DefaultConfig()

	all, err := cfg.EnsembleScenarios(nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	some, err := cfg.EnsembleScenarios([]string{"sampled-scan"})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, ensemble.Scenario{
		Name:         "sampled-scan",
		Propensities: []float64{1, 0, 2.5, 4, 0, 0.5},
		Numeric:      ensemble.Float64,
	}, some[0])

	_, err = cfg.EnsembleScenarios([]string{"missing"})
	assert.ErrorContains(t, err, "scenario missing: not configured")
}
