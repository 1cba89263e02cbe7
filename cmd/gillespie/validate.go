package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/Sandman83/gillespied/internal/config"
	"github.com/Sandman83/gillespied/internal/ensemble"
	"github.com/Sandman83/gillespied/internal/progress"
	"github.com/Sandman83/gillespied/internal/report"
)

type ValidateCmd struct {
	Config   string   `short:"c" default:"gillespie.hcl" help:"Path to HCL or YAML configuration file"`
	Scenario []string `short:"s" help:"Only run the named scenarios"`
	Trials   int      `short:"n" help:"Steps per scenario (overrides config)"`
	Workers  int      `short:"w" help:"Worker goroutines (overrides config)"`
	Seed     int64    `help:"Random seed (overrides config)"`
	Backend  string   `help:"Random backend, pcg or mt19937 (overrides config)"`
	Timeout  string   `help:"Per-scenario time limit, e.g. 30s (overrides config)"`
	Alpha    float64  `help:"Significance level for distribution tests (overrides config)"`
	LogLevel string   `short:"l" help:"Log level (overrides config)"`
	Progress bool     `help:"Show a live progress bar instead of log lines"`
	Styled   bool     `help:"Colour the report for the terminal"`
}

// applyOverrides copies every flag that was set onto cfg.
func (c *ValidateCmd) applyOverrides(cfg *config.Config) {
	if c.Trials != 0 {
		cfg.Run.Trials = c.Trials
	}
	if c.Workers != 0 {
		cfg.Run.Workers = c.Workers
	}
	if c.Seed != 0 {
		cfg.Run.Seed = c.Seed
	}
	if c.Backend != "" {
		cfg.Run.Backend = c.Backend
	}
	if c.Timeout != "" {
		cfg.Run.Timeout = c.Timeout
	}
	if c.Alpha != 0 {
		cfg.Run.Alpha = c.Alpha
	}
	if c.LogLevel != "" {
		cfg.Run.LogLevel = c.LogLevel
	}
}

func (c *ValidateCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	c.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logLevel := cfg.Run.LogLevel
	if c.Progress {
		// Log lines would tear the progress display.
		logLevel = log.ErrorLevel.String()
	}
	logger, err := newLogger(os.Stderr, logLevel)
	if err != nil {
		return err
	}

	results, err := c.run(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if c.Styled {
		err = report.RenderStyled(os.Stdout, termenv.EnvColorProfile(), results, cfg.Run.Alpha)
	} else {
		err = report.Render(os.Stdout, results, cfg.Run.Alpha)
	}
	if err != nil {
		return err
	}
	if failed := report.Failed(results, cfg.Run.Alpha); failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed validation", failed, len(results))
	}
	return nil
}

// run executes the configured scenarios, optionally behind a progress
// display on stderr.
func (c *ValidateCmd) run(ctx context.Context, cfg *config.Config, logger *log.Logger) ([]*ensemble.Result, error) {
	ec, err := cfg.EnsembleConfig(logger)
	if err != nil {
		return nil, err
	}
	scenarios, err := cfg.EnsembleScenarios(c.Scenario)
	if err != nil {
		return nil, err
	}

	logger.Info("Starting validation",
		"config", c.Config,
		"scenarios", len(scenarios),
		"trials", ec.Trials,
		"backend", ec.Backend,
		"seed", ec.Seed)

	if !c.Progress {
		return ensemble.New(ec).RunAll(ctx, scenarios)
	}
	return runWithProgress(ctx, ec, scenarios, os.Stderr, logger)
}

func runWithProgress(ctx context.Context, ec ensemble.Config, scenarios []ensemble.Scenario, out io.Writer, logger *log.Logger) ([]*ensemble.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := progress.New(logger)
	p := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	ec.Progress = progress.Reporter(p.Send)

	type outcome struct {
		results []*ensemble.Result
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := ensemble.New(ec).RunAll(ctx, scenarios)
		p.Send(progress.DoneMsg{Err: err})
		done <- outcome{results, err}
	}()

	if _, err := p.Run(); err != nil {
		logger.Debug("Progress display stopped", "error", err)
	}
	if model.Interrupted() {
		cancel()
	}
	o := <-done
	return o.results, o.err
}
