// Package progress shows a live progress bar while ensembles run.
package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	padding  = 2
	maxWidth = 80
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Msg reports steps completed for a scenario.
type Msg struct {
	Scenario string
	Done     int
	Total    int
}

// DoneMsg ends the program once every scenario has run.
type DoneMsg struct {
	Err error
}

// Model is the bubbletea model for the progress display.
type Model struct {
	bar         progress.Model
	logger      *log.Logger
	scenario    string
	done        int
	total       int
	finished    []string
	complete    bool
	interrupted bool
	err         error
}

// New creates a progress model.
func New(logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Model{
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxWidth-padding*2)),
		logger: logger,
	}
}

// Reporter adapts send, usually (*tea.Program).Send, to the progress
// callback ensemble runners accept.
func Reporter(send func(tea.Msg)) func(scenario string, done, total int) {
	return func(scenario string, done, total int) {
		send(Msg{Scenario: scenario, Done: done, Total: total})
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Msg:
		if msg.Scenario != m.scenario {
			if m.scenario != "" {
				m.finished = append(m.finished, m.scenario)
			}
			m.scenario = msg.Scenario
			m.done = 0
		}
		// Workers report out of order; never move backwards.
		if msg.Done > m.done {
			m.done = msg.Done
		}
		m.total = msg.Total

	case DoneMsg:
		if m.scenario != "" {
			m.finished = append(m.finished, m.scenario)
			m.scenario = ""
		}
		m.complete = true
		m.err = msg.Err
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-padding*2, maxWidth)
		m.logger.Debug("Updating dimensions", "width", msg.Width, "bar", m.bar.Width)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.interrupted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// Percent returns the completed fraction of the current scenario.
func (m *Model) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.done)/float64(m.total), 1)
}

// Interrupted reports whether the user asked to stop.
func (m *Model) Interrupted() bool {
	return m.interrupted
}

// Finished returns the scenarios that have completed, in order.
func (m *Model) Finished() []string {
	return m.finished
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder
	pad := strings.Repeat(" ", padding)
	for _, name := range m.finished {
		b.WriteString(pad + titleStyle.Render("✓ "+name) + "\n")
	}
	if m.complete {
		if m.err != nil {
			b.WriteString(pad + fmt.Sprintf("stopped: %v", m.err) + "\n")
		}
		return b.String()
	}
	if m.scenario != "" {
		fmt.Fprintf(&b, "\n%s%s %d/%d\n", pad, m.scenario, m.done, m.total)
		b.WriteString(pad + m.bar.ViewAs(m.Percent()) + "\n")
	}
	b.WriteString("\n" + pad + helpStyle.Render("ctrl+c to stop") + "\n")
	return b.String()
}
