package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Sandman83/gillespied/internal/ensemble"
)

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	failure lipgloss.Style
	box     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1),
		label: r.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Width(12),
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true).
			Width(10).
			Align(lipgloss.Right),
		cell: r.NewStyle().
			Width(10).
			Align(lipgloss.Right),
		pass: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		fail: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		failure: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			PaddingLeft(2),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
	}
}

// RenderStyled writes the report with colours and borders for the given
// terminal profile. termenv.Ascii yields uncoloured output with the same
// layout.
func RenderStyled(w io.Writer, profile termenv.Profile, results []*ensemble.Result, alpha float64) error {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	st := newStyles(r)

	sections := make([]*section, len(results))
	blocks := make([]string, 0, len(results)+1)
	for i, res := range results {
		s := newSection(res, alpha)
		sections[i] = s
		blocks = append(blocks, st.box.Render(st.section(s)))
	}

	summary := st.pass.Render(totals(sections))
	if Failed(results, alpha) > 0 {
		summary = st.fail.Render(totals(sections))
	}
	blocks = append(blocks, summary)

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return err
}

func (st styles) section(s *section) string {
	lines := []string{st.title.Render(s.title)}
	field := func(f field) {
		lines = append(lines, st.label.Render(f.label)+f.value)
	}
	for _, f := range s.fields {
		field(f)
	}

	lines = append(lines, st.label.Render("index")+
		st.header.Render("count")+st.header.Render("observed")+st.header.Render("expected"))
	for _, r := range s.rows {
		lines = append(lines, st.label.Render(r.index)+
			st.cell.Render(fmt.Sprint(r.count))+
			st.cell.Render(fmt.Sprintf("%.4f", r.observed))+
			st.cell.Render(fmt.Sprintf("%.4f", r.expected)))
	}

	for _, f := range s.tail {
		field(f)
	}
	if s.passed() {
		lines = append(lines, st.label.Render("check")+st.pass.Render("PASS"))
	} else {
		lines = append(lines, st.label.Render("check")+st.fail.Render("FAIL"))
		for _, msg := range s.failures {
			lines = append(lines, st.failure.Render(msg))
		}
	}
	return strings.Join(lines, "\n")
}
