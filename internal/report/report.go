// Package report renders ensemble results for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Sandman83/gillespied/internal/ensemble"
	"github.com/Sandman83/gillespied/internal/statistics"
)

// field is one labelled line of a scenario section.
type field struct {
	label string
	value string
}

// row is one line of the firing index table.
type row struct {
	index    string
	count    int
	observed float64
	expected float64
}

// section is everything shown for one result, independent of styling.
type section struct {
	title    string
	fields   []field
	rows     []row
	tail     []field
	failures []string
}

func (s *section) passed() bool {
	return len(s.failures) == 0
}

func newSection(res *ensemble.Result, alpha float64) *section {
	s := &section{title: res.Scenario.Name}
	s.fields = []field{
		{"variant", res.Scenario.Variant()},
		{"run", res.RunID},
		{"backend", fmt.Sprintf("%s, seed %d", res.Backend, res.Seed)},
		{"trials", fmt.Sprintf("%d on %d workers", res.Trials, res.Workers)},
		{"a0", fmt.Sprintf("%g", res.A0)},
		{"tau", tauSummary(res)},
		{"quiescent", strconv.Itoa(res.Quiescent)},
	}
	s.rows = indexRows(res)
	s.tail = []field{
		{"chi-square", fmt.Sprintf("%.4g (df %d, p %.4f)", res.Fit.ChiSquare, res.Fit.DegreesOfFreedom, res.Fit.PValue)},
		{"ks", ksSummary(res, alpha)},
		{"zero hits", strconv.Itoa(res.ZeroHits)},
		{"elapsed", fmt.Sprintf("%s (%.0f steps/s)", res.Elapsed, res.Throughput())},
	}
	if err := res.Check(alpha); err != nil {
		s.failures = strings.Split(err.Error(), "\n")
	}
	return s
}

func tauSummary(res *ensemble.Result) string {
	if res.Tau.Count == 0 {
		return "-"
	}
	return fmt.Sprintf("mean %.6g, expected %.6g, stderr %.3g", res.Tau.Mean(), res.ExpectedTau(), res.Tau.StdError())
}

func ksSummary(res *ensemble.Result, alpha float64) string {
	if res.Scenario.ExactTime || res.A0 == 0 {
		return "-"
	}
	return fmt.Sprintf("%.4f (critical %.4f)", res.KS, statistics.KSCritical(res.Tau.Count, alpha))
}

// indexRows lists every reaction followed by the sentinel bucket, with the
// frequency each should see.
func indexRows(res *ensemble.Result) []row {
	freq := res.Indices.Frequencies()
	rows := make([]row, 0, len(res.Indices.Counts))
	for i, w := range res.Weights {
		exp := 0.0
		if res.A0 > 0 {
			exp = w / res.A0
		}
		rows = append(rows, row{strconv.Itoa(i), res.Indices.Counts[i], freq[i], exp})
	}
	sentinel := 0.0
	if res.A0 == 0 {
		sentinel = 1
	}
	n := res.Indices.Reactions()
	return append(rows, row{"none", res.Indices.Counts[n], freq[n], sentinel})
}

// Failed counts the results that do not pass Check at alpha.
func Failed(results []*ensemble.Result, alpha float64) int {
	failed := 0
	for _, res := range results {
		if res.Check(alpha) != nil {
			failed++
		}
	}
	return failed
}

func totals(sections []*section) string {
	passed := 0
	for _, s := range sections {
		if s.passed() {
			passed++
		}
	}
	return fmt.Sprintf("%d scenarios, %d passed, %d failed", len(sections), passed, len(sections)-passed)
}

// Render writes a plain-text report of results, judged at significance
// alpha.
func Render(w io.Writer, results []*ensemble.Result, alpha float64) error {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "  %-11s %s\n", label, value)
	}

	sections := make([]*section, len(results))
	for i, res := range results {
		s := newSection(res, alpha)
		sections[i] = s
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.title + "\n")
		for _, f := range s.fields {
			line(f.label, f.value)
		}
		fmt.Fprintf(&b, "  %-11s %7s  %8s  %8s\n", "index", "count", "observed", "expected")
		for _, r := range s.rows {
			fmt.Fprintf(&b, "  %-11s %7d  %8.4f  %8.4f\n", r.index, r.count, r.observed, r.expected)
		}
		for _, f := range s.tail {
			line(f.label, f.value)
		}
		if s.passed() {
			line("check", "PASS")
			continue
		}
		line("check", "FAIL")
		for _, msg := range s.failures {
			fmt.Fprintf(&b, "    %s\n", msg)
		}
	}
	fmt.Fprintf(&b, "\n%s\n", totals(sections))

	_, err := io.WriteString(w, b.String())
	return err
}
