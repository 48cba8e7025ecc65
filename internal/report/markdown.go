// Package report renders benchmark comparisons as markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"benchdiff/internal/benchmark"
)

// NoDataMessage is printed when there is nothing to compare.
const NoDataMessage = "No benchmark data available."

const (
	tableHeader    = "| Benchmark | Base | PR | Change |"
	tableSeparator = "|-----------|------|-----|--------|"
)

// Render builds the markdown report for one metric. Lines are joined with
// "\n" and the result has no trailing newline.
func Render(comparisons []benchmark.Comparison, title, subtitle string, th benchmark.Thresholds) string {
	lines := []string{"## " + title}
	if subtitle != "" {
		lines = append(lines, "", "<sub>"+subtitle+"</sub>")
	}
	lines = append(lines, "")

	if len(comparisons) == 0 {
		lines = append(lines, NoDataMessage)
		return strings.Join(lines, "\n")
	}

	s := benchmark.Summarize(comparisons, th)
	if s.Regressions > 0 {
		lines = append(lines, fmt.Sprintf("**%d potential regression(s)** detected (>%s%% slower)", s.Regressions, formatPercent(th.Warn)))
	}
	if s.Improvements > 0 {
		lines = append(lines, fmt.Sprintf("**%d improvement(s)** detected", s.Improvements))
	}

	groups := make(map[string][]benchmark.Comparison)
	for _, c := range comparisons {
		g := GroupOf(c.Name)
		groups[g] = append(groups[g], c)
	}
	keys := make([]string, 0, len(groups))
	for g := range groups {
		keys = append(keys, g)
	}
	sort.Strings(keys)

	for _, g := range keys {
		lines = append(lines, "", "### "+FormatGroupName(g), "", tableHeader, tableSeparator)
		for _, c := range groups[g] {
			lines = append(lines, TableRow(c, ShortName(c.Name)))
		}
	}

	return strings.Join(lines, "\n")
}

// TableRow formats a comparison as a markdown table row. An empty
// displayName falls back to the full benchmark name.
func TableRow(c benchmark.Comparison, displayName string) string {
	name := displayName
	if name == "" {
		name = c.Name
	}

	change := c.Indicator
	if c.ChangePct != nil {
		change = strings.TrimSpace(fmt.Sprintf("%+.1f%% %s", *c.ChangePct, c.Indicator))
	}

	return fmt.Sprintf("| `%s` | %s | %s | %s |", name, FormatTime(c.Base), FormatTime(c.PR), change)
}

// RenderMetrics renders one report per metric, titled "<title> (<metric>)",
// separated by a blank line. A single metric renders exactly like Render.
func RenderMetrics(results []benchmark.MetricComparison, title, subtitle string, th benchmark.Thresholds) string {
	if len(results) == 1 {
		return Render(results[0].Comparisons, title, subtitle, th)
	}

	sections := make([]string, 0, len(results))
	for _, r := range results {
		sections = append(sections, Render(r.Comparisons, fmt.Sprintf("%s (%s)", title, r.Metric), subtitle, th))
	}
	return strings.Join(sections, "\n\n")
}
