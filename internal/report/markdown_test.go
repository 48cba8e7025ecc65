package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"benchdiff/internal/benchmark"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureComparisons(t *testing.T) []benchmark.Comparison {
	t.Helper()
	dir := filepath.Join("..", "benchmark", "testdata")
	base, err := benchmark.LoadJSON(filepath.Join(dir, "base_benchmarks.json"), benchmark.MetricMean)
	require.NoError(t, err)
	pr, err := benchmark.LoadJSON(filepath.Join(dir, "pr_benchmarks.json"), benchmark.MetricMean)
	require.NoError(t, err)
	return benchmark.Compare(base, pr, benchmark.MetricMean, benchmark.DefaultThresholds())
}

func ptr[T any](v T) *T {
	return &v
}

func TestRender_FullReport(t *testing.T) {
	want, err := os.ReadFile(filepath.Join("testdata", "comparison_report.md"))
	require.NoError(t, err)

	got := Render(fixtureComparisons(t), "Benchmarks", "", benchmark.DefaultThresholds())

	assert.Equal(t, string(want), got)
}

func TestRender_Empty(t *testing.T) {
	got := Render(nil, "Empty Report", "", benchmark.DefaultThresholds())

	assert.Equal(t, "## Empty Report\n\nNo benchmark data available.", got)
	assert.NotContains(t, got, "|")
}

func TestRender_EmptyWithSubtitle(t *testing.T) {
	got := Render(nil, "X", "nightly", benchmark.DefaultThresholds())

	assert.Equal(t, "## X\n\n<sub>nightly</sub>\n\nNo benchmark data available.", got)
}

func TestRender_TitleAndSubtitle(t *testing.T) {
	comparisons := []benchmark.Comparison{{
		Name:      "group/bench",
		Base:      ptr(int64(100)),
		PR:        ptr(int64(105)),
		ChangePct: ptr(5.0),
		Status:    benchmark.StatusCompared,
	}}

	got := Render(comparisons, "My Title", "run #42", benchmark.DefaultThresholds())

	assert.True(t, strings.HasPrefix(got, "## My Title\n\n<sub>run #42</sub>\n\n\n### Group\n"), got)
	assert.Contains(t, got, "| `bench` | 100 ns | 105 ns | +5.0% |")
	assert.NotContains(t, got, "regression(s)")
}

func TestRender_SummaryLines(t *testing.T) {
	got := Render(fixtureComparisons(t), "Benchmarks", "", benchmark.DefaultThresholds())

	assert.Contains(t, got, "**1 potential regression(s)** detected (>5.0% slower)")
	assert.Contains(t, got, "**1 improvement(s)** detected")
	assert.Contains(t, got, "### Parse")
	assert.Contains(t, got, "### Transform")
	assert.Less(t, strings.Index(got, "### Parse"), strings.Index(got, "### Transform"))
}

func TestRender_CustomWarnThreshold(t *testing.T) {
	th := benchmark.Thresholds{Improvement: -1, Warn: 12.5, Error: 20}

	got := Render(fixtureComparisons(t), "Benchmarks", "", th)

	assert.NotContains(t, got, "potential regression(s)")

	th.Warn = 2.5
	got = Render(fixtureComparisons(t), "Benchmarks", "", th)
	assert.Contains(t, got, "(>2.5% slower)")
}

func TestRender_BareNameGroup(t *testing.T) {
	comparisons := []benchmark.Comparison{
		{Name: "bench", PR: ptr(int64(5)), Indicator: benchmark.IndicatorNew, Status: benchmark.StatusNew},
		{Name: "parse/parse_small", Base: ptr(int64(5)), Indicator: benchmark.IndicatorRemoved, Status: benchmark.StatusRemoved},
	}

	got := Render(comparisons, "T", "", benchmark.DefaultThresholds())

	assert.Contains(t, got, "### Bench\n")
	assert.Contains(t, got, "| `bench` | N/A | 5 ns | 🆕 |")
	assert.Contains(t, got, "### Parse\n")
	assert.Contains(t, got, "| `parse_small` | 5 ns | N/A | 🗑️ |")
}

func TestTableRow(t *testing.T) {
	c := benchmark.Comparison{
		Name:      "g/a/b",
		Base:      ptr(int64(2_000_000)),
		PR:        ptr(int64(1_000_000)),
		ChangePct: ptr(-50.0),
		Indicator: benchmark.IndicatorImprovement,
		Status:    benchmark.StatusCompared,
	}

	assert.Equal(t, "| `a/b` | 2.000 ms | 1.000 ms | -50.0% ✅ |", TableRow(c, ShortName(c.Name)))
	assert.Equal(t, "| `g/a/b` | 2.000 ms | 1.000 ms | -50.0% ✅ |", TableRow(c, ""))
}

func TestRenderMetrics(t *testing.T) {
	comparisons := fixtureComparisons(t)

	single := RenderMetrics([]benchmark.MetricComparison{{Metric: "mean", Comparisons: comparisons}}, "Benchmarks", "", benchmark.DefaultThresholds())
	assert.Equal(t, Render(comparisons, "Benchmarks", "", benchmark.DefaultThresholds()), single)

	multi := RenderMetrics([]benchmark.MetricComparison{
		{Metric: "mean", Comparisons: comparisons},
		{Metric: "median", Comparisons: nil},
	}, "Benchmarks", "", benchmark.DefaultThresholds())
	assert.True(t, strings.HasPrefix(multi, "## Benchmarks (mean)\n"))
	assert.True(t, strings.HasSuffix(multi, "\n\n## Benchmarks (median)\n\nNo benchmark data available."))
}
