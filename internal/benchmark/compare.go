package benchmark

import (
	"fmt"
	"sort"
)

// Status describes how a benchmark appears across the two runs.
type Status string

const (
	StatusCompared Status = "compared"
	StatusNew      Status = "new"
	StatusRemoved  Status = "removed"
)

// Indicators attached to comparisons.
const (
	IndicatorImprovement = "✅"
	IndicatorError       = "❌"
	IndicatorWarning     = "⚠️"
	IndicatorNew         = "🆕"
	IndicatorRemoved     = "🗑️"
)

// Thresholds are the percentage bounds used to classify a change.
// Positive changes are slower, negative changes are faster.
type Thresholds struct {
	Improvement float64 `mapstructure:"improvement"`
	Warn        float64 `mapstructure:"warn"`
	Error       float64 `mapstructure:"error"`
}

// DefaultThresholds returns the thresholds used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{Improvement: -1.0, Warn: 5.0, Error: 10.0}
}

// Comparison is one benchmark matched between the base and PR runs.
// Base, PR and ChangePct are nil when the benchmark is missing from a run.
type Comparison struct {
	Name      string   `json:"name"`
	Base      *int64   `json:"base"`
	PR        *int64   `json:"pr"`
	ChangePct *float64 `json:"change_pct"`
	Indicator string   `json:"indicator"`
	Status    Status   `json:"status"`
}

// CalculateChange returns the percentage change from base to pr.
// A zero base yields 0.
func CalculateChange(base, pr int64) float64 {
	if base == 0 {
		return 0.0
	}
	return (float64(pr) - float64(base)) / float64(base) * 100
}

// ChangeIndicator classifies a percentage change. The checks run in order
// improvement, error, warn, so overlapping thresholds resolve the same way.
func ChangeIndicator(changePct float64, th Thresholds) string {
	if changePct <= th.Improvement {
		return IndicatorImprovement
	}
	if changePct > th.Error {
		return IndicatorError
	}
	if changePct > th.Warn {
		return IndicatorWarning
	}
	return ""
}

// Compare matches benchmarks by name and classifies the change of metric.
// The result is sorted by name and holds one entry per name in either run.
func Compare(base, pr map[string]Record, metric string, th Thresholds) []Comparison {
	names := make([]string, 0, len(base)+len(pr))
	for name := range base {
		names = append(names, name)
	}
	for name := range pr {
		if _, ok := base[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	comparisons := make([]Comparison, 0, len(names))
	for _, name := range names {
		b, inBase := base[name]
		p, inPR := pr[name]

		switch {
		case inBase && inPR:
			baseValue, _ := b.Value(metric)
			prValue, _ := p.Value(metric)
			change := CalculateChange(baseValue, prValue)
			comparisons = append(comparisons, Comparison{
				Name:      name,
				Base:      &baseValue,
				PR:        &prValue,
				ChangePct: &change,
				Indicator: ChangeIndicator(change, th),
				Status:    StatusCompared,
			})
		case inPR:
			prValue, _ := p.Value(metric)
			comparisons = append(comparisons, Comparison{
				Name:      name,
				PR:        &prValue,
				Indicator: IndicatorNew,
				Status:    StatusNew,
			})
		default:
			baseValue, _ := b.Value(metric)
			comparisons = append(comparisons, Comparison{
				Name:      name,
				Base:      &baseValue,
				Indicator: IndicatorRemoved,
				Status:    StatusRemoved,
			})
		}
	}
	return comparisons
}

// String returns a one-line description of the comparison.
func (c Comparison) String() string {
	if c.ChangePct == nil {
		return fmt.Sprintf("%s: %s", c.Name, c.Status)
	}
	return fmt.Sprintf("%s: %+.2f%%", c.Name, *c.ChangePct)
}

// Summary counts the outcome of a comparison run.
type Summary struct {
	Compared     int
	New          int
	Removed      int
	Regressions  int // change above the warn threshold
	Failures     int // classified with IndicatorError
	Improvements int
}

// Summarize counts comparisons by status and threshold. Entries without a
// change count as 0%, matching the report's summary lines.
func Summarize(comparisons []Comparison, th Thresholds) Summary {
	var s Summary
	for _, c := range comparisons {
		switch c.Status {
		case StatusCompared:
			s.Compared++
		case StatusNew:
			s.New++
		case StatusRemoved:
			s.Removed++
		}

		change := 0.0
		if c.ChangePct != nil {
			change = *c.ChangePct
		}
		if change > th.Warn {
			s.Regressions++
		}
		if c.Indicator == IndicatorError {
			s.Failures++
		}
		if change < th.Improvement {
			s.Improvements++
		}
	}
	return s
}
