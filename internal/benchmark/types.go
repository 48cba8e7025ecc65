package benchmark

import (
	"fmt"
	"math"
)

// Metric names accepted for comparison.
const (
	MetricFastest = "fastest"
	MetricSlowest = "slowest"
	MetricMedian  = "median"
	MetricMean    = "mean"
)

// Metrics lists the comparable statistics in report order.
var Metrics = []string{MetricFastest, MetricSlowest, MetricMedian, MetricMean}

// IsMetric reports whether name is one of the comparable statistics.
func IsMetric(name string) bool {
	for _, m := range Metrics {
		if m == name {
			return true
		}
	}
	return false
}

// Nanoseconds per unit.
const (
	NsPerUs = 1_000
	NsPerMs = 1_000_000
	NsPerS  = 1_000_000_000
)

// TimeMeasurement is a single timing statistic in nanoseconds.
type TimeMeasurement struct {
	Value int64 `json:"value" yaml:"value"`
}

// NewTimeMeasurement converts a magnitude in the given unit to nanoseconds.
// Fractions are rounded to the nearest nanosecond, halves away from zero.
func NewTimeMeasurement(magnitude float64, unit string) (TimeMeasurement, error) {
	factor, ok := unitFactors[unit]
	if !ok {
		return TimeMeasurement{}, fmt.Errorf("unknown time unit %q", unit)
	}
	if magnitude < 0 || math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return TimeMeasurement{}, fmt.Errorf("invalid time magnitude %v", magnitude)
	}
	return TimeMeasurement{Value: int64(math.Round(magnitude * factor))}, nil
}

var unitFactors = map[string]float64{
	"ns": 1,
	"µs": NsPerUs, // micro sign
	"μs": NsPerUs, // greek mu
	"us": NsPerUs,
	"ms": NsPerMs,
	"s":  NsPerS,
}

// Result is one benchmark row parsed from divan output.
type Result struct {
	Name    string          `json:"name" yaml:"name"`
	Fastest TimeMeasurement `json:"fastest" yaml:"fastest"`
	Slowest TimeMeasurement `json:"slowest" yaml:"slowest"`
	Median  TimeMeasurement `json:"median" yaml:"median"`
	Mean    TimeMeasurement `json:"mean" yaml:"mean"`
	Samples int64           `json:"samples" yaml:"samples"`
	Iters   int64           `json:"iters" yaml:"iters"`
}

// Validate checks the row for internal consistency.
// Problems are returned as warnings; an empty slice means the row is consistent.
func (r Result) Validate() []string {
	warnings := []string{}
	if r.Fastest.Value > r.Median.Value {
		warnings = append(warnings, fmt.Sprintf("%s: fastest (%d ns) > median (%d ns)", r.Name, r.Fastest.Value, r.Median.Value))
	}
	if r.Median.Value > r.Slowest.Value {
		warnings = append(warnings, fmt.Sprintf("%s: median (%d ns) > slowest (%d ns)", r.Name, r.Median.Value, r.Slowest.Value))
	}
	if r.Fastest.Value > r.Mean.Value {
		warnings = append(warnings, fmt.Sprintf("%s: fastest (%d ns) > mean (%d ns)", r.Name, r.Fastest.Value, r.Mean.Value))
	}
	if r.Mean.Value > r.Slowest.Value {
		warnings = append(warnings, fmt.Sprintf("%s: mean (%d ns) > slowest (%d ns)", r.Name, r.Mean.Value, r.Slowest.Value))
	}
	if r.Samples < 1 {
		warnings = append(warnings, fmt.Sprintf("%s: samples (%d) < 1", r.Name, r.Samples))
	}
	if r.Iters < r.Samples {
		warnings = append(warnings, fmt.Sprintf("%s: iters (%d) < samples (%d)", r.Name, r.Iters, r.Samples))
	}
	return warnings
}

// ToRecord converts the row into the loader's per-benchmark shape.
func (r Result) ToRecord() Record {
	samples, iters := r.Samples, r.Iters
	return Record{
		Name: r.Name,
		Metrics: map[string]TimeMeasurement{
			MetricFastest: r.Fastest,
			MetricSlowest: r.Slowest,
			MetricMedian:  r.Median,
			MetricMean:    r.Mean,
		},
		Samples: &samples,
		Iters:   &iters,
	}
}

// Record is one benchmark entry of a run, keyed by metric name.
type Record struct {
	Name    string
	Metrics map[string]TimeMeasurement
	Samples *int64
	Iters   *int64
}

// Value returns the nanosecond value recorded for metric.
func (r Record) Value(metric string) (int64, bool) {
	m, ok := r.Metrics[metric]
	return m.Value, ok
}
