package telemetry

import (
	"fmt"

	"benchdiff/internal/benchmark"

	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics holds the Prometheus series describing one comparison run.
// Each run owns its registry so results can be exported as a textfile
// for the node_exporter textfile collector.
type RunMetrics struct {
	Registry *prometheus.Registry

	Benchmarks    *prometheus.GaugeVec
	Regressions   *prometheus.GaugeVec
	Failures      *prometheus.GaugeVec
	Improvements  *prometheus.GaugeVec
	ParseWarnings prometheus.Counter
	LoadedRecords *prometheus.GaugeVec
}

// NewRunMetrics creates and registers the run series.
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{Registry: prometheus.NewRegistry()}

	m.Benchmarks = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "benchdiff_benchmarks",
			Help: "Benchmarks in the report by metric and comparison status",
		},
		[]string{"metric", "status"},
	)

	m.Regressions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "benchdiff_regressions",
			Help: "Benchmarks slower than the warn threshold",
		},
		[]string{"metric"},
	)

	m.Failures = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "benchdiff_failures",
			Help: "Benchmarks slower than the error threshold",
		},
		[]string{"metric"},
	)

	m.Improvements = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "benchdiff_improvements",
			Help: "Benchmarks faster than the improvement threshold",
		},
		[]string{"metric"},
	)

	m.ParseWarnings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "benchdiff_parse_warnings_total",
			Help: "Data-quality warnings raised while reading inputs",
		},
	)

	m.LoadedRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "benchdiff_loaded_records",
			Help: "Benchmarks loaded per input run",
		},
		[]string{"run"},
	)

	m.Registry.MustRegister(
		m.Benchmarks,
		m.Regressions,
		m.Failures,
		m.Improvements,
		m.ParseWarnings,
		m.LoadedRecords,
	)
	return m
}

// ObserveSummary records the outcome of comparing one metric.
func (m *RunMetrics) ObserveSummary(metric string, s benchmark.Summary) {
	m.Benchmarks.WithLabelValues(metric, string(benchmark.StatusCompared)).Set(float64(s.Compared))
	m.Benchmarks.WithLabelValues(metric, string(benchmark.StatusNew)).Set(float64(s.New))
	m.Benchmarks.WithLabelValues(metric, string(benchmark.StatusRemoved)).Set(float64(s.Removed))
	m.Regressions.WithLabelValues(metric).Set(float64(s.Regressions))
	m.Failures.WithLabelValues(metric).Set(float64(s.Failures))
	m.Improvements.WithLabelValues(metric).Set(float64(s.Improvements))
}

// ObserveLoad records how many benchmarks an input run contained.
func (m *RunMetrics) ObserveLoad(run string, records int) {
	m.LoadedRecords.WithLabelValues(run).Set(float64(records))
}

// AddParseWarnings counts data-quality warnings.
func (m *RunMetrics) AddParseWarnings(n int) {
	m.ParseWarnings.Add(float64(n))
}

// WriteTextfile writes the registry in the Prometheus text format.
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
