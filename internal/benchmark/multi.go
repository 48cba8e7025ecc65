package benchmark

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MetricComparison holds the comparisons of a single metric.
type MetricComparison struct {
	Metric      string
	Comparisons []Comparison
}

// CompareMetrics runs Compare for each metric concurrently. The result keeps
// the order of metrics.
func CompareMetrics(ctx context.Context, base, pr map[string]Record, metrics []string, th Thresholds) ([]MetricComparison, error) {
	for _, m := range metrics {
		if !IsMetric(m) {
			return nil, fmt.Errorf("unknown metric: %s", m)
		}
	}

	out := make([]MetricComparison, len(metrics))
	g, gCtx := errgroup.WithContext(ctx)
	for i, metric := range metrics {
		i, metric := i, metric
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			out[i] = MetricComparison{
				Metric:      metric,
				Comparisons: Compare(base, pr, metric, th),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
