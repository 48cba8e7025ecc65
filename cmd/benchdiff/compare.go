package main

import (
	"fmt"
	"os"

	"benchdiff/internal/benchmark"
	"benchdiff/internal/config"
	berrors "benchdiff/internal/errors"
	"benchdiff/internal/notify"
	"benchdiff/internal/report"
	"benchdiff/internal/telemetry"
	"benchdiff/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <base_file> <pr_file>",
		Short: "Compare a base and a PR benchmark run",
		Long: `Loads two benchmark runs (divan text output or the JSON export), matches
benchmarks by name and prints a markdown comparison report.

Changes at or below -improvement-threshold percent are marked as improvements,
above warn-threshold as warnings and above error-threshold as errors.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	th := benchmark.DefaultThresholds()
	cmd.Flags().String("title", "Benchmarks", "Report title")
	cmd.Flags().String("subtitle", "", "Optional subtitle shown under the title")
	cmd.Flags().String("metric", benchmark.MetricMean, "Metric to compare (fastest, slowest, median, mean)")
	cmd.Flags().StringSlice("metrics", nil, "Compare several metrics, one report section each")
	cmd.Flags().Float64("improvement-threshold", -th.Improvement, "Percent faster to count as an improvement")
	cmd.Flags().Float64("warn-threshold", th.Warn, "Percent slower to warn about")
	cmd.Flags().Float64("error-threshold", th.Error, "Percent slower to flag as an error")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().String("format", benchmark.FormatAuto, "Input format (auto, json, divan)")
	cmd.Flags().Bool("fail-on-regression", false, "Exit non-zero when a benchmark exceeds the error threshold")
	cmd.Flags().Bool("preview", false, "Render the report for the terminal on stderr")
	cmd.Flags().String("metrics-file", "", "Write Prometheus textfile metrics for this run")
	cmd.Flags().Bool("notify", false, "Post the summary to the configured chat providers")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	metrics := config.Metrics()
	th := config.Thresholds()
	format := viper.GetString(config.KeyFormat)
	title := viper.GetString(config.KeyTitle)
	runMetrics := telemetry.NewRunMetrics()

	base, err := loadRun(args[0], format, metrics, "base", runMetrics)
	if err != nil {
		return err
	}
	pr, err := loadRun(args[1], format, metrics, "pr", runMetrics)
	if err != nil {
		return err
	}

	results, err := benchmark.CompareMetrics(cmd.Context(), base.Records, pr.Records, metrics, th)
	if err != nil {
		return err
	}

	markdown := report.RenderMetrics(results, title, viper.GetString(config.KeySubtitle), th)
	output, _ := cmd.Flags().GetString("output")
	if err := writeReport(cmd, markdown, output); err != nil {
		return err
	}

	summaries := make([]notify.MetricSummary, 0, len(results))
	failed := false
	for _, r := range results {
		for _, c := range r.Comparisons {
			telemetry.LogDebug("Compared benchmark", "metric", r.Metric, "result", c.String())
		}
		s := benchmark.Summarize(r.Comparisons, th)
		summaries = append(summaries, notify.MetricSummary{Metric: r.Metric, Summary: s})
		runMetrics.ObserveSummary(r.Metric, s)
		fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderSummary(r.Metric, s))
		if s.Failures > 0 {
			failed = true
		}
	}

	if preview, _ := cmd.Flags().GetBool("preview"); preview {
		if err := previewReport(cmd, markdown); err != nil {
			telemetry.LogError("Preview failed", err)
		}
	}

	if path := viper.GetString(config.KeyMetricsFile); path != "" {
		if err := runMetrics.WriteTextfile(path); err != nil {
			return err
		}
		telemetry.LogDebug("Wrote metrics textfile", "path", path)
	}

	if send, _ := cmd.Flags().GetBool("notify"); send {
		manager := notify.NewManager(telemetry.LogInfof)
		if !manager.Enabled() {
			telemetry.LogWarn("No notification provider configured")
		} else if err := manager.Notify(cmd.Context(), notify.FormatMessage(title, summaries, markdown)); err != nil {
			telemetry.LogError("Failed to send notification", err)
		}
	}

	if failed && viper.GetBool(config.KeyFailOnRegression) {
		return berrors.ErrRegressionDetected
	}
	return nil
}

func loadRun(path, format string, metrics []string, label string, m *telemetry.RunMetrics) (benchmark.Run, error) {
	run, err := benchmark.LoadRun(path, format, metrics)
	if err != nil {
		return benchmark.Run{}, err
	}
	for _, w := range run.Warnings {
		telemetry.LogWarn("Benchmark data warning", "run", label, "path", path, "warning", w)
	}
	m.ObserveLoad(label, len(run.Records))
	m.AddParseWarnings(len(run.Warnings))
	telemetry.LogDebug("Loaded benchmark run", "run", label, "path", path, "benchmarks", len(run.Records))
	return run, nil
}

// writeReport writes the report verbatim to path, or to stdout followed by
// a newline when path is empty.
func writeReport(cmd *cobra.Command, markdown, path string) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), markdown)
		return err
	}
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}
	telemetry.LogInfo("Report written", "path", path)
	return nil
}

func previewReport(cmd *cobra.Command, markdown string) error {
	style := viper.GetString(config.KeyPreviewStyle)
	if style == "" && !isTerminal(os.Stderr) {
		style = "notty"
	}
	rendered, err := report.Preview(markdown, style, viper.GetInt(config.KeyPreviewWidth))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.ErrOrStderr(), rendered)
	return err
}
