package main

import (
	"encoding/json"
	"fmt"
	"os"

	"benchdiff/internal/benchmark"
	berrors "benchdiff/internal/errors"
	"benchdiff/internal/telemetry"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <divan_output.txt>",
		Short: "Convert divan text output to the benchmark JSON format",
		Long: `Parses divan benchmark output and prints the results in the JSON format
accepted by 'benchdiff compare'. Rows that cannot be parsed are skipped and
reported as warnings, as are rows with inconsistent statistics.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	cmd.Flags().StringP("output", "o", "", "Write the results to this file instead of stdout")
	cmd.Flags().String("output-format", "json", "Output format (json, yaml)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	outFormat, _ := cmd.Flags().GetString("output-format")
	if outFormat != "json" && outFormat != "yaml" {
		return fmt.Errorf("unsupported output format: %s", outFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return berrors.NewFileError(path, berrors.ErrFileNotFound, "File '%s' not found", path)
		}
		return berrors.NewFileError(path, berrors.ErrUnreadable, "Cannot read '%s': %v", path, err)
	}

	results, warnings := benchmark.ParseDivanOutputWithWarnings(string(data))
	for _, r := range results {
		warnings = append(warnings, r.Validate()...)
	}
	for _, w := range warnings {
		telemetry.LogWarn("Benchmark data warning", "path", path, "warning", w)
	}
	if results == nil {
		results = []benchmark.Result{}
	}

	out, err := encodeResults(results, outFormat)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(output, out, 0644); err != nil {
		return fmt.Errorf("failed to write results to %s: %w", output, err)
	}
	telemetry.LogInfo("Parsed benchmarks written", "path", output, "benchmarks", len(results))
	return nil
}

func encodeResults(results []benchmark.Result, format string) ([]byte, error) {
	if format == "yaml" {
		out, err := yaml.Marshal(results)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return out, nil
	}
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return append(out, '\n'), nil
}
