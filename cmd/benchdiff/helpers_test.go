package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

var (
	fixtureDir = filepath.Join("..", "..", "internal", "benchmark", "testdata")
	basePath   = filepath.Join(fixtureDir, "base_benchmarks.json")
	prPath     = filepath.Join(fixtureDir, "pr_benchmarks.json")
	divanPath  = filepath.Join(fixtureDir, "divan_output.txt")
	goldenPath = filepath.Join("..", "..", "internal", "report", "testdata", "comparison_report.md")
)

// executeCommand runs a fresh command tree with a clean viper state.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	viper.Reset()
	originalLogger := slog.Default()
	t.Cleanup(func() {
		viper.Reset()
		slog.SetDefault(originalLogger)
	})

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = root.Execute()
	return out.String(), errOut.String(), err
}

func readGolden(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	return string(data)
}
