package config

import (
	"os"
	"path/filepath"
	"testing"

	"benchdiff/internal/benchmark"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		require.NoError(t, Load(""))

		assert.Equal(t, "Benchmarks", viper.GetString(KeyTitle))
		assert.Equal(t, benchmark.MetricMean, viper.GetString(KeyMetric))
		assert.Equal(t, benchmark.FormatAuto, viper.GetString(KeyFormat))
		assert.Equal(t, benchmark.DefaultThresholds(), Thresholds())
		assert.Equal(t, []string{"mean"}, Metrics())
	})

	t.Run("Load From Env", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		t.Setenv("BENCHDIFF_TITLE", "Nightly")
		t.Setenv("BENCHDIFF_THRESHOLDS_WARN", "3.5")
		t.Setenv("BENCHDIFF_METRICS", "median,mean")

		require.NoError(t, Load(""))

		assert.Equal(t, "Nightly", viper.GetString(KeyTitle))
		assert.Equal(t, 3.5, Thresholds().Warn)
		assert.Equal(t, []string{"median", "mean"}, Metrics())
	})

	t.Run("Config File", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()
		path := filepath.Join(t.TempDir(), "benchdiff.yaml")
		content := "title: Perf\nmetric: median\nthresholds:\n  improvement: 2\n  error: 20\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		require.NoError(t, Load(path))

		assert.Equal(t, "Perf", viper.GetString(KeyTitle))
		assert.Equal(t, []string{"median"}, Metrics())
		assert.Equal(t, benchmark.Thresholds{Improvement: -2, Warn: 5, Error: 20}, Thresholds())
	})

	t.Run("Missing Explicit File", func(t *testing.T) {
		viper.Reset()
		defer viper.Reset()

		err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestThresholds_ImprovementIsNegative(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	viper.Set(KeyImprovementThreshold, -4.0)
	assert.Equal(t, -4.0, Thresholds().Improvement)

	viper.Set(KeyImprovementThreshold, 4.0)
	assert.Equal(t, -4.0, Thresholds().Improvement)
}

func TestMetrics(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	viper.Set(KeyMetric, "fastest")
	assert.Equal(t, []string{"fastest"}, Metrics())

	viper.Set(KeyMetrics, []string{"slowest", " median , mean"})
	assert.Equal(t, []string{"slowest", "median", "mean"}, Metrics())
}
