package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"benchdiff/internal/benchmark"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys. Nested keys map to env vars with "." replaced by "_",
// e.g. thresholds.warn -> BENCHDIFF_THRESHOLDS_WARN.
const (
	KeyTitle                = "title"
	KeySubtitle             = "subtitle"
	KeyMetric               = "metric"
	KeyMetrics              = "metrics"
	KeyFormat               = "format"
	KeyImprovementThreshold = "thresholds.improvement"
	KeyWarnThreshold        = "thresholds.warn"
	KeyErrorThreshold       = "thresholds.error"
	KeyFailOnRegression     = "fail_on_regression"
	KeyMetricsFile          = "metrics_file"
	KeyVerbose              = "verbose"
	KeyLogFormat            = "log_format"
	KeyLogFile              = "log_file"
	KeyPreviewStyle         = "preview.style"
	KeyPreviewWidth         = "preview.width"
	KeySlackEnabled         = "notifications.slack.enabled"
	KeySlackChannel         = "notifications.slack.channel"
	KeyDiscordEnabled       = "notifications.discord.enabled"
	KeyDiscordWebhookURL    = "notifications.discord.webhook_url"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "BENCHDIFF"

// SlackTokenEnv holds the bot token used for notifications.
const SlackTokenEnv = "SLACK_BOT_USER_TOKEN"

// Load initializes the configuration from file and environment variables.
// A missing default config file is not an error; an explicit one is.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("benchdiff")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	th := benchmark.DefaultThresholds()

	viper.SetDefault(KeyTitle, "Benchmarks")
	viper.SetDefault(KeySubtitle, "")
	viper.SetDefault(KeyMetric, benchmark.MetricMean)
	viper.SetDefault(KeyMetrics, []string{})
	viper.SetDefault(KeyFormat, benchmark.FormatAuto)
	viper.SetDefault(KeyImprovementThreshold, math.Abs(th.Improvement))
	viper.SetDefault(KeyWarnThreshold, th.Warn)
	viper.SetDefault(KeyErrorThreshold, th.Error)
	viper.SetDefault(KeyFailOnRegression, false)
	viper.SetDefault(KeyMetricsFile, "")
	viper.SetDefault(KeyVerbose, false)
	viper.SetDefault(KeyLogFormat, "json")
	viper.SetDefault(KeyPreviewWidth, 100)

	viper.SetDefault(KeySlackEnabled, os.Getenv(SlackTokenEnv) != "")
	viper.SetDefault(KeySlackChannel, "#benchmarks")
	viper.SetDefault(KeyDiscordEnabled, false)
	viper.SetDefault(KeyDiscordWebhookURL, "")
}

// Thresholds returns the configured thresholds. The improvement threshold
// is configured as a magnitude and always applied as a negative change.
func Thresholds() benchmark.Thresholds {
	return benchmark.Thresholds{
		Improvement: -math.Abs(viper.GetFloat64(KeyImprovementThreshold)),
		Warn:        viper.GetFloat64(KeyWarnThreshold),
		Error:       viper.GetFloat64(KeyErrorThreshold),
	}
}

// Metrics returns the metrics to compare: the metrics list when it is set,
// otherwise the single metric.
func Metrics() []string {
	var out []string
	for _, m := range viper.GetStringSlice(KeyMetrics) {
		for _, part := range strings.Split(m, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if len(out) == 0 {
		return []string{viper.GetString(KeyMetric)}
	}
	return out
}
