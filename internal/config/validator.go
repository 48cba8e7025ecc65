package config

import (
	"fmt"
	"log/slog"
	"strings"

	"benchdiff/internal/benchmark"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error if any are invalid.
// It should be called after viper has loaded the configuration.
func ValidateConfig() error {
	var errs []string

	for _, m := range Metrics() {
		if !benchmark.IsMetric(m) {
			errs = append(errs, fmt.Sprintf("metric must be one of %s, got: %q", strings.Join(benchmark.Metrics, ", "), m))
		}
	}

	if f := viper.GetString(KeyFormat); !benchmark.IsFormat(f) {
		errs = append(errs, fmt.Sprintf("format must be one of auto, json, divan, got: %q", f))
	}

	if lf := viper.GetString(KeyLogFormat); lf != "json" && lf != "text" {
		errs = append(errs, fmt.Sprintf("log_format must be json or text, got: %q", lf))
	}

	if w := viper.GetInt(KeyPreviewWidth); w <= 0 {
		errs = append(errs, fmt.Sprintf("preview.width must be positive, got: %d", w))
	}

	if viper.GetBool(KeySlackEnabled) && viper.GetString(KeySlackChannel) == "" {
		errs = append(errs, "notifications.slack.channel must be set when slack notifications are enabled")
	}

	// Overlapping thresholds are legal; classification order decides.
	th := Thresholds()
	if th.Warn > th.Error {
		slog.Warn("warn threshold is above error threshold", "warn", th.Warn, "error", th.Error)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
