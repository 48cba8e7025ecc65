package main

import (
	"fmt"
	"os"

	"benchdiff/internal/config"
	"benchdiff/internal/telemetry"
	"benchdiff/internal/ui"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var exit = os.Exit

// closeLog releases the log file opened by initConfig.
var closeLog = func() error { return nil }

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchdiff",
		Short: "Compare divan benchmark runs and report regressions",
		Long: `benchdiff parses divan benchmark output (or its JSON export) for a base
and a PR run, compares them benchmark by benchmark, and renders a markdown
report suitable for a pull request comment.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}

	cmd.PersistentFlags().String("config", "", "config file (default is ./benchdiff.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	cmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
	cmd.PersistentFlags().String("log-format", telemetry.LogFormatJSON, "Log format on stderr (json, text)")

	cmd.AddCommand(newCompareCmd(), newParseCmd(), newVersionCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n=== CRITICAL ERROR: Command Execution Panic ===\n")
			fmt.Fprintf(os.Stderr, "Error: %v\n", r)
			exit(1)
		}
	}()

	err := rootCmd.Execute()
	_ = closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		exit(1)
	}
}

// flagKeys maps command-line flags to configuration keys. Flags override
// the config file and BENCHDIFF_* environment variables.
var flagKeys = map[string]string{
	"title":                 config.KeyTitle,
	"subtitle":              config.KeySubtitle,
	"metric":                config.KeyMetric,
	"metrics":               config.KeyMetrics,
	"format":                config.KeyFormat,
	"improvement-threshold": config.KeyImprovementThreshold,
	"warn-threshold":        config.KeyWarnThreshold,
	"error-threshold":       config.KeyErrorThreshold,
	"fail-on-regression":    config.KeyFailOnRegression,
	"metrics-file":          config.KeyMetricsFile,
	"verbose":               config.KeyVerbose,
	"log-file":              config.KeyLogFile,
	"log-format":            config.KeyLogFormat,
}

// initConfig reads in config file and ENV variables, binds the flags of the
// running command and sets up logging.
func initConfig(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.Load(cfgFile); err != nil {
		return err
	}

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = viper.BindPFlag(key, f)
		}
	})

	if err := config.ValidateConfig(); err != nil {
		return err
	}

	closeLog = telemetry.InitLogger(
		viper.GetBool(config.KeyVerbose),
		viper.GetString(config.KeyLogFormat),
		viper.GetString(config.KeyLogFile),
	)
	ui.SetColor(isTerminal(os.Stderr))
	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
