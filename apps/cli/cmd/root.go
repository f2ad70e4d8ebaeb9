package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/hitvcr/packages/core/config"
	"github.com/abdul-hamid-achik/hitvcr/packages/logging"
	"github.com/abdul-hamid-achik/hitvcr/packages/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag    string
	tagFlag       string
	outputFlag    string
	logLevelFlag  string
	logFormatFlag string
	verboseFlag   bool
	noColorFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "hitvcr",
	Short: "Cassette directives for Go tests.",
	Long: `hitvcr turns an HTTP recorder on for Go tests whose doc comment
names a cassette with an @vcr directive, and off again when they end.

The CLI lists which tests record to which cassette and validates
cassette files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString(config.EnvConfigPath, ""), "Path to config file (env: HITVCR_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&tagFlag, "tag", "", "Directive tag (default from config, \"@vcr\")")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", getEnvString("HITVCR_OUTPUT", "console"), "Output format: console, json (env: HITVCR_OUTPUT)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("HITVCR_LOG_LEVEL", ""), "Log level: debug, info, warn, error (env: HITVCR_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", getEnvString("HITVCR_LOG_FORMAT", ""), "Log format: text, json (env: HITVCR_LOG_FORMAT)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("HITVCR_VERBOSE", false), "Verbose output (env: HITVCR_VERBOSE)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("HITVCR_NO_COLOR", false), "Disable colored output (env: HITVCR_NO_COLOR)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withExitCode(ExitUsageError, err)
	})

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

// usageArgs wraps an argument validator so its errors exit with ExitUsageError.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withExitCode(ExitUsageError, fn(cmd, args))
	}
}

// loadConfig reads the config file and applies the command-line overrides.
// The returned logger writes to stderr at the merged log level; --verbose
// lowers it to debug.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, nil, withExitCode(ExitConfigError, err)
	}

	overrides := &config.Config{
		Tag:       tagFlag,
		LogLevel:  logLevelFlag,
		LogFormat: logFormatFlag,
	}
	if cmd.Flags().Changed("verbose") || verboseFlag {
		overrides.Verbose = config.BoolPtr(verboseFlag)
	}
	if cmd.Flags().Changed("no-color") || noColorFlag {
		overrides.NoColor = config.BoolPtr(noColorFlag)
	}
	cfg := fileConfig.Merge(overrides)

	logger := logging.New(logging.FromSettings(cfg.LogLevel, cfg.LogFormat, cfg.GetVerbose(), cmd.ErrOrStderr()))
	logger.Debug("configuration loaded",
		"defaults", fileConfig.IsDefault(),
		"tag", cfg.Tag,
		"testDir", cfg.TestDir,
	)
	return cfg, logger, nil
}

// Formatter interface for all output formatters
type Formatter interface {
	FormatListing(listing *output.Listing)
	FormatValidation(report *output.ValidationReport)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush() error
}

// totals is implemented by formatters that print a summary line.
type totals interface {
	FormatListingTotals(recorded, live int)
	FormatValidationTotals(valid, invalid int)
}

func newFormatter(cmd *cobra.Command, cfg *config.Config) (Formatter, error) {
	switch strings.ToLower(outputFlag) {
	case "json":
		return output.NewJSONFormatter(output.JSONWithWriter(cmd.OutOrStdout())), nil
	case "console", "":
		return output.NewConsoleFormatter(
			output.WithWriter(cmd.OutOrStdout()),
			output.WithVerbose(cfg.GetVerbose()),
			output.WithNoColor(cfg.GetNoColor()),
		), nil
	}
	return nil, withExitCode(ExitUsageError, fmt.Errorf("unknown output format %q (want console or json)", outputFlag))
}

func flush(f Formatter) error {
	if fl, ok := f.(Flushable); ok {
		return fl.Flush()
	}
	return nil
}
