// Package commands implements the CLI commands for mcpsync.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/config"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// configFlag holds the value of the --config flag.
var configFlag string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// cfg holds the loaded configuration; configLoadErr any error from loading it.
var (
	cfg           *config.Config
	configLoadErr error
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"path to mcpsync config file (default: search standard locations)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mcpsync version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	cfg, configLoadErr = config.Load(configFlag)
	if cfg == nil {
		cfg = config.Default()
	}
}

var rootCmd = &cobra.Command{
	Use:   "mcpsync",
	Short: "Keep MCP server configs in sync across AI desktop apps",
	Long: `mcpsync keeps Model Context Protocol (MCP) server definitions consistent
across desktop applications such as Claude Desktop, VSCode, Cursor, and
Windsurf, each of which stores the same information in a different JSON
shape.

Pick one application (or any JSON file) as the source of truth and
mcpsync rewrites every other application's config to match, preserving
each file's unrelated settings. The watch command keeps doing this
automatically whenever a config file changes.`,
	Example: `  # Sync all apps from Claude Desktop's config
  mcpsync sync Claude

  # Pick a source interactively
  mcpsync sync

  # Keep everything in sync continuously
  mcpsync watch

  See Also: mcpsync apps, mcpsync status`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("MCPSYNC_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 1
				case "2":
					v = 2
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load errors before any command runs.
func checkConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	// `mcpsync config init` must work without an existing config file
	if cmd.Name() == "init" {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
