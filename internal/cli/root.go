// Package cli implements the command-line interface for go-bikerental.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-bikerental/internal/config"
	"github.com/mrz1836/go-bikerental/internal/logging"
	"github.com/mrz1836/go-bikerental/internal/output"
)

// loggerContextKey is a type for context keys to avoid collisions
type loggerContextKey struct{}

// logConfigContextKey carries the LogConfig built from the flags
type logConfigContextKey struct{}

const rootLong = `go-bikerental trains and serves a regression pipeline that predicts
hourly bike rental counts from calendar and weather features.

Training reads the configured CSV, fits the feature pipeline and estimator,
scores a holdout split and saves a versioned artifact. The artifact can then
be used for batch predictions or served over HTTP.`

// NewRootCmd creates a new isolated root command instance
func NewRootCmd() *cobra.Command {
	flags := newFlags()

	cmd := &cobra.Command{
		Use:               "bikerental",
		Short:             "Train and serve the bike rental demand model",
		Long:              rootLong,
		PersistentPreRunE: createSetupLogging(flags),
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigFile, "config", "c", "", "Path to configuration file (default: embedded configuration)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format (text, json)")
	pf.CountVarP(&flags.Verbose, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")
	pf.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&flags.DebugPipeline, "debug-pipeline", false, "Log per-step transform details")
	pf.BoolVar(&flags.DebugValidation, "debug-validation", false, "Log per-field validation failures")
	pf.BoolVar(&flags.DebugEstimator, "debug-estimator", false, "Log estimator fitting details")
	pf.BoolVar(&flags.DebugConfig, "debug-config", false, "Log configuration loading and validation")

	cmd.AddCommand(createTrainCmd(flags))
	cmd.AddCommand(createPredictCmd(flags))
	cmd.AddCommand(createServeCmd(flags))
	cmd.AddCommand(createValidateCmd(flags))
	cmd.AddCommand(createDiffCmd(flags))
	cmd.AddCommand(createModelsCmd(flags))
	cmd.AddCommand(createHistoryCmd(flags))
	cmd.AddCommand(createVersionCmd(flags))

	return cmd
}

// Execute runs the CLI with a background context
func Execute() error {
	return ExecuteWithContext(context.Background())
}

// ExecuteWithContext runs the CLI until it finishes or an interrupt is received
func ExecuteWithContext(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}

// createSetupLogging creates an isolated logging setup function for the given flags.
// The configured logger and its LogConfig are stored in the command context.
func createSetupLogging(flags *Flags) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if flags == nil {
			return ErrNilFlags
		}
		if flags.NoColor {
			output.DisableColor()
		}

		lc := &logging.LogConfig{
			ConfigFile: flags.ConfigFile,
			LogLevel:   flags.LogLevel,
			LogFormat:  flags.LogFormat,
			Verbose:    flags.Verbose,
			Debug: logging.DebugFlags{
				Pipeline:   flags.DebugPipeline,
				Validation: flags.DebugValidation,
				Estimator:  flags.DebugEstimator,
				Config:     flags.DebugConfig,
			},
			CorrelationID: logging.GenerateCorrelationID(),
		}

		// Log to stderr to keep stdout clean for output
		logger := logrus.New()
		logger.SetOutput(os.Stderr)
		if err := logging.ConfigureLogger(logger, lc); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = context.WithValue(ctx, loggerContextKey{}, logger)
		ctx = context.WithValue(ctx, logConfigContextKey{}, lc)
		cmd.SetContext(ctx)

		logging.WithStandardFields(logger, lc, logging.ComponentNames.CLI).WithFields(logrus.Fields{
			"command":   cmd.Name(),
			"config":    flags.ConfigFile,
			"log_level": flags.LogLevel,
		}).Debug("CLI initialized")
		return nil
	}
}

// loggerFrom returns the command logger, falling back to the standard logger
func loggerFrom(ctx context.Context) *logrus.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*logrus.Logger); ok {
		return logger
	}
	return logrus.StandardLogger()
}

// logConfigFrom returns the LogConfig stored by createSetupLogging, if any
func logConfigFrom(ctx context.Context) *logging.LogConfig {
	lc, _ := ctx.Value(logConfigContextKey{}).(*logging.LogConfig)
	return lc
}

// commandLogger returns the CLI component logger tagged with the command name
func commandLogger(ctx context.Context, command string) *logrus.Entry {
	return logging.WithStandardFields(loggerFrom(ctx), logConfigFrom(ctx), logging.ComponentNames.CLI).
		WithField("command", command)
}

// loadConfig loads the configuration named by flags, applies environment
// overrides and validates the result
func loadConfig(ctx context.Context, flags *Flags) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateWithLogging(ctx, logConfigFrom(ctx)); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}
