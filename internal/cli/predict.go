package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-bikerental/internal/config"
	"github.com/mrz1836/go-bikerental/internal/dataset"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
	"github.com/mrz1836/go-bikerental/internal/jsonutil"
	"github.com/mrz1836/go-bikerental/internal/output"
	"github.com/mrz1836/go-bikerental/internal/store"
)

// Input formats accepted by the predict command
const (
	formatAuto = "auto"
	formatJSON = "json"
	formatCSV  = "csv"
)

type predictOptions struct {
	inputFile string
	format    string
	artifact  string
	strict    bool
}

// createPredictCmd creates an isolated predict command with the given flags
func createPredictCmd(flags *Flags) *cobra.Command {
	opts := &predictOptions{format: formatAuto}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict rental counts for a batch of records",
		Long: `Validate input records and run them through a saved pipeline.

Input is a JSON object, a JSON array of objects or a headered CSV, read from
--input or standard input. The result is printed as JSON with the predictions,
the model version and any per-field validation errors.`,
		Example: `  # Predict from a JSON file
  bikerental predict --input records.json

  # Predict from CSV on standard input, failing on any validation error
  cat records.csv | bikerental predict --format csv --strict`,
		Args: cobra.NoArgs,
		RunE: createRunPredict(flags, opts),
	}

	cmd.Flags().StringVarP(&opts.inputFile, "input", "i", "", "Input file (default: standard input)")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "Input format (auto, json, csv)")
	cmd.Flags().StringVarP(&opts.artifact, "artifact", "a", "", "Artifact path (default: the configured version in artifact_dir)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Reject the batch when any field fails validation")
	return cmd
}

func createRunPredict(flags *Flags, opts *predictOptions) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := commandLogger(ctx, "predict")

		cfg, err := loadConfig(ctx, flags)
		if err != nil {
			return err
		}

		input, err := readPredictInput(cmd.InOrStdin(), opts)
		if err != nil {
			return err
		}

		p, err := loadPipeline(ctx, cfg, artifactPathFor(cfg, opts.artifact))
		if err != nil {
			return err
		}

		rec, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		if rec != nil {
			defer func() {
				if closeErr := rec.Close(); closeErr != nil {
					log.WithError(closeErr).Warn("Failed to close prediction store")
				}
			}()
		}

		svc := newService(ctx, cfg, p, rec, nil, opts.strict || cfg.Server.StrictValidation)

		result, err := svc.MakePrediction(ctx, input)
		if result != nil {
			if printErr := output.JSON(result); printErr != nil {
				return printErr
			}
		}
		if err != nil {
			return err
		}
		if result.Errors.Len() > 0 {
			output.Warnf("%d field error(s) in %d record(s)", result.Errors.Len(), len(result.Errors.Records()))
		}
		return nil
	}
}

// openStore opens the configured prediction store, or returns nil when none is configured
func openStore(ctx context.Context, cfg *config.Config) (store.Recorder, error) {
	rec, err := store.Open(ctx, cfg.Store, loggerFrom(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to open prediction store: %w", err)
	}
	return rec, nil
}

// readPredictInput reads the records named by opts, falling back to stdin
func readPredictInput(stdin io.Reader, opts *predictOptions) (any, error) {
	r := stdin
	if opts.inputFile != "" {
		f, err := os.Open(opts.inputFile) //#nosec G304 -- Path is supplied by the operator
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	switch inputFormat(opts) {
	case formatCSV:
		return dataset.ReadCSV(r)
	case formatJSON:
		var input any
		if err := jsonutil.DecodeNumbers(r, &input); err != nil {
			return nil, fmt.Errorf("failed to decode JSON input: %w", err)
		}
		return input, nil
	default:
		return nil, appErrors.InvalidInputError(fmt.Sprintf("unknown input format %q", opts.format))
	}
}

func inputFormat(opts *predictOptions) string {
	format := strings.ToLower(opts.format)
	if format != formatAuto && format != "" {
		return format
	}
	if strings.EqualFold(filepath.Ext(opts.inputFile), ".csv") {
		return formatCSV
	}
	return formatJSON
}
