package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	"github.com/mrz1836/go-bikerental/internal/estimator"
	"github.com/mrz1836/go-bikerental/internal/logging"
	"github.com/mrz1836/go-bikerental/internal/metrics"
	"github.com/mrz1836/go-bikerental/internal/output"
	"github.com/mrz1836/go-bikerental/internal/pipeline"
)

type trainOptions struct {
	dataFile string
	keep     int
}

// createTrainCmd creates an isolated train command with the given flags
func createTrainCmd(flags *Flags) *cobra.Command {
	opts := &trainOptions{}

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the pipeline on the training data and save an artifact",
		Long: `Read the training CSV, fit the feature pipeline and estimator on a
seeded train split, score the holdout split and save the fitted pipeline as
<artifact_dir>/<pipeline_save_file><version>.json.`,
		Example: `  # Train with the embedded configuration
  bikerental train

  # Train on a specific file and keep only the three newest artifacts
  bikerental train --data datasets/bike-rental-dataset.csv --keep 3`,
		Args: cobra.NoArgs,
		RunE: createRunTrain(flags, opts),
	}

	cmd.Flags().StringVarP(&opts.dataFile, "data", "d", "", "Training CSV (default: <data_dir>/<training_data_file>)")
	cmd.Flags().IntVar(&opts.keep, "keep", 0, "Prune all but the newest N artifacts after saving (0 keeps everything)")
	return cmd
}

func createRunTrain(flags *Flags, opts *trainOptions) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := commandLogger(ctx, "train")

		if opts.keep < 0 {
			return ErrInvalidKeep
		}

		cfg, err := loadConfig(ctx, flags)
		if err != nil {
			return err
		}

		dataFile := opts.dataFile
		if dataFile == "" {
			dataFile = filepath.Join(cfg.App.DataDir, cfg.App.TrainingDataFile)
		}

		timer := metrics.StartTimer(ctx, log, logging.OperationTypes.Train).
			AddField("data_file", dataFile).
			AddField(logging.StandardFields.ModelVersion, cfg.App.Version)

		data, err := dataset.ReadCSVFile(dataFile)
		if err != nil {
			timer.StopWithError(err)
			return err
		}
		timer.AddField("rows", data.Len())

		res, err := pipeline.Train(ctx, cfg, data,
			pipeline.WithLogger(loggerFrom(ctx)),
			pipeline.WithLogConfig(logConfigFrom(ctx)),
		)
		if err != nil {
			timer.StopWithError(err)
			return err
		}

		path, err := pipeline.Save(res.Pipeline, cfg.App.ArtifactDir, cfg.App.PipelineSaveFile)
		if err != nil {
			timer.StopWithError(err)
			return err
		}

		if opts.keep > 0 {
			if err := pruneToNewest(cfg.App.ArtifactDir, cfg.App.PipelineSaveFile, opts.keep); err != nil {
				timer.StopWithError(err)
				return err
			}
		}
		elapsed := timer.StopWithError(nil)

		output.Successf("Saved pipeline %s to %s (%s)", cfg.App.Version, path, elapsed.Round(time.Millisecond))
		output.Infof("Trained on %d rows, scored on %d holdout rows", res.TrainRows, res.TestRows)
		output.Table([]string{"METRIC", "VALUE"}, scoreRows(res.Scores))
		return nil
	}
}

// pruneToNewest removes all but the newest keep artifacts and reports what went
func pruneToNewest(dir, baseName string, keep int) error {
	versions, err := pipeline.ListArtifacts(dir, baseName)
	if err != nil {
		return err
	}
	if len(versions) <= keep {
		return nil
	}
	removed, err := pipeline.PruneArtifacts(dir, baseName, versions[:keep]...)
	for _, path := range removed {
		output.Infof("Removed %s", path)
	}
	return err
}

func scoreRows(s estimator.Scores) [][]string {
	return [][]string{
		{"mse", fmt.Sprintf("%.4f", s.MSE)},
		{"rmse", fmt.Sprintf("%.4f", s.RMSE)},
		{"mae", fmt.Sprintf("%.4f", s.MAE)},
		{"r2", fmt.Sprintf("%.4f", s.R2)},
	}
}
