package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-bikerental/internal/config"
	"github.com/mrz1836/go-bikerental/internal/output"
	"github.com/mrz1836/go-bikerental/internal/pipeline"
)

// createModelsCmd creates the models command group with the given flags
func createModelsCmd(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "models",
		Short:   "Inspect and manage saved pipeline artifacts",
		Aliases: []string{"model", "m"},
	}

	cmd.AddCommand(createModelsListCmd(flags))
	cmd.AddCommand(createModelsPruneCmd(flags))
	cmd.AddCommand(createDiffCmd(flags))
	return cmd
}

func createModelsListCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List saved artifacts, newest version first",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := commandLogger(ctx, "models list")

			cfg, err := loadConfig(ctx, flags)
			if err != nil {
				return err
			}
			versions, err := pipeline.ListArtifacts(cfg.App.ArtifactDir, cfg.App.PipelineSaveFile)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				return fmt.Errorf("%w in %s", ErrNoArtifacts, cfg.App.ArtifactDir)
			}

			rows := make([][]string, 0, len(versions))
			for _, v := range versions {
				path := pipeline.ArtifactPath(cfg.App.ArtifactDir, cfg.App.PipelineSaveFile, v)
				a, err := pipeline.ReadArtifact(path)
				if err != nil {
					log.WithError(err).WithField("artifact", path).Warn("Skipping unreadable artifact")
					continue
				}
				rows = append(rows, artifactRow(cfg, a))
			}
			output.Table([]string{"", "VERSION", "CREATED", "ESTIMATOR", "RMSE", "R2"}, rows)
			return nil
		},
	}
}

func artifactRow(cfg *config.Config, a *pipeline.Artifact) []string {
	marker := ""
	if a.Version == cfg.App.Version {
		marker = "*"
	}
	rmse, r2 := "-", "-"
	if a.Metrics != nil {
		rmse = fmt.Sprintf("%.4f", a.Metrics.RMSE)
		r2 = fmt.Sprintf("%.4f", a.Metrics.R2)
	}
	return []string{marker, a.Version, a.CreatedAt.Format(time.RFC3339), a.Estimator.Kind, rmse, r2}
}

func createModelsPruneCmd(flags *Flags) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove all but the newest artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keep < 0 {
				return ErrInvalidKeep
			}
			cfg, err := loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if err := pruneToNewest(cfg.App.ArtifactDir, cfg.App.PipelineSaveFile, keep); err != nil {
				return err
			}
			output.Successf("Kept the newest %d artifact(s)", keep)
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 1, "Number of newest artifacts to keep")
	return cmd
}

func createDiffCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <artifact-a> <artifact-b>",
		Short: "Show a unified diff of two artifacts",
		Long: `Show a unified diff of two artifacts. Each argument is a path or a version
from the configured artifact directory. Estimator parameters are summarized by size.`,
		Example: `  bikerental models diff 0.1.0 0.2.0`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}

			pathA, pathB := resolveArtifact(cfg, args[0]), resolveArtifact(cfg, args[1])
			a, err := pipeline.ReadArtifact(pathA)
			if err != nil {
				return err
			}
			b, err := pipeline.ReadArtifact(pathB)
			if err != nil {
				return err
			}

			diff, err := pipeline.Diff(a, b, pathA, pathB)
			if err != nil {
				return err
			}
			if diff == "" {
				output.Info("Artifacts are identical")
				return nil
			}
			output.Plain(diff)
			return nil
		},
	}
}

// resolveArtifact treats arg as a path when it exists, otherwise as a version
func resolveArtifact(cfg *config.Config, arg string) string {
	if _, err := os.Stat(arg); err == nil {
		return arg
	}
	return pipeline.ArtifactPath(cfg.App.ArtifactDir, cfg.App.PipelineSaveFile, arg)
}
