package cli

import (
	"context"

	"github.com/mrz1836/go-bikerental/internal/config"
	"github.com/mrz1836/go-bikerental/internal/pipeline"
	"github.com/mrz1836/go-bikerental/internal/predict"
	"github.com/mrz1836/go-bikerental/internal/validation"
)

// artifactPathFor returns the explicit path or the configured artifact for the running version
func artifactPathFor(cfg *config.Config, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return pipeline.ArtifactPath(cfg.App.ArtifactDir, cfg.App.PipelineSaveFile, cfg.App.Version)
}

// loadPipeline loads the artifact at path, checked against the configured version
func loadPipeline(ctx context.Context, cfg *config.Config, path string) (*pipeline.Pipeline, error) {
	return pipeline.Load(path, cfg.App.Version,
		pipeline.WithLogger(loggerFrom(ctx)),
		pipeline.WithLogConfig(logConfigFrom(ctx)),
	)
}

// newValidator builds the input validator for the configured model features
func newValidator(ctx context.Context, cfg *config.Config) *validation.Validator {
	m := cfg.Model
	return validation.New(validation.Options{
		Features:  m.Features,
		DateVar:   m.DateVar,
		YrVar:     m.YrVar,
		MnthVar:   m.MnthVar,
		Logger:    loggerFrom(ctx),
		LogConfig: logConfigFrom(ctx),
	})
}

// newService wires a prediction service over p. rec and obs may be nil.
func newService(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, rec predict.Recorder, obs predict.Observer, strict bool) *predict.Service {
	return predict.NewService(p, predict.Options{
		Validator:        newValidator(ctx, cfg),
		Recorder:         rec,
		Observer:         obs,
		StrictValidation: strict,
		Logger:           loggerFrom(ctx),
		LogConfig:        logConfigFrom(ctx),
	})
}
