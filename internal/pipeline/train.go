package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-bikerental/internal/config"
	"github.com/mrz1836/go-bikerental/internal/dataset"
	"github.com/mrz1836/go-bikerental/internal/estimator"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
	"github.com/mrz1836/go-bikerental/internal/logging"
	"github.com/mrz1836/go-bikerental/internal/validation"
)

// TrainResult is a fitted pipeline with its holdout evaluation
type TrainResult struct {
	Pipeline  *Pipeline
	Scores    estimator.Scores
	TrainRows int
	TestRows  int
}

// Train prepares data, holds out cfg.Model.TestSize of it, fits the standard
// pipeline on the rest and scores it on the holdout. The scores are attached
// to the pipeline so they are saved with the artifact.
func Train(ctx context.Context, cfg *config.Config, data *dataset.Dataset, opts ...Option) (*TrainResult, error) {
	m := &cfg.Model

	var absent []string
	for _, name := range append(append([]string(nil), m.Features...), m.Target) {
		if name == m.YrVar || name == m.MnthVar {
			continue
		}
		if !data.HasColumn(name) {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		return nil, appErrors.MissingColumnError("training data", absent...)
	}

	prepared, err := validation.New(validation.Options{
		DateVar: m.DateVar,
		YrVar:   m.YrVar,
		MnthVar: m.MnthVar,
	}).Prepare(data)
	if err != nil {
		return nil, fmt.Errorf("prepare training data: %w", err)
	}

	columns := append(append([]string(nil), m.Features...), m.Target)
	trainSet, testSet := prepared.Select(columns).Split(m.TestSize, m.RandomState)
	if trainSet.Len() == 0 || testSet.Len() == 0 {
		return nil, appErrors.InsufficientDataError("train/test split", m.Target)
	}

	yTrain, err := trainSet.Float64s(m.Target)
	if err != nil {
		return nil, err
	}
	yTest, err := testSet.Float64s(m.Target)
	if err != nil {
		return nil, err
	}

	p, err := Build(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := p.Fit(ctx, trainSet.Select(m.Features), yTrain); err != nil {
		return nil, err
	}

	preds, err := p.Predict(ctx, testSet.Select(m.Features))
	if err != nil {
		return nil, fmt.Errorf("score holdout: %w", err)
	}
	scores, err := estimator.Evaluate(yTest, preds)
	if err != nil {
		return nil, err
	}
	p.SetScores(scores)

	p.logger.WithFields(logrus.Fields{
		logging.StandardFields.ModelVersion: p.version,
		"train_rows":                        trainSet.Len(),
		"test_rows":                         testSet.Len(),
		"rmse":                              scores.RMSE,
		"r2":                                scores.R2,
	}).Info("Holdout evaluation complete")

	return &TrainResult{
		Pipeline:  p,
		Scores:    scores,
		TrainRows: trainSet.Len(),
		TestRows:  testSet.Len(),
	}, nil
}
