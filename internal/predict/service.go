// Package predict serves predictions from a fitted pipeline: it validates raw
// records, runs them through the pipeline and packages the result with the
// model version and any validation errors.
package predict

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	"github.com/mrz1836/go-bikerental/internal/logging"
	"github.com/mrz1836/go-bikerental/internal/validation"
)

// Outcome statuses reported to observers and recorders
const (
	StatusOK       = "ok"       // every record validated and was predicted
	StatusPartial  = "partial"  // predicted despite validation errors
	StatusRejected = "rejected" // strict mode refused a batch with validation errors
	StatusFailed   = "failed"   // a stage or the estimator failed
)

// Predictor is a fitted pipeline
type Predictor interface {
	Predict(ctx context.Context, ds *dataset.Dataset) ([]float64, error)
	Version() string
}

// Result is the packaged prediction. Predictions and Errors are nil when
// absent so they encode as JSON null.
type Result struct {
	Predictions []float64               `json:"predictions"`
	Version     string                  `json:"version"`
	Errors      validation.ErrorPayload `json:"errors"`

	RequestID string `json:"-"`
}

// Outcome is everything known about one MakePrediction call
type Outcome struct {
	RequestID   string
	Version     string
	Status      string
	Inputs      []map[string]any
	Predictions []float64
	Errors      validation.ErrorPayload
	Err         error
	Duration    time.Duration
	CreatedAt   time.Time
}

// Recorder persists prediction outcomes
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Observer receives one callback per prediction, e.g. for metrics
type Observer interface {
	ObservePrediction(status string, records, fieldErrors int, duration time.Duration)
}

// Options configures a Service
type Options struct {
	Validator *validation.Validator // Default: validation.New with the logger
	Recorder  Recorder              // Optional
	Observer  Observer              // Optional

	// StrictValidation stops before the pipeline when any field fails
	// validation. Off by default: predictions are produced best-effort and the
	// errors ride along in the result.
	StrictValidation bool

	Logger    logrus.FieldLogger
	LogConfig *logging.LogConfig
}

// Service makes predictions with a shared, read-only pipeline
type Service struct {
	pipeline  Predictor
	validator *validation.Validator
	recorder  Recorder
	observer  Observer
	strict    bool
	logger    *logrus.Entry
}

// NewService creates a prediction service around a fitted pipeline
func NewService(p Predictor, opts Options) *Service {
	if opts.Validator == nil {
		opts.Validator = validation.New(validation.Options{Logger: opts.Logger, LogConfig: opts.LogConfig})
	}
	return &Service{
		pipeline:  p,
		validator: opts.Validator,
		recorder:  opts.Recorder,
		observer:  opts.Observer,
		strict:    opts.StrictValidation,
		logger:    logging.WithStandardFields(opts.Logger, opts.LogConfig, logging.ComponentNames.Predict),
	}
}

// Version returns the version of the served pipeline
func (s *Service) Version() string { return s.pipeline.Version() }

// MakePrediction validates input, predicts and packages the result.
//
// Validation errors are attached to the result and do not fail the call
// unless strict validation is on. Stage and estimator errors are returned
// together with the packaged result, whose predictions are then nil.
func (s *Service) MakePrediction(ctx context.Context, input any) (*Result, error) {
	start := time.Now()
	result := &Result{
		Version:   s.pipeline.Version(),
		RequestID: uuid.NewString(),
	}
	log := s.logger.WithFields(logrus.Fields{
		logging.StandardFields.RequestID:    result.RequestID,
		logging.StandardFields.ModelVersion: result.Version,
		logging.StandardFields.Operation:    logging.OperationTypes.Predict,
	})

	records, err := Records(input)
	if err != nil {
		s.finish(ctx, log, result, nil, StatusFailed, err, start)
		return result, err
	}

	cleaned, payload := s.validator.Validate(records)
	if payload.Len() > 0 {
		result.Errors = payload
	}

	if s.strict && payload.Len() > 0 {
		err := payload.Err()
		s.finish(ctx, log, result, records, StatusRejected, err, start)
		return result, err
	}

	preds, err := s.pipeline.Predict(ctx, cleaned)
	if err != nil {
		s.finish(ctx, log, result, records, StatusFailed, err, start)
		return result, err
	}
	result.Predictions = preds

	status := StatusOK
	if payload.Len() > 0 {
		status = StatusPartial
	}
	s.finish(ctx, log, result, records, status, nil, start)
	return result, nil
}

// finish logs, observes and records the outcome. Recorder failures are logged only.
func (s *Service) finish(ctx context.Context, log *logrus.Entry, result *Result, records []map[string]any, status string, err error, start time.Time) {
	elapsed := time.Since(start)

	entry := log.WithFields(logrus.Fields{
		logging.StandardFields.Status:      status,
		logging.StandardFields.RecordCount: len(records),
		logging.StandardFields.ErrorCount:  result.Errors.Len(),
		logging.StandardFields.DurationMs:  elapsed.Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("Prediction failed")
	} else {
		entry.Debug("Prediction complete")
	}

	if s.observer != nil {
		s.observer.ObservePrediction(status, len(records), result.Errors.Len(), elapsed)
	}

	if s.recorder == nil {
		return
	}
	outcome := Outcome{
		RequestID:   result.RequestID,
		Version:     result.Version,
		Status:      status,
		Inputs:      records,
		Predictions: result.Predictions,
		Errors:      result.Errors,
		Err:         err,
		Duration:    elapsed,
		CreatedAt:   start.UTC(),
	}
	if recErr := s.recorder.Record(ctx, outcome); recErr != nil {
		log.WithError(recErr).Warn("Failed to record prediction")
	}
}
