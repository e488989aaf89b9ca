// Package pipeline composes the feature stages and the terminal estimator
// into a single fit/transform/predict unit and persists it as a versioned
// artifact.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	"github.com/mrz1836/go-bikerental/internal/estimator"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
	"github.com/mrz1836/go-bikerental/internal/features"
	"github.com/mrz1836/go-bikerental/internal/logging"
)

// Step is a named stage in the chain
type Step struct {
	Name  string
	Stage features.Stage
}

// Pipeline runs its steps in order and feeds the result to the regressor.
//
// After Fit (or Load) a Pipeline is read-only: Transform and Predict work on
// clones, so one instance can serve concurrent requests.
type Pipeline struct {
	steps         []Step
	regressor     estimator.Regressor
	outputColumns []string
	fillValues    map[string]float64
	version       string
	scores        *estimator.Scores
	fitted        bool

	logger    *logrus.Entry
	logConfig *logging.LogConfig
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger used for per-step debug output
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.logger = logging.WithStandardFields(logger, p.logConfig, logging.ComponentNames.Pipeline)
	}
}

// WithLogConfig enables --debug-pipeline and --debug-estimator output
func WithLogConfig(lc *logging.LogConfig) Option {
	return func(p *Pipeline) {
		p.logConfig = lc
		if lc != nil && lc.CorrelationID != "" {
			p.logger = p.logger.WithField(logging.StandardFields.CorrelationID, lc.CorrelationID)
		}
	}
}

// WithVersion stamps the pipeline with a semantic version
func WithVersion(version string) Option {
	return func(p *Pipeline) { p.version = version }
}

// New creates an unfitted pipeline. Step names must be unique and non-empty.
func New(regressor estimator.Regressor, steps []Step, opts ...Option) (*Pipeline, error) {
	if regressor == nil {
		return nil, appErrors.ConfigurationError("pipeline", "regressor cannot be nil")
	}
	if len(steps) == 0 {
		return nil, appErrors.ConfigurationError("pipeline", "at least one step is required")
	}
	seen := make(map[string]struct{}, len(steps))
	for i, step := range steps {
		if strings.TrimSpace(step.Name) == "" {
			return nil, appErrors.ConfigurationError("pipeline", fmt.Sprintf("step %d has no name", i))
		}
		if step.Stage == nil {
			return nil, appErrors.ConfigurationError("pipeline", fmt.Sprintf("step %s has no stage", step.Name))
		}
		if _, dup := seen[step.Name]; dup {
			return nil, appErrors.ConfigurationError("pipeline", fmt.Sprintf("duplicate step name %s", step.Name))
		}
		seen[step.Name] = struct{}{}
	}

	p := &Pipeline{
		steps:     append([]Step(nil), steps...),
		regressor: regressor,
		logger:    logging.WithStandardFields(logging.Discard(), nil, logging.ComponentNames.Pipeline),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Steps returns the steps in order
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Regressor returns the terminal estimator
func (p *Pipeline) Regressor() estimator.Regressor { return p.regressor }

// OutputColumns returns the transformed column order captured at fit time
func (p *Pipeline) OutputColumns() []string {
	return append([]string(nil), p.outputColumns...)
}

// Version returns the pipeline version
func (p *Pipeline) Version() string { return p.version }

// Scores returns the holdout metrics recorded with SetScores, if any
func (p *Pipeline) Scores() *estimator.Scores { return p.scores }

// SetScores attaches holdout metrics that are saved with the artifact
func (p *Pipeline) SetScores(s estimator.Scores) { p.scores = &s }

// FillValues returns the per-column medians used in place of missing
// estimator inputs
func (p *Pipeline) FillValues() map[string]float64 {
	out := make(map[string]float64, len(p.fillValues))
	for k, v := range p.fillValues {
		out[k] = v
	}
	return out
}

// Fitted reports whether Fit or Load completed
func (p *Pipeline) Fitted() bool { return p.fitted }

func (p *Pipeline) debugPipeline() bool {
	return p.logConfig != nil && p.logConfig.Debug.Pipeline
}

func (p *Pipeline) debugEstimator() bool {
	return p.logConfig != nil && p.logConfig.Debug.Estimator
}

// Fit fits every stage on the output of the previous one, records the
// resulting column order and trains the regressor on it.
func (p *Pipeline) Fit(ctx context.Context, X *dataset.Dataset, y []float64) error {
	if X.Len() != len(y) {
		return appErrors.LengthMismatchError("pipeline targets", X.Len(), len(y))
	}

	start := time.Now()
	current := X
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := step.Stage.Fit(current); err != nil {
			return stepError(step, "fit", err)
		}
		next, err := step.Stage.Transform(current)
		if err != nil {
			return stepError(step, "transform", err)
		}
		current = next

		if p.debugPipeline() {
			p.logger.WithFields(logrus.Fields{
				logging.StandardFields.Operation:   logging.OperationTypes.Fit,
				logging.StandardFields.Step:        step.Name,
				logging.StandardFields.StageKind:   step.Stage.Name(),
				logging.StandardFields.RowCount:    current.Len(),
				logging.StandardFields.ColumnCount: len(current.Columns()),
			}).Debug("Fitted step")
		}
	}

	columns := current.Columns()
	fill := columnMedians(current, columns)
	matrix, err := current.MatrixFilled(columns, fill)
	if err != nil {
		return fmt.Errorf("build estimator input: %w", err)
	}

	estStart := time.Now()
	if err := p.regressor.Fit(matrix, y); err != nil {
		return fmt.Errorf("estimator %s fit failed: %w", p.regressor.Name(), err)
	}
	if p.debugEstimator() {
		rows, cols := matrix.Dims()
		p.logger.WithFields(logrus.Fields{
			logging.StandardFields.EstimatorKind: p.regressor.Name(),
			logging.StandardFields.RowCount:      rows,
			logging.StandardFields.ColumnCount:   cols,
			logging.StandardFields.DurationMs:    time.Since(estStart).Milliseconds(),
		}).Debug("Fitted estimator")
	}

	p.outputColumns = columns
	p.fillValues = fill
	p.fitted = true

	p.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation:    logging.OperationTypes.Fit,
		logging.StandardFields.RowCount:     X.Len(),
		logging.StandardFields.ColumnCount:  len(columns),
		logging.StandardFields.ModelVersion: p.version,
		logging.StandardFields.DurationMs:   time.Since(start).Milliseconds(),
	}).Info("Pipeline fitted")

	return nil
}

// Transform applies every fitted stage to a copy of ds
func (p *Pipeline) Transform(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !p.fitted {
		return nil, appErrors.NotFittedError("pipeline", "transform")
	}

	current := ds.Clone()
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		next, err := step.Stage.Transform(current)
		if err != nil {
			return nil, stepError(step, "transform", err)
		}
		current = next

		if p.debugPipeline() {
			p.logger.WithFields(logrus.Fields{
				logging.StandardFields.Operation:   logging.OperationTypes.Transform,
				logging.StandardFields.Step:        step.Name,
				logging.StandardFields.StageKind:   step.Stage.Name(),
				logging.StandardFields.RowCount:    current.Len(),
				logging.StandardFields.ColumnCount: len(current.Columns()),
			}).Debug("Applied step")
		}
	}
	return current, nil
}

// Predict transforms ds and returns one prediction per row
func (p *Pipeline) Predict(ctx context.Context, ds *dataset.Dataset) ([]float64, error) {
	transformed, err := p.Transform(ctx, ds)
	if err != nil {
		return nil, err
	}

	matrix, err := transformed.MatrixFilled(p.outputColumns, p.fillValues)
	if err != nil {
		return nil, fmt.Errorf("build estimator input: %w", err)
	}

	preds, err := p.regressor.Predict(matrix)
	if err != nil {
		return nil, fmt.Errorf("estimator %s predict failed: %w", p.regressor.Name(), err)
	}
	return preds, nil
}

// columnMedians returns the median of the numeric values of every column
// that has at least one. Columns holding text are left out and fail later in
// the matrix build.
func columnMedians(ds *dataset.Dataset, columns []string) map[string]float64 {
	out := make(map[string]float64, len(columns))
	for _, name := range columns {
		values, err := ds.Column(name)
		if err != nil {
			continue
		}
		nums := make([]float64, 0, len(values))
		numeric := true
		for _, v := range values {
			if v.IsMissing() {
				continue
			}
			f, ok := v.Float()
			if !ok {
				numeric = false
				break
			}
			nums = append(nums, f)
		}
		if !numeric || len(nums) == 0 {
			continue
		}
		sort.Float64s(nums)
		out[name] = features.Quantile(0.5, nums)
	}
	return out
}

func stepError(step Step, op string, err error) error {
	return fmt.Errorf("step %s (%s) %s failed: %w", step.Name, step.Stage.Name(), op, err)
}
