package predict

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/go-bikerental/internal/config"
	"github.com/mrz1836/go-bikerental/internal/dataset"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
	"github.com/mrz1836/go-bikerental/internal/jsonutil"
	"github.com/mrz1836/go-bikerental/internal/pipeline"
	"github.com/mrz1836/go-bikerental/internal/testutil"
	"github.com/mrz1836/go-bikerental/internal/validation"
)

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Record(ctx context.Context, outcome Outcome) error {
	return testutil.ExtractError(m.Called(ctx, outcome))
}

type mockPredictor struct {
	mock.Mock
}

func (m *mockPredictor) Predict(ctx context.Context, ds *dataset.Dataset) ([]float64, error) {
	return testutil.ExtractResult[[]float64](m.Called(ctx, ds))
}

func (m *mockPredictor) Version() string {
	return m.Called().String(0)
}

type fakeObserver struct {
	mu       sync.Mutex
	statuses []string
}

func (f *fakeObserver) ObservePrediction(status string, _, _ int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
}

func fittedPipeline(t *testing.T) (*pipeline.Pipeline, *config.Config) {
	t.Helper()
	cfg := testutil.Config(t)
	p, err := pipeline.Build(cfg)
	require.NoError(t, err)
	X, y := testutil.TrainingData(t, cfg, 200)
	require.NoError(t, p.Fit(context.Background(), X, y))
	return p, cfg
}

func newService(t *testing.T, opts Options) *Service {
	t.Helper()
	p, cfg := fittedPipeline(t)
	opts.Validator = validation.New(validation.Options{Features: cfg.Model.Features})
	return NewService(p, opts)
}

func sampleInput() map[string]any {
	return map[string]any{
		"dteday":     "2012-11-05",
		"season":     "spring",
		"hr":         "4am",
		"holiday":    "No",
		"weekday":    "Mon",
		"workingday": "Yes",
		"weathersit": "Clear",
		"temp":       -10,
		"atemp":      -12.1,
		"hum":        49,
		"windspeed":  19,
		"casual":     4,
		"registered": 135,
	}
}

func TestMakePredictionSingleRecord(t *testing.T) {
	observer := &fakeObserver{}
	svc := newService(t, Options{Observer: observer})

	result, err := svc.MakePrediction(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Len(t, result.Predictions, 1)
	assert.Equal(t, "0.1.0", result.Version)
	assert.Nil(t, result.Errors)
	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, []string{StatusOK}, observer.statuses)
}

func TestMakePredictionBestEffort(t *testing.T) {
	observer := &fakeObserver{}
	svc := newService(t, Options{Observer: observer})

	bad := sampleInput()
	bad["hum"] = 49.5
	result, err := svc.MakePrediction(context.Background(), []any{sampleInput(), bad})
	require.NoError(t, err)

	assert.Len(t, result.Predictions, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "int_from_float", result.Errors[0].Type)
	assert.Equal(t, []any{"inputs", 1, "hum"}, result.Errors[0].Loc)
	assert.Equal(t, []string{StatusPartial}, observer.statuses)
}

func TestMakePredictionClearsUncoercibleFields(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		errType string
	}{
		{"text humidity", "hum", "humid", validation.ErrTypeIntParsing},
		{"boolean temperature", "temp", true, validation.ErrTypeFloatType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &fakeObserver{}
			svc := newService(t, Options{Observer: observer})

			bad := sampleInput()
			bad[tt.field] = tt.value
			result, err := svc.MakePrediction(context.Background(), []any{sampleInput(), bad})
			require.NoError(t, err)

			require.Len(t, result.Predictions, 2)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.errType, result.Errors[0].Type)
			assert.Equal(t, []any{"inputs", 1, tt.field}, result.Errors[0].Loc)
			assert.Equal(t, []string{StatusPartial}, observer.statuses)

			alone, err := svc.MakePrediction(context.Background(), sampleInput())
			require.NoError(t, err)
			assert.Equal(t, alone.Predictions[0], result.Predictions[0])
		})
	}
}

func TestMakePredictionNullNumericIsFilled(t *testing.T) {
	svc := newService(t, Options{})

	sparse := sampleInput()
	sparse["temp"] = nil
	delete(sparse, "windspeed")
	result, err := svc.MakePrediction(context.Background(), []any{sampleInput(), sparse})
	require.NoError(t, err)
	assert.Len(t, result.Predictions, 2)
	assert.Nil(t, result.Errors, "null fields are valid input")
}

func TestMakePredictionStrict(t *testing.T) {
	svc := newService(t, Options{StrictValidation: true})

	bad := sampleInput()
	bad["temp"] = "warm"
	result, err := svc.MakePrediction(context.Background(), bad)
	require.ErrorIs(t, err, appErrors.ErrSchemaValidation)
	require.NotNil(t, result)
	assert.Nil(t, result.Predictions)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, "0.1.0", result.Version)
}

func TestMakePredictionPipelineFailure(t *testing.T) {
	svc := newService(t, Options{})

	bad := sampleInput()
	bad["season"] = "monsoon"
	result, err := svc.MakePrediction(context.Background(), bad)
	require.ErrorIs(t, err, appErrors.ErrUnmappedCategory)
	require.NotNil(t, result)
	assert.Nil(t, result.Predictions)
	assert.Equal(t, "0.1.0", result.Version)
}

func TestMakePredictionUsesPredictor(t *testing.T) {
	predictor := &mockPredictor{}
	predictor.On("Version").Return("2.0.0")
	predictor.On("Predict", mock.Anything, mock.MatchedBy(func(ds *dataset.Dataset) bool {
		return ds.Len() == 2
	})).Return([]float64{42, 43}, nil).Once()

	svc := NewService(predictor, Options{})
	result, err := svc.MakePrediction(context.Background(), []map[string]any{sampleInput(), sampleInput()})
	require.NoError(t, err)
	assert.Equal(t, []float64{42, 43}, result.Predictions)
	assert.Equal(t, "2.0.0", result.Version)
	predictor.AssertExpectations(t)

	predictor.On("Predict", mock.Anything, mock.Anything).Return(nil, appErrors.ErrNotFitted).Once()
	result, err = svc.MakePrediction(context.Background(), sampleInput())
	require.ErrorIs(t, err, appErrors.ErrNotFitted)
	assert.Nil(t, result.Predictions)
}

func TestMakePredictionRecordsOutcome(t *testing.T) {
	recorder := &mockRecorder{}
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(o Outcome) bool {
		return o.Status == StatusOK && len(o.Predictions) == 1 && o.RequestID != "" && o.Err == nil
	})).Return(nil).Once()

	svc := newService(t, Options{Recorder: recorder})
	_, err := svc.MakePrediction(context.Background(), sampleInput())
	require.NoError(t, err)
	recorder.AssertExpectations(t)
}

func TestMakePredictionIgnoresRecorderFailure(t *testing.T) {
	recorder := &mockRecorder{}
	recorder.On("Record", mock.Anything, mock.Anything).Return(appErrors.ErrTest).Once()

	svc := newService(t, Options{Recorder: recorder})
	result, err := svc.MakePrediction(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Len(t, result.Predictions, 1)
	recorder.AssertExpectations(t)
}

func TestMakePredictionRejectsBadInput(t *testing.T) {
	svc := newService(t, Options{})

	result, err := svc.MakePrediction(context.Background(), "not a record")
	require.ErrorIs(t, err, appErrors.ErrInvalidInput)
	assert.Nil(t, result.Predictions)
}

func TestResultJSON(t *testing.T) {
	out, err := jsonutil.MarshalJSON(&Result{Version: "0.1.0", RequestID: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"predictions":null,"version":"0.1.0","errors":null}`, string(out))
}

func TestRecords(t *testing.T) {
	one := map[string]any{"hr": "4am"}
	ds := dataset.FromRecords([]map[string]any{one, one}, nil)

	tests := []struct {
		name    string
		input   any
		want    int
		wantErr bool
	}{
		{"single map", one, 1, false},
		{"typed batch", []map[string]any{one, one}, 2, false},
		{"decoded batch", []any{one, one, one}, 3, false},
		{"dataset", ds, 2, false},
		{"nil", nil, 0, true},
		{"empty batch", []any{}, 0, true},
		{"non-object item", []any{one, 3}, 0, true},
		{"scalar", 42, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Records(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, appErrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}
