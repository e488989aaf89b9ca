// Package estimator provides the regression models that terminate the
// feature pipeline.
package estimator

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
	"github.com/mrz1836/go-bikerental/internal/jsonutil"
)

// Regressor is a fitted or unfitted regression model over a numeric matrix
type Regressor interface {
	// Name returns the estimator kind, e.g. "random_forest"
	Name() string

	// Fit trains on X (rows x features) and targets y
	Fit(X mat.Matrix, y []float64) error

	// Predict returns one prediction per row of X
	Predict(X mat.Matrix) ([]float64, error)
}

// Estimator kinds, used as registry keys in persisted artifacts
const (
	KindRandomForest = "random_forest"
	KindLinear       = "linear"
)

//nolint:gochecknoglobals // fixed kind table
var factories = map[string]func() Regressor{
	KindRandomForest: func() Regressor { return &RandomForestRegressor{} },
	KindLinear:       func() Regressor { return &LinearRegression{} },
}

// Kinds returns every registered estimator kind in sorted order
func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Encode returns the JSON parameters (and fitted state) of a regressor
func Encode(r Regressor) (jsonutil.RawMessage, error) {
	data, err := jsonutil.MarshalJSON(r)
	if err != nil {
		return nil, fmt.Errorf("encode estimator %s: %w", r.Name(), err)
	}
	return data, nil
}

// Decode rebuilds a regressor of the given kind
func Decode(kind string, params []byte) (Regressor, error) {
	factory, ok := factories[kind]
	if !ok {
		return nil, appErrors.ConfigurationError("estimator registry", fmt.Sprintf("unknown estimator kind %q", kind))
	}
	r := factory()
	if err := jsonutil.DecodeNumbersBytes(params, r); err != nil {
		return nil, fmt.Errorf("decode estimator %s: %w", kind, err)
	}
	return r, nil
}

// checkFitInput validates shapes shared by every regressor
func checkFitInput(component string, X mat.Matrix, y []float64) (rows, cols int, err error) {
	if X == nil {
		return 0, 0, appErrors.InsufficientDataError("fit", component)
	}
	rows, cols = X.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, appErrors.InsufficientDataError("fit", component)
	}
	if len(y) != rows {
		return 0, 0, appErrors.LengthMismatchError(component+" targets", rows, len(y))
	}
	return rows, cols, nil
}

// checkPredictInput validates the feature count of a prediction matrix
func checkPredictInput(component string, X mat.Matrix, features int) (int, error) {
	if X == nil {
		return 0, nil
	}
	rows, cols := X.Dims()
	if cols != features {
		return 0, appErrors.LengthMismatchError(component+" features", features, cols)
	}
	return rows, nil
}
