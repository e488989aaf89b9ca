package estimator

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// minAlpha keeps the normal equations solvable when one-hot columns are collinear
const minAlpha = 1e-6

// LinearRegression is an L2-regularized least squares model with an
// unpenalized intercept
type LinearRegression struct {
	Alpha float64 `json:"alpha"`

	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept"`
}

// NewLinearRegression returns a ridge model with the given penalty
func NewLinearRegression(alpha float64) *LinearRegression {
	return &LinearRegression{Alpha: alpha}
}

// Name returns the estimator kind
func (lr *LinearRegression) Name() string { return KindLinear }

// Fit solves (Xc'Xc + alpha*I) w = Xc'yc on centered data
func (lr *LinearRegression) Fit(X mat.Matrix, y []float64) error {
	rows, cols, err := checkFitInput(KindLinear, X, y)
	if err != nil {
		return err
	}
	if lr.Alpha < 0 {
		return appErrors.ConfigurationError(KindLinear, "alpha cannot be negative")
	}

	means := make([]float64, cols)
	centered := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < rows; i++ {
			sum += X.At(i, j)
		}
		means[j] = sum / float64(rows)
		for i := 0; i < rows; i++ {
			centered.Set(i, j, X.At(i, j)-means[j])
		}
	}

	var yMean float64
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(rows)
	yc := make([]float64, rows)
	for i, v := range y {
		yc[i] = v - yMean
	}

	alpha := lr.Alpha
	if alpha < minAlpha {
		alpha = minAlpha
	}

	var gram mat.Dense
	gram.Mul(centered.T(), centered)
	for j := 0; j < cols; j++ {
		gram.Set(j, j, gram.At(j, j)+alpha)
	}

	var rhs mat.VecDense
	rhs.MulVec(centered.T(), mat.NewVecDense(rows, yc))

	var w mat.VecDense
	if err := w.SolveVec(&gram, &rhs); err != nil {
		return fmt.Errorf("solve normal equations: %w", err)
	}

	lr.Coefficients = make([]float64, cols)
	intercept := yMean
	for j := 0; j < cols; j++ {
		lr.Coefficients[j] = w.AtVec(j)
		intercept -= lr.Coefficients[j] * means[j]
	}
	lr.Intercept = intercept
	return nil
}

// Predict returns X w + intercept
func (lr *LinearRegression) Predict(X mat.Matrix) ([]float64, error) {
	if len(lr.Coefficients) == 0 {
		return nil, appErrors.NotFittedError(KindLinear, "predict")
	}
	rows, err := checkPredictInput(KindLinear, X, len(lr.Coefficients))
	if err != nil {
		return nil, err
	}

	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		v := lr.Intercept
		for j, c := range lr.Coefficients {
			v += c * X.At(i, j)
		}
		out[i] = v
	}
	return out, nil
}
