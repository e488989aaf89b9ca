package estimator

import (
	"math"

	"gonum.org/v1/gonum/stat"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// Scores holds holdout regression metrics
type Scores struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// Evaluate compares predictions against the true targets
func Evaluate(yTrue, yPred []float64) (Scores, error) {
	if len(yTrue) != len(yPred) {
		return Scores{}, appErrors.LengthMismatchError("predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return Scores{}, appErrors.InsufficientDataError("scores", "target")
	}

	var sse, sae float64
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		sse += d * d
		sae += math.Abs(d)
	}
	n := float64(len(yTrue))
	mse := sse / n

	r2 := 0.0
	if stat.Variance(yTrue, nil) > 0 {
		r2 = stat.RSquaredFrom(yPred, yTrue, nil)
	}

	return Scores{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAE:  sae / n,
		R2:   r2,
	}, nil
}
