package features

import (
	"math"
	"sort"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// iqrFactor scales the interquartile range into the clipping fence
const iqrFactor = 1.5

// Bounds is a closed clipping interval
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Clip returns v limited to the interval
func (b Bounds) Clip(v float64) float64 {
	switch {
	case v < b.Lower:
		return b.Lower
	case v > b.Upper:
		return b.Upper
	default:
		return v
	}
}

// OutlierHandler clips numerical columns to Tukey fences learned at fit time
type OutlierHandler struct {
	Variables []string          `json:"variables"`
	Bounds    map[string]Bounds `json:"bounds,omitempty"`
}

// NewOutlierHandler creates a handler for the given numerical columns
func NewOutlierHandler(variables ...string) (*OutlierHandler, error) {
	s := &OutlierHandler{Variables: append([]string(nil), variables...)}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *OutlierHandler) validate() error {
	return checkColumnList(KindOutlierHandler, "variables", s.Variables)
}

// Name returns the stage kind
func (s *OutlierHandler) Name() string { return KindOutlierHandler }

// Fit computes Q1 - 1.5*IQR and Q3 + 1.5*IQR for every variable, skipping
// missing values.
func (s *OutlierHandler) Fit(ds *dataset.Dataset) error {
	bounds := make(map[string]Bounds, len(s.Variables))
	for _, name := range s.Variables {
		nums, err := numericColumn(ds, name)
		if err != nil {
			return err
		}
		if len(nums) == 0 {
			return appErrors.InsufficientDataError("quartiles", name)
		}

		sort.Float64s(nums)
		q1 := Quantile(0.25, nums)
		q3 := Quantile(0.75, nums)
		iqr := q3 - q1
		bounds[name] = Bounds{Lower: q1 - iqrFactor*iqr, Upper: q3 + iqrFactor*iqr}
	}

	s.Bounds = bounds
	return nil
}

// Transform clips values strictly outside the fitted bounds. Missing values
// stay missing.
func (s *OutlierHandler) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if s.Bounds == nil {
		return nil, appErrors.NotFittedError(KindOutlierHandler, "transform")
	}

	out := ds.Clone()
	for _, name := range s.Variables {
		b, ok := s.Bounds[name]
		if !ok {
			return nil, appErrors.NotFittedError(KindOutlierHandler+" column "+name, "transform")
		}
		values, err := ds.Column(name)
		if err != nil {
			return nil, appErrors.MissingColumnError(KindOutlierHandler, name)
		}
		for i, v := range values {
			if v.IsMissing() {
				continue
			}
			f, ok := v.Float()
			if !ok {
				return nil, appErrors.NonNumericValueError(name, i, v.String())
			}
			values[i] = dataset.Number(b.Clip(f))
		}
		if err := out.SetColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// numericColumn returns the non-missing values of a column as floats
func numericColumn(ds *dataset.Dataset, name string) ([]float64, error) {
	values, err := ds.Column(name)
	if err != nil {
		return nil, appErrors.MissingColumnError(KindOutlierHandler, name)
	}
	nums := make([]float64, 0, len(values))
	for i, v := range values {
		if v.IsMissing() {
			continue
		}
		f, ok := v.Float()
		if !ok {
			return nil, appErrors.NonNumericValueError(name, i, v.String())
		}
		nums = append(nums, f)
	}
	return nums, nil
}

// Quantile returns the p-quantile of sorted x, interpolating linearly between
// the closest ranks: x[lo] + (h-lo)*(x[lo+1]-x[lo]) with h = (n-1)*p.
// x must be sorted ascending and non-empty.
func Quantile(p float64, x []float64) float64 {
	n := len(x)
	if n == 1 {
		return x[0]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i >= n-1 {
		return x[n-1]
	}
	return x[i] + (h-lo)*(x[i+1]-x[i])
}
