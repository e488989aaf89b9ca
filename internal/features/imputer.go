package features

import (
	"sort"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// WeekdayImputer fills missing weekday values with the abbreviated day name
// of the row's date.
type WeekdayImputer struct {
	DateVariable    string `json:"date_variable"`
	WeekdayVariable string `json:"weekday_variable"`
}

// NewWeekdayImputer creates an imputer reading dates from dateVar and filling weekdayVar
func NewWeekdayImputer(dateVar, weekdayVar string) (*WeekdayImputer, error) {
	s := &WeekdayImputer{DateVariable: dateVar, WeekdayVariable: weekdayVar}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *WeekdayImputer) validate() error {
	if err := checkColumnName(KindWeekdayImputer, "date variable", s.DateVariable); err != nil {
		return err
	}
	return checkColumnName(KindWeekdayImputer, "weekday variable", s.WeekdayVariable)
}

// Name returns the stage kind
func (s *WeekdayImputer) Name() string { return KindWeekdayImputer }

// Fit is a no-op; the imputation is derived row by row
func (s *WeekdayImputer) Fit(_ *dataset.Dataset) error { return nil }

// Transform fills missing weekdays. Existing weekday values are left alone,
// and dates are only parsed for rows that need imputing.
func (s *WeekdayImputer) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	var absent []string
	for _, name := range []string{s.DateVariable, s.WeekdayVariable} {
		if !ds.HasColumn(name) {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		return nil, appErrors.MissingColumnError(KindWeekdayImputer, absent...)
	}

	weekdays, _ := ds.Column(s.WeekdayVariable)
	dates, _ := ds.Column(s.DateVariable)

	for i, v := range weekdays {
		if !v.IsMissing() {
			continue
		}
		day, ok := dataset.ParseDateValue(dates[i])
		if !ok {
			return nil, appErrors.InvalidDateError(s.DateVariable, i, display(dates[i]))
		}
		weekdays[i] = dataset.String(day.Weekday().String()[:3])
	}

	out := ds.Clone()
	if err := out.SetColumn(s.WeekdayVariable, weekdays); err != nil {
		return nil, err
	}
	return out, nil
}

// WeathersitImputer fills missing weather situations with the most frequent
// value seen at fit time and renders the column as text.
type WeathersitImputer struct {
	Variable  string `json:"variable"`
	FillValue string `json:"fill_value"`
	Fitted    bool   `json:"fitted"`
}

// NewWeathersitImputer creates an imputer for the given column
func NewWeathersitImputer(variable string) (*WeathersitImputer, error) {
	s := &WeathersitImputer{Variable: variable}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *WeathersitImputer) validate() error {
	return checkColumnName(KindWeathersitImputer, "variable", s.Variable)
}

// Name returns the stage kind
func (s *WeathersitImputer) Name() string { return KindWeathersitImputer }

// Fit records the mode of the non-missing values. Ties go to the value that
// sorts first.
func (s *WeathersitImputer) Fit(ds *dataset.Dataset) error {
	values, err := ds.Column(s.Variable)
	if err != nil {
		return appErrors.MissingColumnError(KindWeathersitImputer, s.Variable)
	}

	mode, ok := Mode(values)
	if !ok {
		return appErrors.InsufficientDataError("mode", s.Variable)
	}

	s.FillValue = mode
	s.Fitted = true
	return nil
}

// Transform fills missing values with the fitted mode
func (s *WeathersitImputer) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !s.Fitted {
		return nil, appErrors.NotFittedError(KindWeathersitImputer, "transform")
	}
	values, err := ds.Column(s.Variable)
	if err != nil {
		return nil, appErrors.MissingColumnError(KindWeathersitImputer, s.Variable)
	}

	for i, v := range values {
		if v.IsMissing() {
			values[i] = dataset.String(s.FillValue)
			continue
		}
		values[i] = dataset.String(v.String())
	}

	out := ds.Clone()
	if err := out.SetColumn(s.Variable, values); err != nil {
		return nil, err
	}
	return out, nil
}

// Mode returns the most frequent rendered value among the non-missing values.
// Ties resolve to the smallest value in sort order. It reports false when
// every value is missing.
func Mode(values []dataset.Value) (string, bool) {
	counts := make(map[string]int)
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		counts[v.String()]++
	}
	if len(counts) == 0 {
		return "", false
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, true
}
