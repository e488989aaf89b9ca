package features

import (
	"sort"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// WeekdayOneHotEncoder expands the weekday column into one indicator column
// per category seen at fit time, named <variable>_<category>.
type WeekdayOneHotEncoder struct {
	Variable      string   `json:"variable"`
	HandleUnknown string   `json:"handle_unknown"`
	Categories    []string `json:"categories,omitempty"`
}

// NewWeekdayOneHotEncoder creates an encoder for variable. An empty policy
// defaults to ignoring unknown categories.
func NewWeekdayOneHotEncoder(variable, handleUnknown string) (*WeekdayOneHotEncoder, error) {
	if handleUnknown == "" {
		handleUnknown = HandleUnknownIgnore
	}
	s := &WeekdayOneHotEncoder{Variable: variable, HandleUnknown: handleUnknown}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *WeekdayOneHotEncoder) validate() error {
	if err := checkColumnName(KindWeekdayEncoder, "variable", s.Variable); err != nil {
		return err
	}
	switch s.HandleUnknown {
	case HandleUnknownIgnore, HandleUnknownError:
		return nil
	default:
		return appErrors.ConfigurationError(KindWeekdayEncoder, "handle_unknown must be ignore or error, got "+s.HandleUnknown)
	}
}

// Name returns the stage kind
func (s *WeekdayOneHotEncoder) Name() string { return KindWeekdayEncoder }

// Fit learns the sorted distinct non-missing categories
func (s *WeekdayOneHotEncoder) Fit(ds *dataset.Dataset) error {
	values, err := ds.Column(s.Variable)
	if err != nil {
		return appErrors.MissingColumnError(KindWeekdayEncoder, s.Variable)
	}

	seen := make(map[string]struct{})
	for _, v := range values {
		if !v.IsMissing() {
			seen[v.String()] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return appErrors.InsufficientDataError("categories", s.Variable)
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	s.Categories = categories
	return nil
}

// FeatureNames returns the indicator column names in category order
func (s *WeekdayOneHotEncoder) FeatureNames() []string {
	names := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		names[i] = s.Variable + "_" + c
	}
	return names
}

// Transform appends the indicator columns, replacing any that already exist.
// Missing values encode as all zeros; unseen values follow HandleUnknown.
func (s *WeekdayOneHotEncoder) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if len(s.Categories) == 0 {
		return nil, appErrors.NotFittedError(KindWeekdayEncoder, "transform")
	}
	values, err := ds.Column(s.Variable)
	if err != nil {
		return nil, appErrors.MissingColumnError(KindWeekdayEncoder, s.Variable)
	}

	index := make(map[string]int, len(s.Categories))
	for i, c := range s.Categories {
		index[c] = i
	}

	indicators := make([][]dataset.Value, len(s.Categories))
	for j := range indicators {
		col := make([]dataset.Value, len(values))
		for i := range col {
			col[i] = dataset.Number(0)
		}
		indicators[j] = col
	}

	for i, v := range values {
		if v.IsMissing() {
			continue
		}
		j, ok := index[v.String()]
		if !ok {
			if s.HandleUnknown == HandleUnknownError {
				return nil, appErrors.UnknownCategoryError(s.Variable, v.String())
			}
			continue
		}
		indicators[j][i] = dataset.Number(1)
	}

	out := ds.Clone()
	for j, name := range s.FeatureNames() {
		if err := out.SetColumn(name, indicators[j]); err != nil {
			return nil, err
		}
	}
	return out, nil
}
