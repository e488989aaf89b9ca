package features

import (
	"github.com/mrz1836/go-bikerental/internal/dataset"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// Mapper recodes a categorical column to integers with a fixed mapping table.
// The table is configuration, nothing is learned at fit time.
type Mapper struct {
	Variable string         `json:"variable"`
	Mappings map[string]int `json:"mappings"`
}

// NewMapper creates a mapper for variable; the table is copied
func NewMapper(variable string, mappings map[string]int) (*Mapper, error) {
	s := &Mapper{Variable: variable, Mappings: make(map[string]int, len(mappings))}
	for k, v := range mappings {
		s.Mappings[k] = v
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Mapper) validate() error {
	if err := checkColumnName(KindMapper, "variable", s.Variable); err != nil {
		return err
	}
	if len(s.Mappings) == 0 {
		return appErrors.ConfigurationError(KindMapper, "mapping table for "+s.Variable+" cannot be empty")
	}
	return nil
}

// Name returns the stage kind
func (s *Mapper) Name() string { return KindMapper }

// Fit is a no-op
func (s *Mapper) Fit(_ *dataset.Dataset) error { return nil }

// Transform replaces each value with its mapped integer. A value without a
// mapping, missing values included, fails the whole transform.
func (s *Mapper) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	values, err := ds.Column(s.Variable)
	if err != nil {
		return nil, appErrors.MissingColumnError(KindMapper, s.Variable)
	}

	for i, v := range values {
		code, ok := s.Mappings[v.String()]
		if v.IsMissing() || !ok {
			return nil, appErrors.UnmappedCategoryError(s.Variable, display(v))
		}
		values[i] = dataset.Number(float64(code))
	}

	out := ds.Clone()
	if err := out.SetColumn(s.Variable, values); err != nil {
		return nil, err
	}
	return out, nil
}
