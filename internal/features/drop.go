package features

import (
	"github.com/mrz1836/go-bikerental/internal/dataset"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// DropColumns removes a fixed set of columns
type DropColumns struct {
	Columns []string `json:"columns"`
}

// NewDropColumns creates a stage dropping the given columns
func NewDropColumns(columns ...string) (*DropColumns, error) {
	s := &DropColumns{Columns: append([]string(nil), columns...)}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DropColumns) validate() error {
	return checkColumnList(KindDropColumns, "columns", s.Columns)
}

// Name returns the stage kind
func (s *DropColumns) Name() string { return KindDropColumns }

// Fit is a no-op
func (s *DropColumns) Fit(_ *dataset.Dataset) error { return nil }

// Transform returns ds without the configured columns. If any is absent the
// error names every absent column.
func (s *DropColumns) Transform(ds *dataset.Dataset) (*dataset.Dataset, error) {
	var absent []string
	for _, name := range s.Columns {
		if !ds.HasColumn(name) {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		return nil, appErrors.MissingColumnError(KindDropColumns, absent...)
	}

	out := ds.Clone()
	if err := out.Drop(s.Columns...); err != nil {
		return nil, err
	}
	return out, nil
}
