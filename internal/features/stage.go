// Package features provides the stateful column transforms of the bike rental
// feature pipeline: imputers, ordinal mappers, outlier clipping, one-hot
// encoding and column pruning.
package features

import (
	"strings"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// Stage defines the interface for a fit/transform step
type Stage interface {
	// Name returns the stage kind, e.g. "mapper"
	Name() string

	// Fit computes the stage parameters from ds; stateless stages do nothing
	Fit(ds *dataset.Dataset) error

	// Transform returns a transformed copy of ds. It never modifies the stage or ds.
	Transform(ds *dataset.Dataset) (*dataset.Dataset, error)
}

// Stage kinds, used as registry keys in persisted artifacts
const (
	KindWeekdayImputer    = "weekday_imputer"
	KindWeathersitImputer = "weathersit_imputer"
	KindMapper            = "mapper"
	KindOutlierHandler    = "outlier_handler"
	KindWeekdayEncoder    = "weekday_onehot_encoder"
	KindDropColumns       = "drop_columns"
)

// Unknown category policies for the one-hot encoder
const (
	HandleUnknownIgnore = "ignore"
	HandleUnknownError  = "error"
)

func checkColumnName(component, field, name string) error {
	if strings.TrimSpace(name) == "" {
		return appErrors.ConfigurationError(component, field+" must be a non-empty column name")
	}
	return nil
}

func checkColumnList(component, field string, names []string) error {
	if len(names) == 0 {
		return appErrors.ConfigurationError(component, field+" cannot be empty")
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if err := checkColumnName(component, field, name); err != nil {
			return err
		}
		if _, dup := seen[name]; dup {
			return appErrors.ConfigurationError(component, field+" lists "+name+" twice")
		}
		seen[name] = struct{}{}
	}
	return nil
}

// display renders a value for error messages
func display(v dataset.Value) string {
	if v.IsMissing() {
		return "<missing>"
	}
	return v.String()
}
