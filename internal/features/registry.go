package features

import (
	"fmt"
	"sort"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
	"github.com/mrz1836/go-bikerental/internal/jsonutil"
)

// validator is implemented by every stage so decoded parameters get the
// same checks as constructor arguments
type validator interface {
	validate() error
}

// factories builds an empty stage per kind for decoding
//
//nolint:gochecknoglobals // fixed kind table
var factories = map[string]func() Stage{
	KindWeekdayImputer:    func() Stage { return &WeekdayImputer{} },
	KindWeathersitImputer: func() Stage { return &WeathersitImputer{} },
	KindMapper:            func() Stage { return &Mapper{} },
	KindOutlierHandler:    func() Stage { return &OutlierHandler{} },
	KindWeekdayEncoder:    func() Stage { return &WeekdayOneHotEncoder{} },
	KindDropColumns:       func() Stage { return &DropColumns{} },
}

// Kinds returns every registered stage kind in sorted order
func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Encode returns the JSON parameters of a stage
func Encode(stage Stage) (jsonutil.RawMessage, error) {
	data, err := jsonutil.MarshalJSON(stage)
	if err != nil {
		return nil, fmt.Errorf("encode stage %s: %w", stage.Name(), err)
	}
	return data, nil
}

// Decode rebuilds a stage of the given kind from its JSON parameters
func Decode(kind string, params []byte) (Stage, error) {
	factory, ok := factories[kind]
	if !ok {
		return nil, appErrors.ConfigurationError("stage registry", fmt.Sprintf("unknown stage kind %q", kind))
	}

	stage := factory()
	if err := jsonutil.DecodeNumbersBytes(params, stage); err != nil {
		return nil, fmt.Errorf("decode stage %s: %w", kind, err)
	}
	if v, ok := stage.(validator); ok {
		if err := v.validate(); err != nil {
			return nil, err
		}
	}
	return stage, nil
}
