package predict

import (
	"fmt"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// Records normalizes a prediction input into a batch of raw records.
// Accepted shapes: a single map[string]any, []map[string]any, a []any of
// maps (as decoded from JSON) or a *dataset.Dataset.
func Records(input any) ([]map[string]any, error) {
	var records []map[string]any

	switch in := input.(type) {
	case nil:
		return nil, appErrors.InvalidInputError("input is empty")
	case map[string]any:
		records = []map[string]any{in}
	case []map[string]any:
		records = in
	case []any:
		records = make([]map[string]any, len(in))
		for i, item := range in {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, appErrors.InvalidInputError(fmt.Sprintf("item %d is %T, want an object", i, item))
			}
			records[i] = rec
		}
	case *dataset.Dataset:
		if in == nil {
			return nil, appErrors.InvalidInputError("input is empty")
		}
		records = in.Records()
	default:
		return nil, appErrors.InvalidInputError(fmt.Sprintf("unsupported input type %T", input))
	}

	if len(records) == 0 {
		return nil, appErrors.InvalidInputError("no records")
	}
	return records, nil
}
