package validation

import (
	"fmt"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

// FieldError describes one field of one record that failed coercion
type FieldError struct {
	Type  string `json:"type"`
	Loc   []any  `json:"loc"`
	Msg   string `json:"msg"`
	Input any    `json:"input"`
}

// ErrorPayload collects every field error of a batch, in record then schema order
type ErrorPayload []FieldError

// add appends an error for field of record index
func (p *ErrorPayload) add(index int, field, errType string, input any) {
	*p = append(*p, FieldError{
		Type:  errType,
		Loc:   []any{"inputs", index, field},
		Msg:   messages[errType],
		Input: input,
	})
}

// Len returns the number of field errors
func (p ErrorPayload) Len() int { return len(p) }

// Records returns the distinct record indices that failed, ascending
func (p ErrorPayload) Records() []int {
	var out []int
	last := -1
	for _, fe := range p {
		idx, _ := fe.Loc[1].(int)
		if idx != last {
			out = append(out, idx)
			last = idx
		}
	}
	return out
}

// Err returns nil for an empty payload, otherwise an error wrapping
// ErrSchemaValidation that summarizes the first failure
func (p ErrorPayload) Err() error {
	if len(p) == 0 {
		return nil
	}
	first := p[0]
	return fmt.Errorf("%w: %d field error(s), first: %v %s", appErrors.ErrSchemaValidation, len(p), first.Loc, first.Msg)
}
