// Package validation gates raw prediction inputs before they reach the
// feature pipeline: it derives date parts, coerces each field to its schema
// type and collects every failure into one error payload per batch.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// FieldType is the schema type of an input field
type FieldType int

const (
	// TypeString accepts strings only
	TypeString FieldType = iota
	// TypeFloat accepts numbers and numeric strings
	TypeFloat
	// TypeInt accepts integral numbers and integral numeric strings
	TypeInt
	// TypeDate accepts date-like strings, left as text
	TypeDate
)

// String returns the type name
func (t FieldType) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeInt:
		return "int"
	case TypeDate:
		return "date"
	default:
		return "string"
	}
}

// Field is one nullable schema entry
type Field struct {
	Name string
	Type FieldType
}

// Schema is an ordered list of nullable fields
type Schema []Field

// DefaultSchema returns the bike rental input schema
func DefaultSchema() Schema {
	return Schema{
		{Name: "dteday", Type: TypeDate},
		{Name: "season", Type: TypeString},
		{Name: "hr", Type: TypeString},
		{Name: "holiday", Type: TypeString},
		{Name: "weekday", Type: TypeString},
		{Name: "workingday", Type: TypeString},
		{Name: "weathersit", Type: TypeString},
		{Name: "temp", Type: TypeFloat},
		{Name: "atemp", Type: TypeFloat},
		{Name: "hum", Type: TypeInt},
		{Name: "windspeed", Type: TypeInt},
		{Name: "casual", Type: TypeInt},
		{Name: "registered", Type: TypeInt},
		{Name: "yr", Type: TypeInt},
		{Name: "mnth", Type: TypeString},
	}
}

// Names returns the field names in schema order
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Error types reported in FieldError.Type
const (
	ErrTypeFloatParsing = "float_parsing"
	ErrTypeFloatType    = "float_type"
	ErrTypeIntParsing   = "int_parsing"
	ErrTypeIntFromFloat = "int_from_float"
	ErrTypeIntType      = "int_type"
	ErrTypeStringType   = "string_type"
	ErrTypeDateType     = "date_type"
)

//nolint:gochecknoglobals // fixed message table
var messages = map[string]string{
	ErrTypeFloatParsing: "Input should be a valid number, unable to parse string as a number",
	ErrTypeFloatType:    "Input should be a valid number",
	ErrTypeIntParsing:   "Input should be a valid integer, unable to parse string as an integer",
	ErrTypeIntFromFloat: "Input should be a valid integer, got a number with a fractional part",
	ErrTypeIntType:      "Input should be a valid integer",
	ErrTypeStringType:   "Input should be a valid string",
	ErrTypeDateType:     "Input should be a valid date string",
}

// coerced is the outcome of coercing one raw value. A nil result with an
// empty errType means null.
type coerced struct {
	value   any
	errType string
}

func coerce(raw any, t FieldType) coerced {
	if raw == nil {
		return coerced{}
	}
	switch t {
	case TypeFloat:
		return coerceFloat(raw)
	case TypeInt:
		return coerceInt(raw)
	case TypeDate:
		return coerceDate(raw)
	default:
		if s, ok := raw.(string); ok {
			return coerced{value: s}
		}
		return coerced{errType: ErrTypeStringType}
	}
}

// number extracts a float from numeric Go and JSON types
func number(raw any) (float64, bool) {
	switch x := raw.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

func coerceFloat(raw any) coerced {
	if s, ok := raw.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return coerced{errType: ErrTypeFloatParsing}
		}
		return floatResult(f)
	}
	f, ok := number(raw)
	if !ok {
		return coerced{errType: ErrTypeFloatType}
	}
	return floatResult(f)
}

func floatResult(f float64) coerced {
	if math.IsNaN(f) {
		return coerced{}
	}
	return coerced{value: f}
}

func coerceInt(raw any) coerced {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return coerced{value: float64(i)}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) {
			return coerced{errType: ErrTypeIntParsing}
		}
		return intResult(f)
	}
	f, ok := number(raw)
	if !ok {
		return coerced{errType: ErrTypeIntType}
	}
	if math.IsInf(f, 0) {
		return coerced{errType: ErrTypeIntParsing}
	}
	return intResult(f)
}

func intResult(f float64) coerced {
	if math.IsNaN(f) {
		return coerced{}
	}
	if f != math.Trunc(f) {
		return coerced{errType: ErrTypeIntFromFloat}
	}
	return coerced{value: f}
}

func coerceDate(raw any) coerced {
	switch x := raw.(type) {
	case string:
		return coerced{value: x}
	case time.Time:
		return coerced{value: x.Format("2006-01-02")}
	default:
		return coerced{errType: ErrTypeDateType}
	}
}
