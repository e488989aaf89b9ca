// Package dataset provides the column-oriented table of nullable values
// that flows through validation, the feature pipeline and the estimator.
package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a Value holds
type Kind uint8

const (
	// KindMissing is an absent value (null, NaN, empty CSV cell)
	KindMissing Kind = iota
	// KindString is a categorical or textual value
	KindString
	// KindNumber is a float64 value
	KindNumber
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "missing"
	}
}

// Value is a nullable scalar cell
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Missing returns the missing value
func Missing() Value { return Value{} }

// String wraps a string value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a float value; NaN becomes missing
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// FromAny converts a decoded JSON or Go scalar into a Value.
// Unsupported types render through their string form.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Missing()
	case Value:
		return x
	case string:
		return String(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return Number(f)
		}
		return String(x.String())
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case int:
		return Number(float64(x))
	case int32:
		return Number(float64(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case bool:
		return String(strconv.FormatBool(x))
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return String(s.String())
		}
		return Missing()
	}
}

// Kind reports what the value holds
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is absent
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsNumber reports whether the value holds a number
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// String renders the value. Numbers use the shortest representation that
// round-trips, so 2012.0 renders as "2012". Missing renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Float returns the numeric value. Strings that parse as numbers convert;
// missing values and other strings report false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Any returns nil, a string or a float64
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and content
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.str == o.str && v.num == o.num
}

// MarshalJSON encodes the value as null, a string or a number
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(strconv.FormatFloat(v.num, 'g', -1, 64)), nil
	default:
		return []byte("null"), nil
	}
}
