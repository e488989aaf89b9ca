// Package jsonutil provides type-safe JSON utilities with standardized error handling.
// Encoding is backed by json-iterator configured for full encoding/json compatibility.
package jsonutil

import (
	"bytes"
	"io"

	jsoniter "github.com/json-iterator/go"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
)

//nolint:gochecknoglobals // shared frozen codec configuration
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON marshals any type to JSON with standardized error handling.
// It provides a type-safe wrapper around json.Marshal with consistent error messages.
func MarshalJSON[T any](v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "marshal to JSON")
	}
	return data, nil
}

// UnmarshalJSON unmarshals JSON data to any type with standardized error handling.
// It provides a type-safe wrapper around json.Unmarshal with consistent error messages.
func UnmarshalJSON[T any](data []byte) (T, error) {
	var result T
	err := json.Unmarshal(data, &result)
	if err != nil {
		return result, appErrors.WrapWithContext(err, "unmarshal JSON")
	}
	return result, nil
}

// DecodeNumbers decodes JSON from r into v keeping numbers as json.Number so
// integers and fractional values stay distinguishable for schema validation.
func DecodeNumbers(r io.Reader, v interface{}) error {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(v); err != nil {
		return appErrors.WrapWithContext(err, "decode JSON")
	}
	return nil
}

// DecodeNumbersBytes is DecodeNumbers over an in-memory document.
func DecodeNumbersBytes(data []byte, v interface{}) error {
	return DecodeNumbers(bytes.NewReader(data), v)
}

// PrettyPrint formats JSON for human-readable output with proper indentation.
// It returns a formatted string representation of the provided value.
func PrettyPrint(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", appErrors.WrapWithContext(err, "pretty print JSON")
	}
	return string(data), nil
}

// CompactJSON removes unnecessary whitespace from JSON data.
// This is useful for minimizing JSON size for storage or transmission.
func CompactJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, appErrors.WrapWithContext(err, "parse JSON for compaction")
	}

	compact, err := json.Marshal(v)
	if err != nil {
		return nil, appErrors.WrapWithContext(err, "compact JSON")
	}
	return compact, nil
}

// RawMessage is a raw encoded JSON value, interchangeable with encoding/json's.
type RawMessage = jsoniter.RawMessage
