// Package errors defines common error types and utilities used throughout the application
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Pipeline error taxonomy. Every error produced by a stage, the validator or the
// estimator wraps exactly one of these so callers can branch with errors.Is.
var (
	// ErrConfiguration indicates malformed constructor arguments or configuration
	ErrConfiguration = errors.New("invalid configuration")

	// ErrSchemaValidation indicates one or more input fields failed type checks
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrUnmappedCategory indicates a categorical value has no ordinal mapping
	ErrUnmappedCategory = errors.New("unmapped category")

	// ErrMissingColumn indicates a column expected by a stage is absent
	ErrMissingColumn = errors.New("missing column")

	// ErrInsufficientData indicates a fit-time statistic could not be computed
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNotFitted indicates Transform or Predict was called before Fit
	ErrNotFitted = errors.New("not fitted")

	// ErrNonNumericValue indicates a numeric operation met a non-numeric value
	ErrNonNumericValue = errors.New("non-numeric value")

	// ErrMissingValue indicates a missing value reached a step that needs every value
	ErrMissingValue = errors.New("missing value")

	// ErrInvalidDate indicates a date field could not be parsed
	ErrInvalidDate = errors.New("invalid date")

	// ErrUnknownCategory indicates a category unseen at fit time under a strict policy
	ErrUnknownCategory = errors.New("unknown category")

	// ErrIncompatibleVersion indicates a persisted artifact cannot be served by this build
	ErrIncompatibleVersion = errors.New("incompatible artifact version")

	// ErrLengthMismatch indicates two aligned sequences differ in length
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrInvalidInput indicates a prediction request that is not a record or a batch of records
	ErrInvalidInput = errors.New("invalid input")

	// Test errors (only used in tests)
	ErrTest = errors.New("test error")
)

// Error templates for static error definitions (satisfies err113 linter)
var (
	errValidationFailedTemplate = errors.New("validation failed")
	errEmptyFieldTemplate       = errors.New("field cannot be empty")
	errRequiredFieldTemplate    = errors.New("field is required")
	errInvalidFormatTemplate    = errors.New("invalid format")
)

// WrapWithContext wraps an error with operation context using consistent formatting.
// This replaces manual fmt.Errorf("failed to %s: %w", operation, err) patterns.
func WrapWithContext(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// ConfigurationError reports a malformed constructor argument for a stage or component.
func ConfigurationError(component, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, component, reason)
}

// UnmappedCategoryError reports a categorical value missing from its mapping table.
func UnmappedCategoryError(column, value string) error {
	return fmt.Errorf("%w: column %q has no mapping for %q", ErrUnmappedCategory, column, value)
}

// MissingColumnError reports one or more absent columns, in the order given.
func MissingColumnError(component string, columns ...string) error {
	quoted := make([]string, 0, len(columns))
	for _, c := range columns {
		quoted = append(quoted, fmt.Sprintf("%q", c))
	}
	return fmt.Errorf("%w: %s: %s", ErrMissingColumn, component, strings.Join(quoted, ", "))
}

// InsufficientDataError reports a statistic that cannot be computed for a column.
func InsufficientDataError(statistic, column string) error {
	return fmt.Errorf("%w: cannot compute %s of column %q: no non-missing values", ErrInsufficientData, statistic, column)
}

// NotFittedError reports use of an unfitted component.
func NotFittedError(component, operation string) error {
	return fmt.Errorf("%w: %s must be fitted before %s", ErrNotFitted, component, operation)
}

// NonNumericValueError reports a value that cannot be used as a number.
func NonNumericValueError(column string, row int, value string) error {
	return fmt.Errorf("%w: column %q row %d: %q", ErrNonNumericValue, column, row, value)
}

// MissingValueError reports a missing value in a column that cannot hold one.
func MissingValueError(column string, row int) error {
	return fmt.Errorf("%w: column %q row %d", ErrMissingValue, column, row)
}

// InvalidDateError reports an unparseable date value.
func InvalidDateError(column string, row int, value string) error {
	return fmt.Errorf("%w: column %q row %d: %q", ErrInvalidDate, column, row, value)
}

// UnknownCategoryError reports a category not seen at fit time.
func UnknownCategoryError(column, value string) error {
	return fmt.Errorf("%w: column %q value %q was not seen during fit", ErrUnknownCategory, column, value)
}

// IncompatibleVersionError reports an artifact version this build refuses to load.
func IncompatibleVersionError(artifact, running string) error {
	return fmt.Errorf("%w: artifact %s cannot be served by %s", ErrIncompatibleVersion, artifact, running)
}

// LengthMismatchError reports two sequences that should be aligned but are not.
func LengthMismatchError(what string, want, got int) error {
	return fmt.Errorf("%w: %s: want %d, got %d", ErrLengthMismatch, what, want, got)
}

// InvalidInputError reports a prediction request of the wrong shape
func InvalidInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

// ValidationError creates a standardized validation error.
// This provides consistent validation error messages across all validation functions.
func ValidationError(item, reason string) error {
	return fmt.Errorf("%w for %s: %s", errValidationFailedTemplate, item, reason)
}

// EmptyFieldError creates a standardized empty field validation error.
func EmptyFieldError(field string) error {
	return fmt.Errorf("%w: %s", errEmptyFieldTemplate, field)
}

// RequiredFieldError creates a standardized required field error.
func RequiredFieldError(field string) error {
	return fmt.Errorf("%w: %s", errRequiredFieldTemplate, field)
}

// FormatError creates a standardized format validation error.
func FormatError(field, value, expectedFormat string) error {
	return fmt.Errorf("%w: %s '%s': expected %s", errInvalidFormatTemplate, field, value, expectedFormat)
}
