package store

import "errors"

var (
	// ErrUnsupportedDriver is returned for a store driver other than sqlite or postgres
	ErrUnsupportedDriver = errors.New("unsupported store driver")

	// ErrEmptyDSN is returned when a driver is configured without a DSN
	ErrEmptyDSN = errors.New("store dsn is required")

	// ErrInvalidType is returned when scanning a value of incorrect type
	ErrInvalidType = errors.New("invalid type")
)
