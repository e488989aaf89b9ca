package store

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/mrz1836/go-bikerental/internal/jsonutil"
	"github.com/mrz1836/go-bikerental/internal/predict"
)

// PredictionRecord is one persisted MakePrediction outcome
type PredictionRecord struct {
	ID           uint      `gorm:"primarykey" json:"id" db:"id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at" db:"created_at"`
	RequestID    string    `gorm:"uniqueIndex;size:36" json:"request_id" db:"request_id"`
	ModelVersion string    `gorm:"index;size:64" json:"model_version" db:"model_version"`
	Status       string    `gorm:"size:16" json:"status" db:"status"`
	RecordCount  int       `json:"record_count" db:"record_count"`
	ErrorCount   int       `json:"error_count" db:"error_count"`
	Inputs       JSONValue `gorm:"type:text" json:"inputs" db:"inputs"`
	Predictions  JSONValue `gorm:"type:text" json:"predictions" db:"predictions"`
	Errors       JSONValue `gorm:"type:text" json:"errors,omitempty" db:"errors"`
	Failure      string    `gorm:"type:text" json:"failure,omitempty" db:"failure"`
	DurationMs   int64     `json:"duration_ms" db:"duration_ms"`
}

// TableName pins the table name for both drivers
func (PredictionRecord) TableName() string { return "predictions" }

// NewPredictionRecord converts a prediction outcome into a row
func NewPredictionRecord(o predict.Outcome) (*PredictionRecord, error) {
	rec := &PredictionRecord{
		CreatedAt:    o.CreatedAt,
		RequestID:    o.RequestID,
		ModelVersion: o.Version,
		Status:       o.Status,
		RecordCount:  len(o.Inputs),
		ErrorCount:   o.Errors.Len(),
		DurationMs:   o.Duration.Milliseconds(),
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if o.Err != nil {
		rec.Failure = o.Err.Error()
	}

	var err error
	if rec.Inputs, err = newJSONValue(o.Inputs); err != nil {
		return nil, err
	}
	if o.Predictions != nil {
		if rec.Predictions, err = newJSONValue(o.Predictions); err != nil {
			return nil, err
		}
	}
	if o.Errors.Len() > 0 {
		if rec.Errors, err = newJSONValue(o.Errors); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// PredictionValues decodes the stored predictions
func (r *PredictionRecord) PredictionValues() ([]float64, error) {
	if len(r.Predictions) == 0 {
		return nil, nil
	}
	return jsonutil.UnmarshalJSON[[]float64](r.Predictions)
}

// JSONValue is an encoded JSON document stored as TEXT. Empty means NULL.
//
//nolint:recvcheck // mixed receivers required by driver.Valuer/sql.Scanner interface
type JSONValue []byte

func newJSONValue(v any) (JSONValue, error) {
	data, err := jsonutil.MarshalJSON(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Value implements driver.Valuer
func (j JSONValue) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil //nolint:nilnil // database/sql pattern for NULL values
	}
	return string(j), nil
}

// Scan implements sql.Scanner
func (j *JSONValue) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONValue(v)
	default:
		return fmt.Errorf("%w for JSONValue: %T", ErrInvalidType, value)
	}
	return nil
}
