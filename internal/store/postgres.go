package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-bikerental/internal/logging"
	"github.com/mrz1836/go-bikerental/internal/predict"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS predictions (
		id            BIGSERIAL PRIMARY KEY,
		created_at    TIMESTAMPTZ NOT NULL,
		request_id    VARCHAR(36) NOT NULL UNIQUE,
		model_version VARCHAR(64) NOT NULL,
		status        VARCHAR(16) NOT NULL,
		record_count  INTEGER NOT NULL,
		error_count   INTEGER NOT NULL,
		inputs        TEXT,
		predictions   TEXT,
		errors        TEXT,
		failure       TEXT,
		duration_ms   BIGINT NOT NULL
	)`

const postgresInsert = `
	INSERT INTO predictions (
		created_at, request_id, model_version, status,
		record_count, error_count, inputs, predictions,
		errors, failure, duration_ms
	) VALUES (
		:created_at, :request_id, :model_version, :status,
		:record_count, :error_count, :inputs, :predictions,
		:errors, :failure, :duration_ms
	)`

// PostgresRecorder stores prediction outcomes in PostgreSQL through sqlx
type PostgresRecorder struct {
	db     *sqlx.DB
	logger *logrus.Entry
}

// OpenPostgres connects to dsn and ensures the predictions table exists
func OpenPostgres(ctx context.Context, dsn string, log logrus.FieldLogger) (*PostgresRecorder, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	r, err := NewPostgresRecorder(ctx, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// NewPostgresRecorder wraps an open connection and creates the table if needed
func NewPostgresRecorder(ctx context.Context, db *sqlx.DB, log logrus.FieldLogger) (*PostgresRecorder, error) {
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create predictions table: %w", err)
	}
	return &PostgresRecorder{
		db:     db,
		logger: logging.WithStandardFields(log, nil, logging.ComponentNames.Store),
	}, nil
}

// Record inserts one outcome
func (r *PostgresRecorder) Record(ctx context.Context, o predict.Outcome) error {
	rec, err := NewPredictionRecord(o)
	if err != nil {
		return err
	}
	if _, err := r.db.NamedExecContext(ctx, postgresInsert, rec); err != nil {
		return fmt.Errorf("failed to insert prediction %s: %w", o.RequestID, err)
	}
	r.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation: logging.OperationTypes.Record,
		logging.StandardFields.RequestID: o.RequestID,
	}).Trace("Recorded prediction")
	return nil
}

// Recent returns up to limit records, newest first
func (r *PostgresRecorder) Recent(ctx context.Context, limit int) ([]PredictionRecord, error) {
	const query = `
		SELECT id, created_at, request_id, model_version, status,
			record_count, error_count, inputs, predictions,
			errors, COALESCE(failure, '') AS failure, duration_ms
		FROM predictions
		ORDER BY id DESC
		LIMIT $1`

	var out []PredictionRecord
	if err := r.db.SelectContext(ctx, &out, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return out, nil
}

// Close closes the connection pool
func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
