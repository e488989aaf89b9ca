package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrz1836/go-bikerental/internal/logging"
	"github.com/mrz1836/go-bikerental/internal/predict"
)

// SQLiteConfig holds configuration options for SQLite connection
type SQLiteConfig struct {
	Path     string          // Database file path (:memory: for in-memory)
	LogLevel logger.LogLevel // GORM log level
}

// OpenSQLite opens a SQLite database tuned for a single writer
func OpenSQLite(config SQLiteConfig) (*gorm.DB, error) {
	if config.Path == "" {
		return nil, ErrEmptyDSN
	}

	if config.Path != ":memory:" {
		dir := filepath.Dir(config.Path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	// github.com/glebarez/sqlite is pure Go, no CGO required
	db, err := gorm.Open(sqlite.Open(config.Path), &gorm.Config{
		Logger: logger.Default.LogMode(config.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}

	// SQLite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	return db, nil
}

// GormRecorder stores prediction outcomes through GORM
type GormRecorder struct {
	db     *gorm.DB
	logger *logrus.Entry
}

// NewGormRecorder migrates the predictions table and returns a recorder
func NewGormRecorder(db *gorm.DB, log logrus.FieldLogger) (*GormRecorder, error) {
	if err := db.AutoMigrate(&PredictionRecord{}); err != nil {
		return nil, fmt.Errorf("auto-migration failed: %w", err)
	}
	return &GormRecorder{
		db:     db,
		logger: logging.WithStandardFields(log, nil, logging.ComponentNames.Store),
	}, nil
}

// Record inserts one outcome
func (r *GormRecorder) Record(ctx context.Context, o predict.Outcome) error {
	rec, err := NewPredictionRecord(o)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to insert prediction %s: %w", o.RequestID, err)
	}
	r.logger.WithFields(logrus.Fields{
		logging.StandardFields.Operation: logging.OperationTypes.Record,
		logging.StandardFields.RequestID: o.RequestID,
	}).Trace("Recorded prediction")
	return nil
}

// Recent returns up to limit records, newest first
func (r *GormRecorder) Recent(ctx context.Context, limit int) ([]PredictionRecord, error) {
	var out []PredictionRecord
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return out, nil
}

// CountByStatus returns the number of records per outcome status
func (r *GormRecorder) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&PredictionRecord{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

// Close closes the database connection
func (r *GormRecorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
