// Package store persists prediction outcomes. SQLite is served through GORM,
// PostgreSQL through sqlx.
package store

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"

	"github.com/mrz1836/go-bikerental/internal/config"
	"github.com/mrz1836/go-bikerental/internal/predict"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Recorder is a prediction recorder that owns a connection
type Recorder interface {
	predict.Recorder
	Recent(ctx context.Context, limit int) ([]PredictionRecord, error)
	Close() error
}

// Open returns the recorder for cfg, or nil when no driver is configured
func Open(ctx context.Context, cfg config.StoreConfig, log logrus.FieldLogger) (Recorder, error) {
	switch cfg.Driver {
	case "":
		return nil, nil //nolint:nilnil // recording is optional
	case DriverSQLite:
		db, err := OpenSQLite(SQLiteConfig{Path: cfg.DSN, LogLevel: logger.Silent})
		if err != nil {
			return nil, err
		}
		r, err := NewGormRecorder(db, log)
		if err != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, err
		}
		return r, nil
	case DriverPostgres:
		r, err := OpenPostgres(ctx, cfg.DSN, log)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}
