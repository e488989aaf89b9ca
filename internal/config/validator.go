package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-bikerental/internal/logging"
)

var (
	// ErrUnsupportedVersion indicates the configuration version is not supported
	ErrUnsupportedVersion = errors.New("unsupported config version")
	// ErrEmptyMapping indicates an ordinal mapping table has no entries
	ErrEmptyMapping = errors.New("mapping table cannot be empty")
	// ErrMissingVariable indicates a required column name or list is empty
	ErrMissingVariable = errors.New("required variable not set")
	// ErrInvalidSetting indicates a setting is out of its allowed range
	ErrInvalidSetting = errors.New("invalid setting")
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return c.ValidateWithLogging(context.Background(), nil)
}

// ValidateWithLogging checks if the configuration is valid with debug logging support.
//
// Side Effects:
// - Logs validation progress when the --debug-config flag is enabled
func (c *Config) ValidateWithLogging(ctx context.Context, logConfig *logging.LogConfig) error {
	logger := logging.WithStandardFields(logrus.StandardLogger(), logConfig, logging.ComponentNames.Config)
	debug := logConfig != nil && logConfig.Debug.Config
	start := time.Now()

	if debug {
		logger.WithFields(logrus.Fields{
			logging.StandardFields.Operation: logging.OperationTypes.ConfigValidate,
			"version":                        c.Version,
			"feature_count":                  len(c.Model.Features),
		}).Debug("Starting configuration validation")
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("validation canceled: %w", ctx.Err())
	default:
	}

	if c.Version != 1 {
		return fmt.Errorf("%w: %d (only version 1 is supported)", ErrUnsupportedVersion, c.Version)
	}

	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Model.validate(); err != nil {
		return err
	}
	if err := c.Server.validate(); err != nil {
		return err
	}
	if err := c.Store.validate(); err != nil {
		return err
	}

	if debug {
		logger.WithField(logging.StandardFields.DurationMs, time.Since(start).Milliseconds()).
			Debug("Configuration validation completed")
	}

	return nil
}

func (a AppConfig) validate() error {
	if strings.TrimSpace(a.PipelineSaveFile) == "" {
		return fmt.Errorf("app.pipeline_save_file: %w", ErrMissingVariable)
	}
	if _, err := semver.StrictNewVersion(a.Version); err != nil {
		return fmt.Errorf("%w: app.version %q is not a semantic version: %w", ErrInvalidSetting, a.Version, err)
	}
	return nil
}

func (m ModelConfig) validate() error {
	vars := []struct {
		key   string
		value string
	}{
		{"model.target", m.Target},
		{"model.date_var", m.DateVar},
		{"model.weekday_var", m.WeekdayVar},
		{"model.weathersit_var", m.WeathersitVar},
		{"model.yr_var", m.YrVar},
		{"model.mnth_var", m.MnthVar},
		{"model.season_var", m.SeasonVar},
		{"model.holiday_var", m.HolidayVar},
		{"model.workingday_var", m.WorkingdayVar},
		{"model.hr_var", m.HrVar},
	}
	for _, v := range vars {
		if strings.TrimSpace(v.value) == "" {
			return fmt.Errorf("%s: %w", v.key, ErrMissingVariable)
		}
	}

	if len(m.Features) == 0 {
		return fmt.Errorf("model.features: %w", ErrMissingVariable)
	}
	if len(m.NumericalFeatures) == 0 {
		return fmt.Errorf("model.numerical_features: %w", ErrMissingVariable)
	}

	mappings := []struct {
		key   string
		table map[string]int
	}{
		{"model.yr_mappings", m.YrMappings},
		{"model.mnth_mappings", m.MnthMappings},
		{"model.season_mappings", m.SeasonMappings},
		{"model.weathersit_mappings", m.WeathersitMappings},
		{"model.holiday_mappings", m.HolidayMappings},
		{"model.workingday_mappings", m.WorkingdayMappings},
		{"model.hr_mappings", m.HrMappings},
	}
	for _, mp := range mappings {
		if len(mp.table) == 0 {
			return fmt.Errorf("%s: %w", mp.key, ErrEmptyMapping)
		}
	}

	switch m.HandleUnknown {
	case "ignore", "error":
	default:
		return fmt.Errorf("%w: model.handle_unknown must be ignore or error, got %q", ErrInvalidSetting, m.HandleUnknown)
	}

	if m.TestSize <= 0 || m.TestSize >= 1 {
		return fmt.Errorf("%w: model.test_size must be in (0, 1), got %v", ErrInvalidSetting, m.TestSize)
	}

	return m.Estimator.validate()
}

func (e EstimatorConfig) validate() error {
	switch e.Kind {
	case "random_forest":
		if e.NEstimators < 1 {
			return fmt.Errorf("%w: model.estimator.n_estimators must be positive", ErrInvalidSetting)
		}
		if e.MaxDepth < 1 {
			return fmt.Errorf("%w: model.estimator.max_depth must be positive", ErrInvalidSetting)
		}
		if e.MinSamplesSplit < 2 {
			return fmt.Errorf("%w: model.estimator.min_samples_split must be at least 2", ErrInvalidSetting)
		}
		if e.MaxFeatures < 0 || e.MaxFeatures > 1 {
			return fmt.Errorf("%w: model.estimator.max_features must be in [0, 1]", ErrInvalidSetting)
		}
	case "linear":
		if e.Alpha < 0 {
			return fmt.Errorf("%w: model.estimator.alpha cannot be negative", ErrInvalidSetting)
		}
	default:
		return fmt.Errorf("%w: model.estimator.kind %q (want random_forest or linear)", ErrInvalidSetting, e.Kind)
	}
	if e.NJobs < 0 {
		return fmt.Errorf("%w: model.estimator.n_jobs cannot be negative", ErrInvalidSetting)
	}
	return nil
}

func (s ServerConfig) validate() error {
	if s.RateLimit < 0 {
		return fmt.Errorf("%w: server.rate_limit cannot be negative", ErrInvalidSetting)
	}
	if s.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.max_body_bytes cannot be negative", ErrInvalidSetting)
	}
	return nil
}

func (s StoreConfig) validate() error {
	switch s.Driver {
	case "":
		return nil
	case "sqlite", "postgres":
		if s.DSN == "" {
			return fmt.Errorf("store.dsn: %w", ErrMissingVariable)
		}
		return nil
	default:
		return fmt.Errorf("%w: store.driver %q (want sqlite or postgres)", ErrInvalidSetting, s.Driver)
	}
}
