package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/go-bikerental/internal/logging"
)

const (
	// configLoadMaxRetries is the maximum number of attempts to load the config file
	configLoadMaxRetries = 2
	// configLoadRetryDelay is the delay between retry attempts
	configLoadRetryDelay = 100 * time.Millisecond
)

// Environment variables that override file configuration
const (
	EnvArtifactDir      = "BIKERENTAL_ARTIFACT_DIR"
	EnvDataDir          = "BIKERENTAL_DATA_DIR"
	EnvServerAddr       = "BIKERENTAL_SERVER_ADDR"
	EnvStoreDriver      = "BIKERENTAL_STORE_DRIVER"
	EnvStoreDSN         = "BIKERENTAL_STORE_DSN"
	EnvStrictValidation = "BIKERENTAL_STRICT_VALIDATION"
	EnvModelVersion     = "BIKERENTAL_MODEL_VERSION"
)

// Load reads and parses a configuration file from the given path.
// It includes retry logic for transient I/O errors (e.g., file being
// modified by an editor during read). An empty path loads the embedded defaults.
func Load(path string) (*Config, error) {
	auditLogger := logging.NewAuditLogger(logrus.StandardLogger())

	if path == "" {
		cfg, err := LoadDefault()
		if err == nil {
			auditLogger.LogConfigChange("embedded", "config_loaded")
		}
		return cfg, err
	}

	var lastErr error
	for attempt := 1; attempt <= configLoadMaxRetries; attempt++ {
		cfg, err := loadOnce(path, auditLogger)
		if err == nil {
			if attempt > 1 {
				auditLogger.LogConfigChange(path, "config_loaded_after_retry")
			}
			return cfg, nil
		}

		lastErr = err

		// Don't retry semantic/validation errors - only I/O and parsing errors
		if !isTransientConfigError(err) {
			return nil, err
		}

		if attempt < configLoadMaxRetries {
			time.Sleep(configLoadRetryDelay)
		}
	}

	return nil, lastErr
}

// loadOnce performs a single attempt to load and parse the config file
func loadOnce(path string, auditLogger *logging.AuditLogger) (*Config, error) {
	file, err := os.Open(path) //#nosec G304 -- Path is user-provided config file
	if err != nil {
		auditLogger.LogConfigChange(path, "config_load_failed")
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	defer func() { _ = file.Close() }()

	config, parseErr := LoadFromReader(file)
	if parseErr != nil {
		auditLogger.LogConfigChange(path, "config_parse_failed")
		return nil, parseErr
	}

	auditLogger.LogConfigChange(path, "config_loaded")

	return config, nil
}

// isTransientConfigError determines if an error is likely transient and worth retrying.
// Semantic errors (like an empty mapping table) are not retried as they require config changes.
func isTransientConfigError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrUnsupportedVersion) ||
		errors.Is(err, ErrEmptyMapping) ||
		errors.Is(err, ErrMissingVariable) ||
		errors.Is(err, ErrInvalidSetting) {
		return false
	}

	return true
}

// LoadDefault parses the embedded default configuration
func LoadDefault() (*Config, error) {
	return LoadFromReader(bytes.NewReader(defaultConfigYAML))
}

// LoadFromReader parses configuration from an io.Reader
func LoadFromReader(reader io.Reader) (*Config, error) {
	config := &Config{}

	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true) // Strict parsing - fail on unknown fields

	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(config)

	return config, nil
}

// ApplyEnvOverrides replaces file settings with BIKERENTAL_* environment variables when set
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvArtifactDir); v != "" {
		c.App.ArtifactDir = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.App.DataDir = v
	}
	if v := os.Getenv(EnvModelVersion); v != "" {
		c.App.Version = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvStoreDriver); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv(EnvStoreDSN); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv(EnvStrictValidation); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidSetting, EnvStrictValidation, v)
		}
		c.Server.StrictValidation = strict
	}
	return nil
}
