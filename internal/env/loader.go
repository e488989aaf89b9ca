// Package env provides utilities for loading environment variables from .env files.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// BaseFile holds shared defaults and is committed alongside the config.
	BaseFile = ".env"
	// LocalFile holds machine-specific overrides and is never committed.
	LocalFile = ".env.local"
)

// LoadEnvFiles loads .env and .env.local from the working directory.
//
// Loading Strategy:
// 1. Load .env (optional) - shared defaults such as BIKERENTAL_ARTIFACT_DIR
// 2. Load .env.local (optional) - local overrides such as database DSNs
//
// Values in .env.local take precedence over .env; neither file overrides
// variables already exported in the process environment.
func LoadEnvFiles() error {
	return LoadEnvFilesFromDir(".")
}

// LoadEnvFilesFromDir loads environment files from a specific directory.
// This is useful for testing or when running from a different working directory.
func LoadEnvFilesFromDir(dir string) error {
	// Local overrides load first because godotenv.Load never replaces a set variable
	for _, name := range []string{LocalFile, BaseFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return nil
}

// GetEnvWithFallback gets an environment variable with a fallback value.
// This is useful for configuration values that should have sensible defaults.
func GetEnvWithFallback(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvBool reads a boolean environment variable; unset or unparsable values
// return fallback.
func GetEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
