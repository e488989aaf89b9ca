package config

import (
	_ "embed"
	"time"
)

// Defaults applied by applyDefaults when a field is left empty
const (
	DefaultDataDir       = "datasets"
	DefaultArtifactDir   = "trained_models"
	DefaultServerAddr    = ":8001"
	DefaultReadTimeout   = 10 * time.Second
	DefaultWriteTimeout  = 30 * time.Second
	DefaultMaxBodyBytes  = 1 << 20
	DefaultHandleUnknown = "ignore"
	DefaultEstimatorKind = "random_forest"
	DefaultNEstimators   = 100
	DefaultMaxDepth      = 10
	DefaultMinSplit      = 2
)

//go:embed config.yaml
var defaultConfigYAML []byte

// DefaultYAML returns the embedded default configuration document
func DefaultYAML() []byte {
	out := make([]byte, len(defaultConfigYAML))
	copy(out, defaultConfigYAML)
	return out
}

// applyDefaults sets default values for optional fields
func applyDefaults(config *Config) {
	if config.App.DataDir == "" {
		config.App.DataDir = DefaultDataDir
	}
	if config.App.ArtifactDir == "" {
		config.App.ArtifactDir = DefaultArtifactDir
	}

	if config.Model.HandleUnknown == "" {
		config.Model.HandleUnknown = DefaultHandleUnknown
	}

	est := &config.Model.Estimator
	if est.Kind == "" {
		est.Kind = DefaultEstimatorKind
	}
	if est.Kind == DefaultEstimatorKind {
		if est.NEstimators == 0 {
			est.NEstimators = DefaultNEstimators
		}
		if est.MaxDepth == 0 {
			est.MaxDepth = DefaultMaxDepth
		}
		if est.MinSamplesSplit == 0 {
			est.MinSamplesSplit = DefaultMinSplit
		}
	}

	if config.Server.Addr == "" {
		config.Server.Addr = DefaultServerAddr
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = DefaultWriteTimeout
	}
	if config.Server.MaxBodyBytes == 0 {
		config.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.Server.RateLimit > 0 && config.Server.RateBurst == 0 {
		config.Server.RateBurst = int(config.Server.RateLimit)
		if config.Server.RateBurst < 1 {
			config.Server.RateBurst = 1
		}
	}
}
