// Package config provides configuration parsing and validation for go-bikerental
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Version int          `yaml:"version"`
	App     AppConfig    `yaml:"app"`
	Model   ModelConfig  `yaml:"model"`
	Server  ServerConfig `yaml:"server,omitempty"`
	Store   StoreConfig  `yaml:"store,omitempty"`
}

// AppConfig defines package-level settings such as where artifacts live
type AppConfig struct {
	PackageName      string `yaml:"package_name"`
	PipelineName     string `yaml:"pipeline_name"`
	PipelineSaveFile string `yaml:"pipeline_save_file"` // Artifact base name, version is appended
	TrainingDataFile string `yaml:"training_data_file"`
	DataDir          string `yaml:"data_dir,omitempty"`     // Default: datasets
	ArtifactDir      string `yaml:"artifact_dir,omitempty"` // Default: trained_models
	Version          string `yaml:"version"`                // Semantic version stamped on artifacts
}

// ModelConfig holds everything the feature pipeline and estimator need
type ModelConfig struct {
	Target            string   `yaml:"target"`
	Features          []string `yaml:"features"`
	UnusedFields      []string `yaml:"unused_fields"`
	NumericalFeatures []string `yaml:"numerical_features"`

	DateVar       string `yaml:"date_var"`
	WeekdayVar    string `yaml:"weekday_var"`
	WeathersitVar string `yaml:"weathersit_var"`
	YrVar         string `yaml:"yr_var"`
	MnthVar       string `yaml:"mnth_var"`
	SeasonVar     string `yaml:"season_var"`
	HolidayVar    string `yaml:"holiday_var"`
	WorkingdayVar string `yaml:"workingday_var"`
	HrVar         string `yaml:"hr_var"`

	YrMappings         map[string]int `yaml:"yr_mappings"`
	MnthMappings       map[string]int `yaml:"mnth_mappings"`
	SeasonMappings     map[string]int `yaml:"season_mappings"`
	WeathersitMappings map[string]int `yaml:"weathersit_mappings"`
	HolidayMappings    map[string]int `yaml:"holiday_mappings"`
	WorkingdayMappings map[string]int `yaml:"workingday_mappings"`
	HrMappings         map[string]int `yaml:"hr_mappings"`

	HandleUnknown string  `yaml:"handle_unknown,omitempty"` // Default: ignore
	TestSize      float64 `yaml:"test_size"`
	RandomState   int64   `yaml:"random_state"`

	Estimator EstimatorConfig `yaml:"estimator"`
}

// EstimatorConfig selects and parameterizes the terminal regressor
type EstimatorConfig struct {
	Kind            string  `yaml:"kind"` // random_forest or linear
	NEstimators     int     `yaml:"n_estimators,omitempty"`
	MaxDepth        int     `yaml:"max_depth,omitempty"`
	MinSamplesSplit int     `yaml:"min_samples_split,omitempty"`
	MaxFeatures     float64 `yaml:"max_features,omitempty"` // Fraction of features per split, 0 means all
	NJobs           int     `yaml:"n_jobs,omitempty"`
	Alpha           float64 `yaml:"alpha,omitempty"` // Ridge penalty for the linear estimator
}

// ServerConfig defines the HTTP prediction server
type ServerConfig struct {
	Addr             string        `yaml:"addr,omitempty"`          // Default: :8001
	ReadTimeout      time.Duration `yaml:"read_timeout,omitempty"`  // Default: 10s
	WriteTimeout     time.Duration `yaml:"write_timeout,omitempty"` // Default: 30s
	RateLimit        float64       `yaml:"rate_limit,omitempty"`    // Requests per second, 0 disables
	RateBurst        int           `yaml:"rate_burst,omitempty"`
	MaxBodyBytes     int64         `yaml:"max_body_bytes,omitempty"` // Default: 1 MiB
	StrictValidation bool          `yaml:"strict_validation,omitempty"`
}

// StoreConfig defines where prediction records are persisted
type StoreConfig struct {
	Driver string `yaml:"driver,omitempty"` // "", sqlite or postgres
	DSN    string `yaml:"dsn,omitempty"`
}

// ArtifactFileName returns the artifact file name for the configured version
func (a AppConfig) ArtifactFileName() string {
	return a.PipelineSaveFile + a.Version + ".json"
}
