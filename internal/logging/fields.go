package logging

// StandardFields defines the standardized field names for structured logging
// across all components to ensure consistency and enable better log analysis.
//
//nolint:gochecknoglobals // Intentional global constants for standardized field names
var StandardFields = struct {
	// Pipeline Identifiers
	Step          string
	StageKind     string
	Column        string
	PipelineName  string
	ModelVersion  string
	ArtifactPath  string
	EstimatorKind string

	// Timing and Performance
	DurationMs string
	Timestamp  string

	// Operation Context
	Component     string
	Operation     string
	CorrelationID string
	RequestID     string

	// Shape Metrics
	RowCount    string
	ColumnCount string
	RecordCount string
	ErrorCount  string

	// Error Information
	Error     string
	ErrorType string

	// Status
	Status string
}{
	Step:          "step",
	StageKind:     "stage_kind",
	Column:        "column",
	PipelineName:  "pipeline_name",
	ModelVersion:  "model_version",
	ArtifactPath:  "artifact_path",
	EstimatorKind: "estimator",

	DurationMs: "duration_ms",
	Timestamp:  "@timestamp",

	Component:     "component",
	Operation:     "operation",
	CorrelationID: "correlation_id",
	RequestID:     "request_id",

	RowCount:    "rows",
	ColumnCount: "columns",
	RecordCount: "records",
	ErrorCount:  "error_count",

	Error:     "error",
	ErrorType: "error_type",

	Status: "status",
}

// ComponentNames defines standardized component names for logging consistency
//
//nolint:gochecknoglobals // Intentional global constants for standardized component names
var ComponentNames = struct {
	Pipeline   string
	Validation string
	Estimator  string
	Predict    string
	Config     string
	Server     string
	Store      string
	CLI        string
}{
	Pipeline:   "pipeline",
	Validation: "validation",
	Estimator:  "estimator",
	Predict:    "predict",
	Config:     "config",
	Server:     "server",
	Store:      "store",
	CLI:        "cli",
}

// OperationTypes defines standardized operation type names
//
//nolint:gochecknoglobals // Intentional global constants for standardized operation types
var OperationTypes = struct {
	Train          string
	Fit            string
	Transform      string
	Predict        string
	Validate       string
	ConfigValidate string
	ArtifactSave   string
	ArtifactLoad   string
	Record         string
	Serve          string
}{
	Train:          "train",
	Fit:            "fit",
	Transform:      "transform",
	Predict:        "predict",
	Validate:       "validate",
	ConfigValidate: "config_validate",
	ArtifactSave:   "artifact_save",
	ArtifactLoad:   "artifact_load",
	Record:         "record",
	Serve:          "serve",
}
