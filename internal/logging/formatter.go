package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-bikerental/internal/jsonutil"
)

// StructuredFormatter provides JSON output formatting for structured logging.
//
// This formatter ensures consistent JSON output with standardized field names
// and proper correlation ID inclusion for log aggregation systems.
type StructuredFormatter struct {
	// DisableTimestamp disables automatic timestamp generation
	DisableTimestamp bool
	// TimestampFormat sets the format for the timestamp field
	TimestampFormat string
}

// NewStructuredFormatter creates a new StructuredFormatter with default settings.
func NewStructuredFormatter() *StructuredFormatter {
	return &StructuredFormatter{
		TimestampFormat: time.RFC3339,
	}
}

// Format formats a logrus.Entry as JSON with standardized fields.
func (f *StructuredFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := make(logrus.Fields, len(entry.Data)+3)

	for k, v := range entry.Data {
		// errors do not marshal to anything useful
		if err, ok := v.(error); ok {
			data[k] = err.Error()
			continue
		}
		data[k] = v
	}

	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if !f.DisableTimestamp {
		timestampFormat := f.TimestampFormat
		if timestampFormat == "" {
			timestampFormat = time.RFC3339
		}
		data[StandardFields.Timestamp] = entry.Time.Format(timestampFormat)
	}

	jsonBytes, err := jsonutil.MarshalJSON(data)
	if err != nil {
		return nil, err // Error already wrapped by jsonutil
	}

	return append(jsonBytes, '\n'), nil
}

// ConfigureLogger configures a logrus.Logger instance based on LogConfig settings.
//
// This function sets up the appropriate formatter (JSON or text), log level,
// and the redaction hook based on the provided LogConfig.
func ConfigureLogger(logger *logrus.Logger, config *LogConfig) error {
	if config == nil {
		return nil
	}

	// Set log level - verbose flags override explicit log level
	var level logrus.Level
	var err error

	switch {
	case config.Verbose == 1:
		level = logrus.DebugLevel
	case config.Verbose >= 2:
		level = logrus.TraceLevel
	case config.LogLevel != "":
		level, err = logrus.ParseLevel(config.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
		}
	default:
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)
	logger.AddHook(NewRedactionService().CreateHook())

	if config.JSONOutput || config.LogFormat == "json" {
		logger.SetFormatter(NewStructuredFormatter())
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  "15:04:05",
			PadLevelText:     true,
			QuoteEmptyFields: true,
		})
	}

	return nil
}

// WithStandardFields creates a logrus.Entry with correlation ID and component info.
//
// This helper function automatically includes the correlation ID from LogConfig
// and sets up standard fields for consistent logging across components.
func WithStandardFields(logger logrus.FieldLogger, config *LogConfig, component string) *logrus.Entry {
	fields := logrus.Fields{
		StandardFields.Component: component,
	}

	if config != nil && config.CorrelationID != "" {
		fields[StandardFields.CorrelationID] = config.CorrelationID
	}

	return entryFrom(logger).WithFields(fields)
}

// entryFrom normalizes a FieldLogger into an Entry; nil falls back to the standard logger.
func entryFrom(logger logrus.FieldLogger) *logrus.Entry {
	switch l := logger.(type) {
	case *logrus.Entry:
		return l
	case *logrus.Logger:
		return logrus.NewEntry(l)
	case nil:
		return logrus.NewEntry(logrus.StandardLogger())
	default:
		return l.WithFields(logrus.Fields{})
	}
}

// Discard returns a logger that drops everything, for tests and library defaults.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
