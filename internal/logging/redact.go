package logging

import (
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// RedactedPlaceholder replaces any secret removed from log output.
const RedactedPlaceholder = "***REDACTED***"

// RedactionService removes credentials from log output.
//
// The service targets the secrets this application actually handles:
// database DSNs for the prediction recorders, and key=value style
// passwords that may show up in connection strings or environment dumps.
type RedactionService struct {
	urlPassword     *regexp.Regexp
	keyValue        *regexp.Regexp
	envSecret       *regexp.Regexp
	sensitiveFields []string
}

// NewRedactionService creates a new redaction service with the default patterns.
func NewRedactionService() *RedactionService {
	return &RedactionService{
		urlPassword: regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`),
		keyValue:    regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|token)=([^\s&]+)`),
		envSecret:   regexp.MustCompile(`\b([A-Z_]*(?:TOKEN|SECRET|PASSWORD|DSN)[A-Z_]*=)([^\s]+)`),
		sensitiveFields: []string{
			"password",
			"passwd",
			"secret",
			"token",
			"dsn",
			"database_url",
			"connection_string",
		},
	}
}

// RedactSensitive removes credentials from free text.
//
// URL passwords keep the username, key=value pairs keep the key and
// environment assignments keep the variable name.
func (r *RedactionService) RedactSensitive(text string) string {
	text = r.envSecret.ReplaceAllString(text, "${1}"+RedactedPlaceholder)
	text = r.urlPassword.ReplaceAllString(text, "://$1:"+RedactedPlaceholder+"@")
	text = r.keyValue.ReplaceAllString(text, "$1="+RedactedPlaceholder)
	return text
}

// IsSensitiveField checks if a field name indicates sensitive data.
func (r *RedactionService) IsSensitiveField(fieldName string) bool {
	fieldLower := strings.ToLower(fieldName)
	for _, sensitive := range r.sensitiveFields {
		if strings.Contains(fieldLower, sensitive) {
			return true
		}
	}
	return false
}

// CreateHook creates a logrus hook for automatic redaction.
func (r *RedactionService) CreateHook() logrus.Hook {
	return &RedactionHook{service: r}
}

// RedactionHook automatically redacts sensitive data in log entries.
type RedactionHook struct {
	service *RedactionService
}

// Levels returns the log levels this hook should process.
func (h *RedactionHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire redacts the message and every field of the entry.
func (h *RedactionHook) Fire(entry *logrus.Entry) error {
	entry.Message = h.service.RedactSensitive(entry.Message)

	// logrus shares Data across entries derived with WithFields, so copy first
	data := make(logrus.Fields, len(entry.Data))
	for key, value := range entry.Data {
		data[key] = h.redactValue(key, value)
	}
	entry.Data = data

	return nil
}

func (h *RedactionHook) redactValue(key string, value interface{}) interface{} {
	if h.service.IsSensitiveField(key) {
		if str, ok := value.(string); ok {
			redacted := h.service.RedactSensitive(str)
			if redacted == str {
				return RedactedPlaceholder
			}
			return redacted
		}
		return RedactedPlaceholder
	}

	switch v := value.(type) {
	case string:
		return h.service.RedactSensitive(v)
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for nestedKey, nestedValue := range v {
			result[nestedKey] = h.redactValue(nestedKey, nestedValue)
		}
		return result
	default:
		return value
	}
}

// AuditLogger records operator-visible lifecycle events: configuration
// loads and model artifact activity.
type AuditLogger struct {
	logger *logrus.Entry
}

// NewAuditLogger creates an audit logger writing through the given logger.
// A nil logger uses the logrus standard logger.
func NewAuditLogger(logger logrus.FieldLogger) *AuditLogger {
	return &AuditLogger{
		logger: entryFrom(logger).WithField(StandardFields.Component, "audit"),
	}
}

// LogConfigChange logs a configuration load or change.
func (a *AuditLogger) LogConfigChange(source, action string) {
	a.logger.WithFields(logrus.Fields{
		"event":  "config_change",
		"source": source,
		"action": action,
		"time":   time.Now().Unix(),
	}).Info("Configuration changed")
}

// LogArtifact logs a model artifact save or load.
func (a *AuditLogger) LogArtifact(path, version, action string) {
	a.logger.WithFields(logrus.Fields{
		"event":                     "artifact",
		StandardFields.ArtifactPath: path,
		StandardFields.ModelVersion: version,
		"action":                    action,
		"time":                      time.Now().Unix(),
	}).Info("Model artifact " + action)
}
