// Package metrics provides operation timing for logs and Prometheus
// collectors for the prediction service.
//
// Usage examples:
//
//	timer := metrics.StartTimer(ctx, logger, "fit").
//	  AddField("rows", ds.Len())
//	defer timer.Stop()
package metrics

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrz1836/go-bikerental/internal/logging"
)

// SlowOperationThreshold is the duration above which a timed operation
// logs at warning level
const SlowOperationThreshold = 30 * time.Second

// Timer tracks the duration of an operation with attached log fields.
type Timer struct {
	start     time.Time
	operation string
	logger    *logrus.Entry
	fields    logrus.Fields
	ctx       context.Context //nolint:containedctx // Context needed for cancellation checks during timer lifecycle
}

// StartTimer creates a timer for operation that starts immediately.
func StartTimer(ctx context.Context, logger *logrus.Entry, operation string) *Timer {
	return &Timer{
		start:     time.Now(),
		operation: operation,
		logger:    logger.WithField(logging.StandardFields.Operation, operation),
		fields:    make(logrus.Fields),
		ctx:       ctx,
	}
}

// AddField adds a field to be logged when the timer stops.
func (t *Timer) AddField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Stop logs the duration at debug level, or warning level for slow
// operations, and returns it.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	t.addDuration(duration)

	if duration > SlowOperationThreshold {
		t.logger.WithFields(t.fields).Warn("Operation took longer than expected")
	} else {
		t.logger.WithFields(t.fields).Debug("Operation completed")
	}
	return duration
}

// StopWithError is Stop with the outcome of the operation. A non-nil err
// logs at error level.
func (t *Timer) StopWithError(err error) time.Duration {
	duration := time.Since(t.start)
	t.addDuration(duration)

	if err != nil {
		t.fields[logging.StandardFields.Error] = err.Error()
		t.fields[logging.StandardFields.Status] = "failed"
		t.logger.WithFields(t.fields).Error("Operation failed")
		return duration
	}

	t.fields[logging.StandardFields.Status] = "completed"
	if duration > SlowOperationThreshold {
		t.logger.WithFields(t.fields).Warn("Operation completed but took longer than expected")
	} else {
		t.logger.WithFields(t.fields).Debug("Operation completed successfully")
	}
	return duration
}

// CheckCancellation reports whether the timer's context is done.
func (t *Timer) CheckCancellation() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// GetElapsed returns the elapsed time without stopping the timer.
func (t *Timer) GetElapsed() time.Duration {
	return time.Since(t.start)
}

func (t *Timer) addDuration(d time.Duration) {
	t.fields[logging.StandardFields.DurationMs] = d.Milliseconds()
	t.fields["duration_human"] = d.String()
}
