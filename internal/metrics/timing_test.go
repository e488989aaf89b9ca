package metrics

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	appErrors "github.com/mrz1836/go-bikerental/internal/errors"
	"github.com/mrz1836/go-bikerental/internal/logging"
)

func captureLogger() (*logrus.Entry, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return logrus.NewEntry(logger), buf
}

func TestStartTimer(t *testing.T) {
	entry, _ := captureLogger()
	timer := StartTimer(context.Background(), entry, "fit")

	assert.Equal(t, "fit", timer.operation)
	assert.Equal(t, "fit", timer.logger.Data[logging.StandardFields.Operation])
	assert.False(t, timer.start.IsZero())
	assert.False(t, timer.CheckCancellation())
	assert.GreaterOrEqual(t, timer.GetElapsed(), time.Duration(0))
}

func TestTimerCancellation(t *testing.T) {
	entry, _ := captureLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, StartTimer(ctx, entry, "fit").CheckCancellation())
}

func TestTimerStop(t *testing.T) {
	entry, buf := captureLogger()
	d := StartTimer(context.Background(), entry, "load_csv").AddField("rows", 10).Stop()

	assert.GreaterOrEqual(t, d, time.Duration(0))
	out := buf.String()
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, "rows=10")
	assert.Contains(t, out, "duration_ms=")
}

func TestTimerStopWithError(t *testing.T) {
	entry, buf := captureLogger()
	StartTimer(context.Background(), entry, "save").StopWithError(appErrors.ErrTest)
	assert.Contains(t, buf.String(), "Operation failed")
	assert.Contains(t, buf.String(), "status=failed")

	buf.Reset()
	StartTimer(context.Background(), entry, "save").StopWithError(nil)
	assert.Contains(t, buf.String(), "Operation completed successfully")
	assert.Contains(t, buf.String(), "status=completed")
}
