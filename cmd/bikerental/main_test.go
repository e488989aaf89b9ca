package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	errTrainFailed = errors.New("train failed")
	errBadEnvFile  = errors.New("bad .env")
)

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) Init(color bool)  { m.Called(color) }
func (m *mockReporter) Warn(msg string)  { m.Called(msg) }
func (m *mockReporter) Error(msg string) { m.Called(msg) }

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type panicExecutor struct{}

func (panicExecutor) Execute(context.Context) error { panic("boom") }

func loadNothing(string) error { return nil }

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		warn string
		fail string
	}{
		{"success", nil, exitOK, "", ""},
		{"command error", errTrainFailed, exitFailure, "", errTrainFailed.Error()},
		{"interrupted", fmt.Errorf("train: %w", context.Canceled), exitInterrupted, "Interrupted", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envNoColor, "")

			rep := &mockReporter{}
			rep.On("Init", true).Return()
			if tt.warn != "" {
				rep.On("Warn", tt.warn).Return()
			}
			if tt.fail != "" {
				rep.On("Error", tt.fail).Return()
			}
			exec := &mockExecutor{}
			exec.On("Execute", mock.Anything).Return(tt.err)

			r := &runner{reporter: rep, executor: exec, loadEnv: loadNothing}
			assert.Equal(t, tt.code, r.run(context.Background()))
			rep.AssertExpectations(t)
			exec.AssertExpectations(t)
		})
	}
}

func TestRunRecoversPanic(t *testing.T) {
	rep := &mockReporter{}
	rep.On("Init", mock.Anything).Return()
	rep.On("Error", mock.MatchedBy(func(msg string) bool {
		return strings.HasPrefix(msg, "bikerental crashed: boom\n")
	})).Return()

	r := &runner{reporter: rep, executor: panicExecutor{}, loadEnv: loadNothing}
	assert.Equal(t, exitCrash, r.run(context.Background()))
	rep.AssertExpectations(t)
}

func TestRunEnvHandling(t *testing.T) {
	t.Run("env dir and no color", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(envDir, dir)
		t.Setenv(envNoColor, "true")

		var loaded string
		rep := &mockReporter{}
		rep.On("Init", false).Return()
		exec := &mockExecutor{}
		exec.On("Execute", mock.Anything).Return(nil)

		r := &runner{reporter: rep, executor: exec, loadEnv: func(d string) error {
			loaded = d
			return nil
		}}
		assert.Equal(t, exitOK, r.run(context.Background()))
		assert.Equal(t, dir, loaded)
		rep.AssertExpectations(t)
	})

	t.Run("bad env file is a warning", func(t *testing.T) {
		t.Setenv(envDir, "")
		t.Setenv(envNoColor, "")

		rep := &mockReporter{}
		rep.On("Init", true).Return()
		rep.On("Warn", "Ignoring environment files in .: "+errBadEnvFile.Error()).Return()
		exec := &mockExecutor{}
		exec.On("Execute", mock.Anything).Return(nil)

		r := &runner{reporter: rep, executor: exec, loadEnv: func(string) error { return errBadEnvFile }}
		assert.Equal(t, exitOK, r.run(context.Background()))
		rep.AssertExpectations(t)
		exec.AssertExpectations(t)
	})

	t.Run("env file sets no color", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envNoColor+"=1\n"), 0o600))
		t.Setenv(envDir, dir)
		t.Setenv(envNoColor, "")
		require.NoError(t, os.Unsetenv(envNoColor))

		rep := &mockReporter{}
		rep.On("Init", false).Return()
		exec := &mockExecutor{}
		exec.On("Execute", mock.Anything).Return(nil)

		r := newRunner()
		r.reporter = rep
		r.executor = exec
		assert.Equal(t, exitOK, r.run(context.Background()))
		rep.AssertExpectations(t)
	})
}

func TestNewRunner(t *testing.T) {
	r := newRunner()
	assert.IsType(t, consoleReporter{}, r.reporter)
	assert.IsType(t, commandExecutor{}, r.executor)
	assert.NotNil(t, r.loadEnv)
}
