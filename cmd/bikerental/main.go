// Command bikerental trains, serves and queries the bike rental demand model.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mrz1836/go-bikerental/internal/cli"
	"github.com/mrz1836/go-bikerental/internal/env"
	"github.com/mrz1836/go-bikerental/internal/output"
)

// Environment read before the command tree starts
const (
	envDir     = "BIKERENTAL_ENV_DIR"  // directory holding .env and .env.local
	envNoColor = "BIKERENTAL_NO_COLOR" // same as --no-color for every command
)

// Process exit codes
const (
	exitOK          = 0
	exitFailure     = 1
	exitCrash       = 2
	exitInterrupted = 130
)

func main() {
	os.Exit(newRunner().run(context.Background()))
}

// Reporter prints messages that happen outside any command
type Reporter interface {
	Init(color bool)
	Warn(msg string)
	Error(msg string)
}

// Executor runs the command tree
type Executor interface {
	Execute(ctx context.Context) error
}

// EnvLoader loads .env files from a directory
type EnvLoader func(dir string) error

type consoleReporter struct{}

func (consoleReporter) Init(color bool) {
	if color {
		output.Init()
		return
	}
	output.DisableColor()
}

func (consoleReporter) Warn(msg string)  { output.Warn(msg) }
func (consoleReporter) Error(msg string) { output.Error(msg) }

type commandExecutor struct{}

func (commandExecutor) Execute(ctx context.Context) error {
	return cli.ExecuteWithContext(ctx)
}

// runner loads the environment, runs the CLI and maps the outcome to an exit code
type runner struct {
	reporter Reporter
	executor Executor
	loadEnv  EnvLoader
}

func newRunner() *runner {
	return &runner{
		reporter: consoleReporter{},
		executor: commandExecutor{},
		loadEnv:  env.LoadEnvFilesFromDir,
	}
}

func (r *runner) run(ctx context.Context) (code int) {
	defer func() {
		if p := recover(); p != nil {
			r.reporter.Error(fmt.Sprintf("bikerental crashed: %v\n%s", p, debug.Stack()))
			code = exitCrash
		}
	}()

	// .env may itself set BIKERENTAL_NO_COLOR, so load it before touching output
	dir := env.GetEnvWithFallback(envDir, ".")
	envErr := r.loadEnv(dir)
	r.reporter.Init(!env.GetEnvBool(envNoColor, false))
	if envErr != nil {
		r.reporter.Warn(fmt.Sprintf("Ignoring environment files in %s: %v", dir, envErr))
	}

	return r.exitCode(r.executor.Execute(ctx))
}

func (r *runner) exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		r.reporter.Warn("Interrupted")
		return exitInterrupted
	default:
		r.reporter.Error(err.Error())
		return exitFailure
	}
}
