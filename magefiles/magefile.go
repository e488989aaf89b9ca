//go:build mage

// Magefile for go-bikerental specific tasks
package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/magefile/mage/sh"
)

const (
	binaryPath  = "bin/bikerental"
	mainPackage = "./cmd/bikerental"
	cliPackage  = "github.com/mrz1836/go-bikerental/internal/cli"

	// postgresDSNEnv enables the PostgreSQL store tests when set
	postgresDSNEnv = "BIKERENTAL_TEST_POSTGRES_DSN"
)

// Commander interface allows for dependency injection in tests
type Commander interface {
	RunV(cmd string, args ...string) error
	Output(cmd string, args ...string) (string, error)
}

// ShCommander wraps the sh package for production use
type ShCommander struct{}

// RunV implements Commander interface
func (s ShCommander) RunV(cmd string, args ...string) error {
	return sh.RunV(cmd, args...)
}

// Output implements Commander interface
func (s ShCommander) Output(cmd string, args ...string) (string, error) {
	return sh.Output(cmd, args...)
}

// CommanderManager manages the current commander instance
type CommanderManager struct {
	mu        sync.RWMutex
	commander Commander
}

// defaultManager is the package-level manager
var defaultManager = &CommanderManager{} //nolint:gochecknoglobals // Required for mage pattern

// setCommander allows setting the commander for testing
func setCommander(c Commander) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.commander = c
}

// getCommander returns the current commander
func getCommander() Commander {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	if defaultManager.commander == nil {
		defaultManager.commander = ShCommander{}
	}
	return defaultManager.commander
}

// ldflags stamps the CLI version information from git
func ldflags(c Commander) string {
	version, err := c.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	commit, err := c.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || commit == "" {
		commit = "unknown"
	}
	date, err := c.Output("date", "-u", "+%Y-%m-%d_%H:%M:%S_UTC")
	if err != nil || date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("-s -w -X %[1]s.version=%[2]s -X %[1]s.commit=%[3]s -X %[1]s.buildDate=%[4]s",
		cliPackage, version, commit, date)
}

// Build compiles the CLI into bin/bikerental with version information
func Build() error {
	c := getCommander()
	return c.RunV("go", "build", "-ldflags", ldflags(c), "-o", binaryPath, mainPackage)
}

// Train fits the pipeline with the default configuration and saves an artifact
func Train() error {
	return getCommander().RunV("go", "run", mainPackage, "train")
}

// Serve runs the prediction server with the default configuration
func Serve() error {
	return getCommander().RunV("go", "run", mainPackage, "serve")
}

// TestQuick runs fast unit tests
func TestQuick() error {
	return getCommander().RunV("go", "test", "-short", "./...")
}

// TestRace runs all tests with the race detector
func TestRace() error {
	return getCommander().RunV("go", "test", "-race", "-timeout=10m", "./...")
}

// TestPostgres runs the store tests against the database named by
// BIKERENTAL_TEST_POSTGRES_DSN
func TestPostgres() error {
	if os.Getenv(postgresDSNEnv) == "" {
		return fmt.Errorf("%s is not set", postgresDSNEnv) //nolint:err113 // mage task message
	}
	return getCommander().RunV("go", "test", "-run", "Postgres", "-v", "./internal/store/...")
}

// TestAll runs the quick tests and then the race tests
func TestAll() error {
	if err := TestQuick(); err != nil {
		return fmt.Errorf("quick tests failed: %w", err)
	}
	return TestRace()
}

// Bench runs the estimator and pipeline benchmarks
func Bench() error {
	return getCommander().RunV("go", "test", "-run=^$", "-bench=.", "-benchmem",
		"-benchtime=100ms", "./internal/estimator/...", "./internal/pipeline/...")
}
