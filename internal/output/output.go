// Package output provides colored console output for the CLI.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/mrz1836/go-bikerental/internal/jsonutil"
)

//nolint:gochecknoglobals // Output package requires package-level state for consistent formatting
var (
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.Bold)

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	mu sync.Mutex
)

// Init enables color output
func Init() {
	color.NoColor = false
}

// DisableColor turns color off, e.g. for --no-color or non-terminal output
func DisableColor() {
	color.NoColor = true
}

// SetStdout sets the standard output writer (useful for testing)
func SetStdout(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	stdout = w
}

// SetStderr sets the standard error writer (useful for testing)
func SetStderr(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	stderr = w
}

// Stdout returns the current stdout writer
func Stdout() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return stdout
}

// Stderr returns the current stderr writer
func Stderr() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return stderr
}

// Success prints a success message in green
func Success(msg string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = successColor.Fprintln(stdout, msg)
}

// Successf prints a formatted success message
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Info prints an info message in cyan
func Info(msg string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = infoColor.Fprintln(stdout, msg)
}

// Infof prints a formatted info message
func Infof(format string, args ...interface{}) {
	Info(fmt.Sprintf(format, args...))
}

// Warn prints a warning message in yellow
func Warn(msg string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = warnColor.Fprintln(stderr, msg)
}

// Warnf prints a formatted warning message
func Warnf(format string, args ...interface{}) {
	Warn(fmt.Sprintf(format, args...))
}

// Error prints an error message in red
func Error(msg string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = errorColor.Fprintln(stderr, msg)
}

// Errorf prints a formatted error message
func Errorf(format string, args ...interface{}) {
	Error(fmt.Sprintf(format, args...))
}

// Plain prints a message without color
func Plain(msg string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = fmt.Fprintln(stdout, msg)
}

// Plainf prints a formatted message without color
func Plainf(format string, args ...interface{}) {
	Plain(fmt.Sprintf(format, args...))
}

// Table prints rows aligned in columns under a bold header
func Table(headers []string, rows [][]string) {
	mu.Lock()
	defer mu.Unlock()

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = headerColor.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// JSON pretty-prints v
func JSON(v interface{}) error {
	out, err := jsonutil.PrettyPrint(v)
	if err != nil {
		return err
	}
	Plain(out)
	return nil
}

// CaptureScope holds buffers that replace stdout and stderr until Restore
type CaptureScope struct {
	Stdout *bytes.Buffer
	Stderr *bytes.Buffer

	prevStdout io.Writer
	prevStderr io.Writer
}

// CaptureOutput redirects stdout and stderr into buffers (useful for testing)
func CaptureOutput() *CaptureScope {
	scope := &CaptureScope{
		Stdout:     &bytes.Buffer{},
		Stderr:     &bytes.Buffer{},
		prevStdout: Stdout(),
		prevStderr: Stderr(),
	}
	SetStdout(scope.Stdout)
	SetStderr(scope.Stderr)
	return scope
}

// Restore reinstates the writers that were active before CaptureOutput
func (c *CaptureScope) Restore() {
	SetStdout(c.prevStdout)
	SetStderr(c.prevStderr)
}
