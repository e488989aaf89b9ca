package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(_ *testing.T) {
	Init()
	DisableColor()
}

func TestSetAndGetWriters(t *testing.T) {
	origOut, origErr := Stdout(), Stderr()
	defer func() {
		SetStdout(origOut)
		SetStderr(origErr)
	}()

	out, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	SetStdout(out)
	SetStderr(errBuf)
	assert.Equal(t, out, Stdout())
	assert.Equal(t, errBuf, Stderr())
}

func TestOutputToCorrectStreams(t *testing.T) {
	DisableColor()
	tests := []struct {
		name     string
		fn       func()
		want     string
		toStderr bool
	}{
		{"success", func() { Success("saved") }, "saved", false},
		{"successf", func() { Successf("saved %d", 2) }, "saved 2", false},
		{"info", func() { Info("loading") }, "loading", false},
		{"infof", func() { Infof("rows=%d", 10) }, "rows=10", false},
		{"plain", func() { Plain("raw") }, "raw", false},
		{"plainf", func() { Plainf("%s!", "raw") }, "raw!", false},
		{"warn", func() { Warn("careful") }, "careful", true},
		{"warnf", func() { Warnf("careful %s", "now") }, "careful now", true},
		{"error", func() { Error("broken") }, "broken", true},
		{"errorf", func() { Errorf("broken: %v", "x") }, "broken: x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope := CaptureOutput()
			defer scope.Restore()

			tt.fn()
			if tt.toStderr {
				assert.Equal(t, tt.want+"\n", scope.Stderr.String())
				assert.Empty(t, scope.Stdout.String())
			} else {
				assert.Equal(t, tt.want+"\n", scope.Stdout.String())
				assert.Empty(t, scope.Stderr.String())
			}
		})
	}
}

func TestTable(t *testing.T) {
	DisableColor()
	scope := CaptureOutput()
	defer scope.Restore()

	Table([]string{"METRIC", "VALUE"}, [][]string{{"rmse", "41.2"}, {"r2", "0.81"}})

	lines := strings.Split(strings.TrimSpace(scope.Stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "METRIC  VALUE", lines[0])
	assert.Equal(t, "rmse    41.2", lines[1])
	assert.Equal(t, "r2      0.81", lines[2])
}

func TestJSON(t *testing.T) {
	scope := CaptureOutput()
	defer scope.Restore()

	require.NoError(t, JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", scope.Stdout.String())

	require.Error(t, JSON(make(chan int)))
}

func TestConcurrentOutputFunctions(t *testing.T) {
	scope := CaptureOutput()
	defer scope.Restore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Info("line")
			Error("line")
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(scope.Stdout.String(), "line\n"))
	assert.Equal(t, 20, strings.Count(scope.Stderr.String(), "line\n"))
}

func TestCaptureOutput(t *testing.T) {
	originalStdout := Stdout()
	originalStderr := Stderr()

	scope := CaptureOutput()
	assert.NotEqual(t, originalStdout, Stdout())

	scope.Restore()
	assert.Equal(t, originalStdout, Stdout())
	assert.Equal(t, originalStderr, Stderr())
}
