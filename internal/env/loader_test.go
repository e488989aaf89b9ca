package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadEnvFilesFromDir(t *testing.T) {
	t.Run("local overrides base", func(t *testing.T) {
		dir := t.TempDir()
		writeEnv(t, dir, BaseFile, "BIKERENTAL_TEST_A=base\nBIKERENTAL_TEST_B=base\n")
		writeEnv(t, dir, LocalFile, "BIKERENTAL_TEST_B=local\n")
		t.Setenv("BIKERENTAL_TEST_A", "")
		t.Setenv("BIKERENTAL_TEST_B", "")
		require.NoError(t, os.Unsetenv("BIKERENTAL_TEST_A"))
		require.NoError(t, os.Unsetenv("BIKERENTAL_TEST_B"))

		require.NoError(t, LoadEnvFilesFromDir(dir))

		assert.Equal(t, "base", os.Getenv("BIKERENTAL_TEST_A"))
		assert.Equal(t, "local", os.Getenv("BIKERENTAL_TEST_B"))
	})

	t.Run("process environment wins", func(t *testing.T) {
		dir := t.TempDir()
		writeEnv(t, dir, BaseFile, "BIKERENTAL_TEST_C=file\n")
		t.Setenv("BIKERENTAL_TEST_C", "process")

		require.NoError(t, LoadEnvFilesFromDir(dir))

		assert.Equal(t, "process", os.Getenv("BIKERENTAL_TEST_C"))
	})

	t.Run("missing files are fine", func(t *testing.T) {
		assert.NoError(t, LoadEnvFilesFromDir(t.TempDir()))
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		writeEnv(t, dir, BaseFile, "BIKERENTAL_TEST_D='unterminated\n")

		err := LoadEnvFilesFromDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load")
	})
}

func TestGetEnvWithFallback(t *testing.T) {
	t.Setenv("BIKERENTAL_TEST_SET", "value")
	assert.Equal(t, "value", GetEnvWithFallback("BIKERENTAL_TEST_SET", "fallback"))
	assert.Equal(t, "fallback", GetEnvWithFallback("BIKERENTAL_TEST_UNSET_XYZ", "fallback"))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("BIKERENTAL_TEST_BOOL", "true")
	t.Setenv("BIKERENTAL_TEST_BAD", "maybe")

	assert.True(t, GetEnvBool("BIKERENTAL_TEST_BOOL", false))
	assert.True(t, GetEnvBool("BIKERENTAL_TEST_BAD", true))
	assert.False(t, GetEnvBool("BIKERENTAL_TEST_UNSET_XYZ", false))
}
