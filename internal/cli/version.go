package cli

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-bikerental/internal/output"
	"github.com/mrz1836/go-bikerental/internal/pipeline"
)

const (
	devVersionString = "dev"
	unknownString    = "unknown"
)

// Build information set via ldflags
//
//nolint:gochecknoglobals // Build variables are set via ldflags during compilation
var (
	versionMu sync.RWMutex
	version   = devVersionString
	commit    = unknownString
	buildDate = unknownString
)

// VersionInfo contains version information
type VersionInfo struct {
	Version        string `json:"version"`
	Commit         string `json:"commit"`
	BuildDate      string `json:"build_date"`
	GoVersion      string `json:"go_version"`
	OS             string `json:"os"`
	Arch           string `json:"arch"`
	ArtifactFormat int    `json:"artifact_format"`
}

// createVersionCmd creates an isolated version command with the given flags
func createVersionCmd(_ *Flags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build details.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printVersion(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version information as JSON")
	return cmd
}

// printVersion prints version information based on the format
func printVersion(jsonFormat bool) error {
	info := GetVersionInfo()

	if jsonFormat {
		return output.JSON(info)
	}

	output.Infof("bikerental %s", info.Version)
	output.Infof("Commit:          %s", info.Commit)
	output.Infof("Build Date:      %s", info.BuildDate)
	output.Infof("Go Version:      %s", info.GoVersion)
	output.Infof("Platform:        %s/%s", info.OS, info.Arch)
	output.Infof("Artifact Format: %d", info.ArtifactFormat)
	return nil
}

// SetVersionInfo allows setting version information programmatically.
// Empty values are ignored.
func SetVersionInfo(v, c, d string) {
	versionMu.Lock()
	defer versionMu.Unlock()
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		buildDate = d
	}
}

// ResetVersionInfo resets the version info to defaults
func ResetVersionInfo() {
	versionMu.Lock()
	defer versionMu.Unlock()
	version = devVersionString
	commit = unknownString
	buildDate = unknownString
}

// GetVersionInfo returns complete version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:        getVersionWithFallback(),
		Commit:         getCommitWithFallback(),
		BuildDate:      getBuildDateWithFallback(),
		GoVersion:      runtime.Version(),
		OS:             runtime.GOOS,
		Arch:           runtime.GOARCH,
		ArtifactFormat: pipeline.FormatVersion,
	}
}

// getVersionWithFallback returns the ldflags version, then the module version, then the VCS revision
func getVersionWithFallback() string {
	versionMu.RLock()
	v := version
	versionMu.RUnlock()
	if v != devVersionString && v != "" {
		return v
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
		if rev := buildSetting(info, "vcs.revision"); rev != "" {
			return shortHash(rev)
		}
	}
	return devVersionString
}

func getCommitWithFallback() string {
	versionMu.RLock()
	c := commit
	versionMu.RUnlock()
	if c != unknownString && c != "" {
		return c
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if rev := buildSetting(info, "vcs.revision"); rev != "" {
			return shortHash(rev)
		}
	}
	return unknownString
}

func getBuildDateWithFallback() string {
	versionMu.RLock()
	bd := buildDate
	versionMu.RUnlock()
	if bd != unknownString && bd != "" {
		return bd
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if vcsTime := buildSetting(info, "vcs.time"); vcsTime != "" {
			// VCS time is RFC3339, show it in the ldflags layout
			if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
				return t.Format("2006-01-02_15:04:05_UTC")
			}
			return vcsTime
		}
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return "go-install"
		}
	}
	return unknownString
}

func buildSetting(info *debug.BuildInfo, key string) string {
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

func shortHash(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
