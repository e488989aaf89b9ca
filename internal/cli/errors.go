package cli

import "errors"

// Common CLI errors
var (
	// ErrNilFlags indicates a command was built without flags
	ErrNilFlags = errors.New("flags must not be nil")

	// ErrNoArtifacts indicates the artifact directory holds no pipeline artifacts
	ErrNoArtifacts = errors.New("no pipeline artifacts found")

	// ErrInvalidKeep indicates a negative --keep value
	ErrInvalidKeep = errors.New("keep must be zero or greater")

	// ErrNoStore indicates a command needs a prediction store but none is configured
	ErrNoStore = errors.New("no prediction store configured")
)
