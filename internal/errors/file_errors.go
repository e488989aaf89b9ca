package errors

import (
	"errors"
	"fmt"
)

// Filesystem and encoding failures. The helpers below wrap both the matching
// sentinel and the underlying error, so errors.Is works against either.
var (
	ErrFileOperation      = errors.New("file operation failed")
	ErrDirectoryOperation = errors.New("directory operation failed")
	ErrJSONOperation      = errors.New("JSON operation failed")
)

// FileOperationError reports a failed operation on a file, e.g.
// "file operation failed: read 'trained_models/x.json': <err>". A nil err
// returns nil.
func FileOperationError(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s '%s': %w", ErrFileOperation, operation, path, err)
}

// DirectoryOperationError is FileOperationError for directories
func DirectoryOperationError(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s '%s': %w", ErrDirectoryOperation, operation, path, err)
}

// FileReadError reports a failed read of path
func FileReadError(path string, err error) error { return FileOperationError("read", path, err) }

// FileWriteError reports a failed write of path
func FileWriteError(path string, err error) error { return FileOperationError("write", path, err) }

// FileOpenError reports a failed open of path
func FileOpenError(path string, err error) error { return FileOperationError("open", path, err) }

// FileCreateError reports a failed create of path
func FileCreateError(path string, err error) error { return FileOperationError("create", path, err) }

// JSONMarshalError reports a failed encode of what
func JSONMarshalError(what string, err error) error { return jsonError("marshal", what, err) }

// JSONUnmarshalError reports a failed decode of what
func JSONUnmarshalError(what string, err error) error { return jsonError("unmarshal", what, err) }

func jsonError(operation, what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s '%s': %w", ErrJSONOperation, operation, what, err)
}
