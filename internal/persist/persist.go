// Package persist provides the file I/O error type and write helpers shared by
// the solar-time cache and the wallpaper catalog.
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrPersistence is matched by every Error returned from this package's callers.
var ErrPersistence = errors.New("persistence error")

// Error describes a failed read or write of a state file.
type Error struct {
	Op   string // "read", "write", "decode", "encode"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPersistence.
func (e *Error) Is(target error) bool {
	return target == ErrPersistence
}

// Wrap returns nil when err is nil, otherwise an *Error.
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: err}
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, creating the parent directory if needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - State directory needs standard permissions
		return Wrap("write", path, fmt.Errorf("failed to create directory: %w", err))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return Wrap("write", path, err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		return Wrap("write", path, errors.Join(writeErr, closeErr))
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return Wrap("write", path, err)
	}
	return nil
}
