package storage

import (
	"errors"
	"fmt"
)

// ErrStoreCorrupt is matched by every CorruptError
var ErrStoreCorrupt = errors.New("store corrupt")

// CorruptError reports a store file that exists but is not a valid date-to-snapshot mapping
type CorruptError struct {
	Path   string
	Key    string // offending date key, empty for top-level problems
	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	msg := fmt.Sprintf("store %s is corrupt", e.Path)
	if e.Key != "" {
		msg += fmt.Sprintf(": entry %q", e.Key)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptError) Unwrap() error { return e.Err }

func (e *CorruptError) Is(target error) bool { return target == ErrStoreCorrupt }

// PersistenceError reports a failure writing the store file
type PersistenceError struct {
	Path string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("saving store %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DirectoryError reports a failure preparing the data directory
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("creating data directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }
