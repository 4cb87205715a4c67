package media

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a record does not exist or is not owned by the
// caller. The two causes are deliberately indistinguishable so probes
// cannot leak existence across owners.
var ErrNotFound = errors.New("media not found")

// ValidationError rejects an upload before any backend or repository call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid upload: " + e.Reason
}

// BackendError wraps a storage backend store/delete failure.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("storage backend %s failed: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a repository failure.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("record persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
