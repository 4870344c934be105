package notes

import (
	"errors"
	"fmt"
)

// Plugin errors.
var (
	// ErrNoteNotFound indicates a shortcut's file path does not resolve.
	ErrNoteNotFound = errors.New("note not found")

	// ErrNotLoaded indicates an operation that needs Load to have run.
	ErrNotLoaded = errors.New("plugin not loaded")

	// ErrAlreadyLoaded indicates Load was called twice.
	ErrAlreadyLoaded = errors.New("plugin already loaded")

	// ErrIndexOutOfRange indicates an entry index outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnknownEntry indicates an entry key that is no longer in the list.
	ErrUnknownEntry = errors.New("unknown entry")

	// ErrUnknownField indicates a field name other than id, name or filePath.
	ErrUnknownField = errors.New("unknown field")

	// ErrPersisterClosed indicates a save submitted after Close.
	ErrPersisterClosed = errors.New("persister closed")
)

// OperationError records the operation and target an error occurred on.
type OperationError struct {
	Op     string // e.g. "open", "load settings", "save settings"
	Target string // e.g. a file path
	Err    error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
