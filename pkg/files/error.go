package files

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoOrderFound     = errors.New("no order found")
	ErrLedgerSubmission = errors.New("ledger submission failed")
	ErrLedgerQuery      = errors.New("ledger query failed")
	ErrStorageUpload    = errors.New("storage upload failed")
	ErrStorageDownload  = errors.New("storage download failed")
	ErrStorageDelete    = errors.New("storage delete failed")
)

// Error reports the operation and error kind of a failed step. errors.Is
// matches the kind, errors.As and Unwrap reach the underlying cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}
