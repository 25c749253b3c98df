// Package errors defines the closed error-code taxonomy every kernel entry
// point returns instead of an arbitrary error value.
//
// The kernel's API is a set of total functions: every call returns, and the
// first failure observed latches into the kernel's last-error slot. Modeling
// that as a small, comparable Code plus a stdlib-compatible *Error (so
// callers can still use errors.Is/errors.As) fits the closed-taxonomy
// requirement better than a wrapped, stack-trace-carrying error type would.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies the kind of failure a kernel call reported.
type Code int

const (
	// Success indicates the call completed normally.
	Success Code = iota
	// Failure is an unclassified internal failure.
	Failure
	// SchedulerDisabled indicates the configured strategy is None; the
	// kernel is a no-op.
	SchedulerDisabled
	// ClientAttached indicates attach was called while already attached.
	ClientAttached
	// ClientNotAttached indicates a kernel call was issued while detached.
	ClientNotAttached
	// DuplicateOperation indicates create_operation was called with an id
	// that already names a live operation.
	DuplicateOperation
	// NotExistingOperation indicates a referenced operation id does not
	// exist.
	NotExistingOperation
	// MainOperationExplicitlyCreated indicates the reserved main id was
	// passed to create_operation.
	MainOperationExplicitlyCreated
	// MainOperationExplicitlyStarted indicates the reserved main id was
	// passed to start_operation.
	MainOperationExplicitlyStarted
	// MainOperationExplicitlyCompleted indicates the reserved main id was
	// passed to complete_operation.
	MainOperationExplicitlyCompleted
	// OperationNotStarted indicates complete_operation was called on an
	// operation that is still in the None status.
	OperationNotStarted
	// OperationAlreadyStarted indicates start_operation was called on an
	// operation that is neither None nor Completed.
	OperationAlreadyStarted
	// OperationAlreadyCompleted indicates an operation already in the
	// Completed status was targeted again.
	OperationAlreadyCompleted
	// DuplicateResource indicates create_resource was called with an id
	// that already exists.
	DuplicateResource
	// NotExistingResource indicates a referenced resource id does not
	// exist.
	NotExistingResource
	// DeadlockDetected indicates the schedule was exhausted while
	// non-completed operations remained, all blocked.
	DeadlockDetected
	// InternalError indicates a strategy/kernel invariant was violated.
	InternalError
)

var names = map[Code]string{
	Success:                           "Success",
	Failure:                           "Failure",
	SchedulerDisabled:                 "SchedulerDisabled",
	ClientAttached:                    "ClientAttached",
	ClientNotAttached:                 "ClientNotAttached",
	DuplicateOperation:                "DuplicateOperation",
	NotExistingOperation:              "NotExistingOperation",
	MainOperationExplicitlyCreated:    "MainOperationExplicitlyCreated",
	MainOperationExplicitlyStarted:    "MainOperationExplicitlyStarted",
	MainOperationExplicitlyCompleted:  "MainOperationExplicitlyCompleted",
	OperationNotStarted:               "OperationNotStarted",
	OperationAlreadyStarted:           "OperationAlreadyStarted",
	OperationAlreadyCompleted:         "OperationAlreadyCompleted",
	DuplicateResource:                 "DuplicateResource",
	NotExistingResource:               "NotExistingResource",
	DeadlockDetected:                  "DeadlockDetected",
	InternalError:                     "InternalError",
}

// String returns the code's symbolic name.
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return "UnknownCode"
}

// Error wraps a Code with optional free-form context. It implements the
// error interface and supports errors.Is against other *Error values with
// the same Code; to test an error against a bare Code, use this package's Is.
type Error struct {
	Code    Code
	Message string
}

// New returns an *Error for code with no extra context.
func New(code Code) *Error {
	return &Error{Code: code}
}

// Newf returns an *Error for code annotated with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Message
}

// Is lets errors.Is match another *Error, possibly wrapped, with the same
// Code. A bare Code is not an error value; the package-level Is below
// compares an error against one.
func (e *Error) Is(target error) bool {
	var other *Error
	if stderrors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// CodeOf extracts the Code from err, returning Success if err is nil and
// Failure if err is not an *Error.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return Failure
}

// Is reports whether err's Code equals code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
