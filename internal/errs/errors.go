// Package errs provides the unified error type used across BucketDesk.
//
// Storage drivers wrap SDK errors into *errs.Error before returning them.
// Callers (the settings store, the CLI) inspect errors with the Is*
// predicates and never import a driver package to do so.
//
// Usage:
//
//	// In a driver, wrap the native error:
//	return errs.Wrap(errs.ErrKindPermissionDenied, "failed to list objects", err)
//
//	// In the CLI, branch on the kind:
//	if errs.IsPermissionDenied(err) {
//	    fmt.Fprintln(os.Stderr, "check your access key")
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing provider-specific codes.
// MinIO and S3 drivers both map their native errors to one of these kinds.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no object, no bucket
	ErrKindConnectionFailed         // cannot reach the endpoint
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindInvalidInput             // bad settings or arguments
	ErrKindPermissionDenied         // bad credentials, access denied
	ErrKindCheckFailed              // connectivity check did not pass
	ErrKindUploadFailed             // presigned transfer returned a non-200 status
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindCheckFailed:
		return "check_failed"
	case ErrKindUploadFailed:
		return "upload_failed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by BucketDesk subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original SDK-level error, kept for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error with the same kind and message, so sentinel
// values declared with New can be compared with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a missing object or bucket.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsInvalidInput reports whether err was caused by bad settings or arguments.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsCheckFailed reports whether err came from a failed connectivity check.
func IsCheckFailed(err error) bool {
	return KindOf(err) == ErrKindCheckFailed
}

// IsUploadFailed reports whether err came from a rejected object transfer.
func IsUploadFailed(err error) bool {
	return KindOf(err) == ErrKindUploadFailed
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
