// Package errors provides the unified error type and factory functions for
// ffpgen.  Every layer (domain, featurize, predict, infrastructure,
// interfaces) uses AppError as the single carrier for structured error
// information, enabling consistent HTTP responses, logging, and monitoring.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames
// above the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// AppError is the single structured error type used throughout ffpgen.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeUnknownSpecies, "no covalent radius for Z=119")
//	return errors.Wrap(err, errors.ErrCodeStorageError, "failed to fetch scaler artifact")
//	return errors.New(errors.ErrCodeEmptyShell, "empty first shell").WithSite(7)
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error.
	Message string

	// Detail carries supplementary context (structure identity, parameter
	// values) that aids debugging.
	Detail string

	// SiteIndex identifies the offending site for per-site failures
	// (EmptyShell, DegenerateTessellation).  -1 when not applicable.
	SiteIndex int

	// Cause is the underlying error, enabling errors.Is / errors.As
	// traversal of the full chain.
	Cause error

	// Stack contains the formatted call-stack captured at creation.  It is
	// intentionally not included in Error() output; structured logging
	// middleware reads the field directly.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail> (site <i>)", with the detail and
// site segments omitted when unset.
func (e *AppError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code.String(), e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.SiteIndex >= 0 {
		fmt.Fprintf(&sb, " (site %d)", e.SiteIndex)
	}
	return sb.String()
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithSite returns a shallow copy of the receiver with SiteIndex set.
func (e *AppError) WithSite(index int) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.SiteIndex = index
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		SiteIndex: -1,
		Stack:     captureStack(1),
	}
}

// Newf constructs an AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		SiteIndex: -1,
		Stack:     captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil so it can be used inline.
//
// When err is already an *AppError and code is CodeUnknown the original code
// is preserved, preventing loss of the original classification during
// cross-layer propagation.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	site := -1
	var ae *AppError
	if errors.As(err, &ae) {
		if code == CodeUnknown {
			code = ae.Code
		}
		site = ae.SiteIndex
	}
	return &AppError{
		Code:      code,
		Message:   message,
		SiteIndex: site,
		Cause:     err,
		Stack:     captureStack(1),
	}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.  It is the idiomatic way to check domain failure modes:
//
//	if errors.IsCode(err, errors.ErrCodeEmptyShell) { ... }
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's
// chain.  If no *AppError is present, CodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// SiteOf extracts the SiteIndex from the first *AppError in err's chain,
// or -1 when no per-site context exists.
func SiteOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.SiteIndex
	}
	return -1
}

// InvalidParam constructs a CodeInvalidParam AppError.
func InvalidParam(message string) *AppError {
	return &AppError{
		Code:      CodeInvalidParam,
		Message:   message,
		SiteIndex: -1,
		Stack:     captureStack(1),
	}
}

// NotFound constructs a CodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{
		Code:      CodeNotFound,
		Message:   message,
		SiteIndex: -1,
		Stack:     captureStack(1),
	}
}

// Internal constructs a CodeInternal AppError.  Use for unexpected failures
// where no more specific code applies.
func Internal(message string) *AppError {
	return &AppError{
		Code:      CodeInternal,
		Message:   message,
		SiteIndex: -1,
		Stack:     captureStack(1),
	}
}
