// Package errors provides typed errors for cgwt.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode identifies the type of error.
type ErrorCode string

// Error codes for domain errors, per the documented error taxonomy.
const (
	ErrProbe            ErrorCode = "PROBE_ERROR"
	ErrGit              ErrorCode = "GIT_ERROR"
	ErrConvert          ErrorCode = "CONVERT_ERROR"
	ErrWorkspaceExists  ErrorCode = "WORKSPACE_EXISTS"
	ErrWorkspaceBusy    ErrorCode = "WORKSPACE_BUSY"
	ErrWorkspaceMissing ErrorCode = "WORKSPACE_MISSING"
	ErrMultiplexer      ErrorCode = "MULTIPLEXER_ERROR"
	ErrBus              ErrorCode = "BUS_ERROR"
	ErrTimeout          ErrorCode = "TIMEOUT"
	ErrInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	ErrInternal         ErrorCode = "INTERNAL_ERROR"
)

// CgwtError is a typed error with code, message, cause, and context.
type CgwtError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]string
}

// Error implements the error interface.
func (e *CgwtError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for use with errors.Unwrap.
func (e *CgwtError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error has the same error code.
func (e *CgwtError) Is(target error) bool {
	var t *CgwtError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}

	return false
}

// WithContext returns a copy of the error with an additional context key-value pair.
func (e *CgwtError) WithContext(key, value string) *CgwtError {
	newContext := make(map[string]string, len(e.Context)+1)
	for k, v := range e.Context {
		newContext[k] = v
	}

	newContext[key] = value

	return &CgwtError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Context: newContext,
	}
}

// NewProbeError creates an error for when directory classification fails.
func NewProbeError(path string, cause error) *CgwtError {
	return &CgwtError{
		Code:    ErrProbe,
		Message: fmt.Sprintf("unable to classify %s", path),
		Cause:   cause,
		Context: map[string]string{"path": path},
	}
}

// NewGitError wraps a failed git subprocess invocation.
func NewGitError(operation, stderr string, exitCode int, cause error) *CgwtError {
	return &CgwtError{
		Code:    ErrGit,
		Message: fmt.Sprintf("git %s failed", operation),
		Cause:   cause,
		Context: map[string]string{
			"operation": operation,
			"stderr":    stderr,
			"exit_code": fmt.Sprintf("%d", exitCode),
		},
	}
}

// NewConvertError creates an error for a refused or failed plain-to-shared conversion.
func NewConvertError(path, reason string) *CgwtError {
	return &CgwtError{
		Code:    ErrConvert,
		Message: fmt.Sprintf("cannot convert %s: %s", path, reason),
		Context: map[string]string{"path": path, "reason": reason},
	}
}

// NewWorkspaceExists creates an error for when a workspace directory already exists.
func NewWorkspaceExists(branch string) *CgwtError {
	return &CgwtError{
		Code:    ErrWorkspaceExists,
		Message: fmt.Sprintf("workspace for branch %q already exists", branch),
		Context: map[string]string{"branch": branch},
	}
}

// NewWorkspaceBusy creates an error for a workspace refusing removal.
func NewWorkspaceBusy(branch, reason string) *CgwtError {
	return &CgwtError{
		Code:    ErrWorkspaceBusy,
		Message: fmt.Sprintf("workspace for branch %q is busy: %s", branch, reason),
		Context: map[string]string{"branch": branch, "reason": reason},
	}
}

// NewWorkspaceMissing creates an error for an operation targeting a nonexistent workspace.
func NewWorkspaceMissing(branch string) *CgwtError {
	return &CgwtError{
		Code:    ErrWorkspaceMissing,
		Message: fmt.Sprintf("no workspace for branch %q", branch),
		Context: map[string]string{"branch": branch},
	}
}

// NewMultiplexerError wraps a failed multiplexer subprocess invocation.
func NewMultiplexerError(operation, stderr string, cause error) *CgwtError {
	return &CgwtError{
		Code:    ErrMultiplexer,
		Message: fmt.Sprintf("multiplexer %s failed", operation),
		Cause:   cause,
		Context: map[string]string{"operation": operation, "stderr": stderr},
	}
}

// NewBusError wraps a message bus I/O failure.
func NewBusError(operation string, cause error) *CgwtError {
	return &CgwtError{
		Code:    ErrBus,
		Message: fmt.Sprintf("message bus %s failed", operation),
		Cause:   cause,
		Context: map[string]string{"operation": operation},
	}
}

// NewTimeout creates an error for an operation that exceeded its deadline.
func NewTimeout(operation string, after time.Duration) *CgwtError {
	return &CgwtError{
		Code:    ErrTimeout,
		Message: fmt.Sprintf("%s timed out after %s", operation, after),
		Context: map[string]string{"operation": operation, "after": after.String()},
	}
}

// NewInvalidArgument creates an error for invalid input arguments.
func NewInvalidArgument(name, detail string) *CgwtError {
	return &CgwtError{
		Code:    ErrInvalidArgument,
		Message: fmt.Sprintf("invalid argument %s: %s", name, detail),
		Context: map[string]string{"argument": name, "detail": detail},
	}
}

// NewInternalError creates an error for unexpected internal failures.
func NewInternalError(detail string, cause error) *CgwtError {
	return &CgwtError{
		Code:    ErrInternal,
		Message: fmt.Sprintf("internal error: %s", detail),
		Cause:   cause,
		Context: map[string]string{"detail": detail},
	}
}

// Sentinel errors for use with errors.Is().
var (
	ProbeErr            = &CgwtError{Code: ErrProbe}
	GitErr              = &CgwtError{Code: ErrGit}
	ConvertErr          = &CgwtError{Code: ErrConvert}
	WorkspaceExistsErr  = &CgwtError{Code: ErrWorkspaceExists}
	WorkspaceBusyErr    = &CgwtError{Code: ErrWorkspaceBusy}
	WorkspaceMissingErr = &CgwtError{Code: ErrWorkspaceMissing}
	MultiplexerErr      = &CgwtError{Code: ErrMultiplexer}
	BusErr              = &CgwtError{Code: ErrBus}
	TimeoutErr          = &CgwtError{Code: ErrTimeout}
	InvalidArgumentErr  = &CgwtError{Code: ErrInvalidArgument}
	InternalErr         = &CgwtError{Code: ErrInternal}
)
