package cli

import "fmt"

// ExitCodeError is an error that carries a specific process exit code,
// letting RunE functions signal a non-standard exit status without calling
// os.Exit directly and short-circuiting cobra's own cleanup.
type ExitCodeError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitCodeError creates an ExitCodeError with the given code and message.
func NewExitCodeError(code int, message string) *ExitCodeError {
	return &ExitCodeError{Code: code, Message: message}
}
