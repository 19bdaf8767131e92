// Package errors defines the structured error types surfaced by the
// assetforge pipeline. Every failure is classified into one of a small
// set of error kinds so callers can distinguish a missing toolchain
// from a failed external process or a broken content producer.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeToolMissing       ErrorType = "tool_missing"
	ErrorTypeInstantiation     ErrorType = "instantiation"
	ErrorTypeCommandFailed     ErrorType = "command_failed"
	ErrorTypeContentProduction ErrorType = "content_production"
	ErrorTypeIO                ErrorType = "io"
	ErrorTypeConfig            ErrorType = "config"
)

// ForgeError is a structured error type with context.
type ForgeError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
	Stage   string

	// Populated for command_failed errors.
	Command  string
	ExitCode int
	Stderr   string

	// Populated for tool_missing errors.
	Remediation string
}

// Error implements the error interface.
func (e *ForgeError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Stage != "" {
		parts = append(parts, "stage:"+e.Stage)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Type == ErrorTypeCommandFailed {
		result += fmt.Sprintf(" (exit code %d)", e.ExitCode)
		if e.Stderr != "" {
			result += "\nstderr:\n" + e.Stderr
		}
	}

	if e.Remediation != "" {
		result += "\n" + e.Remediation
	}

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *ForgeError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *ForgeError) Is(target error) bool {
	var t *ForgeError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *ForgeError) WithContext(key string, value interface{}) *ForgeError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithStage adds pipeline stage context.
func (e *ForgeError) WithStage(stage string) *ForgeError {
	e.Stage = stage

	return e
}

// Error creation functions

// NewToolMissingError creates an error for an absent or unverifiable
// external tool. The remediation text is shown to the user verbatim.
func NewToolMissingError(tool, remediation string, cause error) *ForgeError {
	return &ForgeError{
		Type:        ErrorTypeToolMissing,
		Code:        ErrCodeToolMissing,
		Message:     "required tool not available: " + tool,
		Cause:       cause,
		Remediation: remediation,
	}
}

// NewInstantiationError creates an error for a generator registration
// that cannot be materialized at discovery time.
func NewInstantiationError(name string, cause error) *ForgeError {
	return &ForgeError{
		Type:    ErrorTypeInstantiation,
		Code:    ErrCodeInstantiation,
		Message: "cannot instantiate generator: " + name,
		Cause:   cause,
	}
}

// NewCommandFailedError creates an error for an external process that
// exited nonzero, carrying the exit code and the full captured stderr.
func NewCommandFailedError(command string, exitCode int, stderr string) *ForgeError {
	return &ForgeError{
		Type:     ErrorTypeCommandFailed,
		Code:     ErrCodeCommandFailed,
		Message:  "command failed: " + command,
		Command:  command,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

// NewContentProductionError creates an error for a generator or
// template producer that failed.
func NewContentProductionError(unit string, cause error) *ForgeError {
	return &ForgeError{
		Type:    ErrorTypeContentProduction,
		Code:    ErrCodeContentProduction,
		Message: "content production failed for: " + unit,
		Cause:   cause,
	}
}

// NewIOError creates an I/O error.
func NewIOError(message string, cause error) *ForgeError {
	return &ForgeError{
		Type:    ErrorTypeIO,
		Code:    ErrCodeIO,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(message string) *ForgeError {
	return &ForgeError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeConfigInvalid,
		Message: message,
	}
}

// Classification helpers

// IsToolMissing checks if an error reports an absent external tool.
func IsToolMissing(err error) bool {
	return isType(err, ErrorTypeToolMissing)
}

// IsInstantiation checks if an error is a discovery instantiation failure.
func IsInstantiation(err error) bool {
	return isType(err, ErrorTypeInstantiation)
}

// IsCommandFailed checks if an error is a nonzero external process exit.
func IsCommandFailed(err error) bool {
	return isType(err, ErrorTypeCommandFailed)
}

// IsContentProduction checks if an error is a producer failure.
func IsContentProduction(err error) bool {
	return isType(err, ErrorTypeContentProduction)
}

func isType(err error, t ErrorType) bool {
	var fe *ForgeError
	if errors.As(err, &fe) {
		return fe.Type == t
	}

	return false
}

// AsForgeError extracts a *ForgeError from an error chain.
func AsForgeError(err error) (*ForgeError, bool) {
	var fe *ForgeError
	ok := errors.As(err, &fe)
	return fe, ok
}

// Common error codes.
const (
	ErrCodeToolMissing       = "ERR_TOOL_MISSING"
	ErrCodeInstantiation     = "ERR_INSTANTIATION"
	ErrCodeCommandFailed     = "ERR_COMMAND_FAILED"
	ErrCodeContentProduction = "ERR_CONTENT_PRODUCTION"
	ErrCodeIO                = "ERR_IO"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeInvalidPath       = "ERR_INVALID_PATH"
	ErrCodePathTraversal     = "ERR_PATH_TRAVERSAL"
)

// Helper functions for common errors

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *ForgeError {
	return &ForgeError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeInvalidPath,
		Message: "invalid path: " + path,
	}
}

// ErrPathTraversal creates a path traversal error.
func ErrPathTraversal(path string) *ForgeError {
	return &ForgeError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodePathTraversal,
		Message: "path escapes project root: " + path,
	}
}
