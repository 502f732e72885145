// Package errors provides structured error handling for the twirer CLI.
// It includes categorized errors with actionable remediation guidance and
// the typed error kinds raised by the digest, store and lint packages.
package errors

import "fmt"

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Argument errors are caused by invalid or missing command arguments.
	Argument ErrorCategory = iota
	// Configuration errors are caused by invalid or missing configuration.
	Configuration
	// Prerequisite errors occur when required files or dependencies are missing.
	Prerequisite
	// Runtime errors occur during command execution.
	Runtime
	// Validation errors are reported by the draft linter.
	Validation
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Prerequisite:
		return "Prerequisite Error"
	case Runtime:
		return "Runtime Error"
	case Validation:
		return "Validation Error"
	default:
		return "Error"
	}
}

// CLIError is what the command line prints: a categorized message, the
// steps that fix it and, for argument errors, the correct usage.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Remediation []string
	Usage       string
	Err         error
}

func (e *CLIError) Error() string { return e.Message }

func (e *CLIError) Unwrap() error { return e.Err }

func newCLIError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentError reports a bad command line.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return newCLIError(Argument, message, remediation)
}

// NewConfigError reports a bad or incomplete configuration.
func NewConfigError(message string, remediation ...string) *CLIError {
	return newCLIError(Configuration, message, remediation)
}

// NewPrerequisiteError reports a missing checkout, draft or program.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return newCLIError(Prerequisite, message, remediation)
}

// NewRuntimeError reports a failure while the command ran.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return newCLIError(Runtime, message, remediation)
}

// Wrap categorizes err, keeping its message. A nil err stays nil.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newCLIError(category, err.Error(), remediation)
	e.Err = err
	return e
}

// WrapWithMessage categorizes err under "message: err".
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newCLIError(category, fmt.Sprintf("%s: %v", message, err), remediation)
	e.Err = err
	return e
}
