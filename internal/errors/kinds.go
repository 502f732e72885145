package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies one of the closed set of failures the digest tool raises.
type Kind int

const (
	// KindUnknown is any error outside the closed set.
	KindUnknown Kind = iota
	// KindConfigKeyMissing means a required configuration key is absent.
	KindConfigKeyMissing
	// KindCacheFormat means a stored record did not have the expected shape.
	KindCacheFormat
	// KindLintViolation means the draft failed the linter.
	KindLintViolation
	// KindCollaborator means GitHub, git, the file system or a launched
	// program failed.
	KindCollaborator
)

// String returns the kind name used in log fields.
func (k Kind) String() string {
	switch k {
	case KindConfigKeyMissing:
		return "config_key_missing"
	case KindCacheFormat:
		return "cache_format"
	case KindLintViolation:
		return "lint_violation"
	case KindCollaborator:
		return "collaborator"
	default:
		return "unknown"
	}
}

// ConfigKeyMissingError is returned when a command needs a configuration
// key that no configuration source provides.
type ConfigKeyMissingError struct {
	Key string
	// Example is a sample value shown in the remediation hint.
	Example string
}

func (e *ConfigKeyMissingError) Error() string {
	if e.Example != "" {
		return fmt.Sprintf("missing `%s=%s` in config", e.Key, e.Example)
	}
	return fmt.Sprintf("missing `%s` in config", e.Key)
}

// Kind implements kinded.
func (e *ConfigKeyMissingError) Kind() Kind { return KindConfigKeyMissing }

// CacheFormatError describes a record line that could not be parsed.
type CacheFormatError struct {
	Record string
	Line   int
	Text   string
	Reason string
}

func (e *CacheFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %q", e.Record, e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("%s: %s: %q", e.Record, e.Reason, e.Text)
}

// Kind implements kinded.
func (e *CacheFormatError) Kind() Kind { return KindCacheFormat }

// LintError is returned once a chapter of the draft has been fully checked
// and at least one violation was found.
type LintError struct {
	Chapter string
	Count   int
}

func (e *LintError) Error() string {
	if e.Count == 1 {
		return fmt.Sprintf("There was 1 error in %q", e.Chapter)
	}
	return fmt.Sprintf("There were %d errors in %q", e.Count, e.Chapter)
}

// Kind implements kinded.
func (e *LintError) Kind() Kind { return KindLintViolation }

// CollaboratorError wraps a failure of an external collaborator.
type CollaboratorError struct {
	// Op names the collaborator operation, e.g. "github search" or "git push".
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the collaborator's error.
func (e *CollaboratorError) Unwrap() error { return e.Err }

// Kind implements kinded.
func (e *CollaboratorError) Kind() Kind { return KindCollaborator }

// Collaborator wraps err as a CollaboratorError for op. Nil stays nil.
func Collaborator(op string, err error) error {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Op: op, Err: err}
}

type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first typed error in err's chain.
func KindOf(err error) Kind {
	var k kinded
	if stderrors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// Classify converts any error into a CLIError with a category and
// remediation matching its kind. CLIErrors are returned unchanged.
func Classify(err error) *CLIError {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}

	var (
		missing *ConfigKeyMissingError
		format  *CacheFormatError
		lint    *LintError
		collab  *CollaboratorError
	)
	switch {
	case stderrors.As(err, &missing):
		return WrapWithMessage(err, Configuration, "configuration incomplete",
			fmt.Sprintf("Add `%s` to the project config (default: cache/config)", missing.Key),
			"Run 'twirer config show' to see the effective configuration")
	case stderrors.As(err, &format):
		return Wrap(err, Prerequisite,
			fmt.Sprintf("Fix or delete the %q record and re-run the previous step", format.Record))
	case stderrors.As(err, &lint):
		return Wrap(err, Validation,
			"Fix every violation printed above",
			"Re-run 'twirer check' until it passes")
	case stderrors.As(err, &collab):
		return Wrap(err, Runtime)
	default:
		return Wrap(err, Runtime)
	}
}
