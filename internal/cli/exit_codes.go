package cli

import (
	"errors"

	twerrors "github.com/twirer/twirer/internal/errors"
)

// Exit codes for the twirer CLI
// These codes let scripts tell a dirty draft from a broken setup
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a collaborator (GitHub, git, a launched program) failed
	ExitFailure = 1

	// ExitLintFailed indicates the draft has style violations
	ExitLintFailed = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitConfigMissing indicates a required configuration key is missing
	ExitConfigMissing = 4

	// ExitCacheFormat indicates a stored record could not be parsed
	ExitCacheFormat = 5
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch twerrors.KindOf(err) {
	case twerrors.KindLintViolation:
		return ExitLintFailed
	case twerrors.KindConfigKeyMissing:
		return ExitConfigMissing
	case twerrors.KindCacheFormat:
		return ExitCacheFormat
	}

	var cliErr *twerrors.CLIError
	if errors.As(err, &cliErr) {
		switch cliErr.Category {
		case twerrors.Argument:
			return ExitInvalidArguments
		case twerrors.Configuration:
			return ExitConfigMissing
		}
	}
	return ExitFailure
}
