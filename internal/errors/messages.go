package errors

import "fmt"

// Common error messages for the twirer CLI.
// These templates ensure consistent, actionable error messages.

// DraftNotFound creates an error for a newsletter checkout without a draft.
func DraftNotFound(dir string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("Draft not found in %s", dir),
		"Pull the newsletter repository: the editors publish the draft early in the week",
		"Check `twir_dir` in the config points at your this-week-in-rust checkout",
	)
}

// DraftNumberNotFound creates an error for a draft without a "Number: " line.
func DraftNumberNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("Number not found in draft %s", path),
		"Wait for the editors to fill in the draft header, then try again",
	)
}

// MissingConfigFile creates an error for a config path that does not exist.
func MissingConfigFile(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file %s does not exist", path),
		"Create it with `ignore=`, `order=` and `code_keywords=` lines",
		"Or point --config at an existing YAML, JSON or key=value file",
	)
}

// InvalidWatchTarget creates an error for `check --watch` without a file.
func InvalidWatchTarget() *CLIError {
	err := NewArgumentError(
		"--watch needs a draft file",
		"Run inside a configured setup so the draft can be found",
		"Or pass the draft path explicitly",
	)
	err.Usage = "twirer check --watch [draft.md]"
	return err
}
