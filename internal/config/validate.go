package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError points at the file, and the line or field when known,
// that holds a bad configuration value.
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

// ValidateYAMLSyntax parses the YAML file at path so a syntax error is
// reported with its position before koanf hides it. Missing and blank
// files are valid.
func ValidateYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		msg := err.Error()
		if os.IsPermission(err) {
			msg = "permission denied"
		}
		return &ValidationError{FilePath: path, Message: msg}
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}

	var node yaml.Node
	err = yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return &ValidationError{FilePath: path, Message: strings.Join(typeErr.Errors, "; ")}
	}
	line, column := yamlPosition(err.Error())
	return &ValidationError{
		FilePath: path,
		Line:     line,
		Column:   column,
		Message:  yamlReason(err.Error()),
	}
}

// yamlPosition reads "yaml: line L: column C:" or "yaml: line L:"
// prefixes. Zero means unknown.
func yamlPosition(msg string) (line, column int) {
	if n, _ := fmt.Sscanf(msg, "yaml: line %d: column %d:", &line, &column); n == 2 {
		return line, column
	}
	if n, _ := fmt.Sscanf(msg, "yaml: line %d:", &line); n == 1 {
		return line, 1
	}
	return 0, 0
}

// yamlReason drops the "yaml: line N:" prefix of a parser error.
func yamlReason(msg string) string {
	if !strings.HasPrefix(msg, "yaml:") {
		return msg
	}
	if i := strings.LastIndex(msg, ": "); i > 0 {
		return msg[i+2:]
	}
	return msg
}

// ValidateConfigValues checks the struct constraints of cfg and the shape
// of the repo aliases. Only the first problem is reported.
func ValidateConfigValues(cfg *Configuration, path string) error {
	if err := validator.New().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ValidationError{
				FilePath: path,
				Field:    snakeCase(fe.Field()),
				Message:  constraintMessage(fe),
			}
		}
		return &ValidationError{FilePath: path, Message: err.Error()}
	}

	for _, pair := range cfg.RepoAliases {
		repo, alias, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(repo) == "" || strings.TrimSpace(alias) == "" {
			return &ValidationError{
				FilePath: path,
				Field:    "repo_aliases",
				Message:  fmt.Sprintf("entry %q must be repo=alias", pair),
			}
		}
	}
	return nil
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "url":
		return "must be a valid URL"
	default:
		return "failed validation: " + fe.Tag()
	}
}

// snakeCase maps a Go field name to its config key, PerPage -> per_page.
func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
