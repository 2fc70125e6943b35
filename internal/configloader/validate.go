package configloader

import (
	"fmt"
	"path"
	"strings"

	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/lint"
)

// maxIndentSize bounds format.indent_size.
const maxIndentSize = 16

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "rules.CBS001.severity").
	Field string

	Value any

	Message string

	// FilePath is the config file containing the error, if known.
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal, such as unknown rule keys.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if n := cfg.Format.IndentSize; n < 0 || n > maxIndentSize {
		result.fail("format.indent_size", n, "indent size must be between 0 and %d", maxIndentSize)
	}
	if s := cfg.Format.IndentStyle; s != "" && s != config.IndentSpace && s != config.IndentTab {
		result.fail("format.indent_style", s, "invalid indent style %q; must be one of: space, tab", s)
	}

	if f := cfg.Output.Format; f != "" && !f.IsValid() {
		result.fail("output.format", f, "invalid format %q; must be one of: text, json, sarif, diff", f)
	}
	if c := cfg.Output.Color; c != "" && !IsValidColor(c) {
		result.fail("output.color", c, "invalid color mode %q; must be one of: auto, always, never", c)
	}
	if n := config.Int(cfg.Output.ContextLines, 0); n < 0 {
		result.fail("output.context_lines", n, "context lines must be >= 0")
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for i, ext := range cfg.Files.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.fail(fmt.Sprintf("files.extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}
	for i, pattern := range cfg.Files.Ignore {
		if _, err := path.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("files.ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	validateRules(cfg, result)

	return result
}

func validateRules(cfg *config.Config, result *ValidationResult) {
	for _, key := range sortedKeys(cfg.Rules) {
		ruleCfg := cfg.Rules[key]

		if _, _, found := lint.DefaultRegistry.Resolve(key); !found {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "rules." + key,
				Value:   key,
				Message: fmt.Sprintf("unknown rule %q; it will be ignored", key),
			})
		}

		if ruleCfg.Severity != nil && !config.Severity(*ruleCfg.Severity).IsValid() {
			result.fail("rules."+key+".severity", *ruleCfg.Severity,
				"invalid severity %q; must be one of: error, warning, info", *ruleCfg.Severity)
		}
	}
}

// ValidateWithFile validates cfg and attributes findings to filePath.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidColor reports whether mode is a known color mode.
func IsValidColor(mode string) bool {
	switch mode {
	case "auto", "always", "never":
		return true
	default:
		return false
	}
}
