// Package config defines the configuration model for gocbs.
// These types are plain data; loading and merging live in internal/configloader.
package config

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// OutputFormat specifies the output format for check results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatDiff, FormatSummary:
		return true
	default:
		return false
	}
}

// Indent styles for FormatConfig.IndentStyle.
const (
	IndentSpace = "space"
	IndentTab   = "tab"
)

// RuleConfig overrides a single rule. Nil fields keep the rule default.
type RuleConfig struct {
	Enabled  *bool   `yaml:"enabled,omitempty"`
	Severity *string `yaml:"severity,omitempty"`
}

// FormatConfig controls the formatter.
type FormatConfig struct {
	IndentSize             int    `yaml:"indent_size,omitempty"`
	IndentStyle            string `yaml:"indent_style,omitempty"`
	PreserveMarkdown       *bool  `yaml:"preserve_markdown,omitempty"`
	AlignArguments         *bool  `yaml:"align_arguments,omitempty"`
	TrimTrailingWhitespace *bool  `yaml:"trim_trailing_whitespace,omitempty"`
}

// FilesConfig controls which files are discovered.
type FilesConfig struct {
	// Extensions are matched case-insensitively and include the dot.
	Extensions []string `yaml:"extensions,omitempty"`

	// Ignore contains glob patterns matched against slash-separated paths.
	Ignore []string `yaml:"ignore,omitempty"`

	// Hidden includes dot-files and dot-directories.
	Hidden *bool `yaml:"hidden,omitempty"`
}

// OutputConfig controls reporting.
type OutputConfig struct {
	Format OutputFormat `yaml:"format,omitempty"`

	// Color is "auto", "always" or "never".
	Color string `yaml:"color,omitempty"`

	// ContextLines is the number of source lines shown around a diagnostic.
	ContextLines *int `yaml:"context_lines,omitempty"`
}

// LSPConfig toggles language server features.
type LSPConfig struct {
	Completion          *bool `yaml:"completion,omitempty"`
	Hover               *bool `yaml:"hover,omitempty"`
	SignatureHelp       *bool `yaml:"signature_help,omitempty"`
	DiagnosticsOnChange *bool `yaml:"diagnostics_on_change,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	Format FormatConfig          `yaml:"format,omitempty"`
	Rules  map[string]RuleConfig `yaml:"rules,omitempty"`
	Files  FilesConfig           `yaml:"files,omitempty"`
	Output OutputConfig          `yaml:"output,omitempty"`

	// Jobs is the number of parallel workers; 0 means GOMAXPROCS.
	Jobs int `yaml:"jobs,omitempty"`

	LSP LSPConfig `yaml:"lsp,omitempty"`

	// CLI-level options, never read from files.

	Write bool `yaml:"-"`
	Diff  bool `yaml:"-"`
	Check bool `yaml:"-"`
}

// Default file extensions discovered in directories.
const (
	ExtCBS   = ".cbs"
	ExtRisum = ".risum"
)

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Format: FormatConfig{
			IndentSize:             4,
			IndentStyle:            IndentSpace,
			PreserveMarkdown:       Ptr(true),
			AlignArguments:         Ptr(false),
			TrimTrailingWhitespace: Ptr(true),
		},
		Rules: make(map[string]RuleConfig),
		Files: FilesConfig{
			Extensions: []string{ExtCBS, ExtRisum},
			Hidden:     Ptr(false),
		},
		Output: OutputConfig{
			Format:       FormatText,
			Color:        "auto",
			ContextLines: Ptr(1),
		},
		LSP: LSPConfig{
			Completion:          Ptr(true),
			Hover:               Ptr(true),
			SignatureHelp:       Ptr(true),
			DiagnosticsOnChange: Ptr(true),
		},
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Bool dereferences b, returning def when b is nil.
func Bool(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// Int dereferences n, returning def when n is nil.
func Int(n *int, def int) int {
	if n == nil {
		return def
	}
	return *n
}
