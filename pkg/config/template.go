package config

import (
	"bytes"
	"fmt"
	"strings"
)

// RuleInfo describes a rule for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Severity    Severity
	Enabled     bool
}

// GenerateTemplate returns a commented project configuration file listing
// every rule in rules.
func GenerateTemplate(rules []RuleInfo) []byte {
	var buf bytes.Buffer

	buf.WriteString(`# gocbs configuration
# Place this file at the project root as .gocbs.yml.

format:
  # Spaces per nesting level when indent_style is "space".
  indent_size: 4
  # "space" or "tab".
  indent_style: space
  # Leave markdown heading lines (starting with '#') as written.
  preserve_markdown: true
  # Write "a :: b" instead of "a::b".
  align_arguments: false
  trim_trailing_whitespace: true

files:
  extensions:
    - .cbs
    - .risum
  # Glob patterns to skip.
  # ignore:
  #   - "vendor/**"
  hidden: false

output:
  # text, json, sarif, diff or summary
  format: text
  # auto, always or never
  color: auto
  context_lines: 1

# Number of parallel workers (0 = one per CPU).
jobs: 0

lsp:
  completion: true
  hover: true
  signature_help: true
  diagnostics_on_change: true
`)

	if len(rules) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("\n# Per-rule overrides. Keys may be rule IDs or names.\nrules:\n")
	for _, r := range rules {
		fmt.Fprintf(&buf, "  # %s: %s\n", r.Name, strings.TrimSpace(r.Description))
		fmt.Fprintf(&buf, "  %s:\n", r.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", r.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", r.Severity)
	}

	return buf.Bytes()
}
