// Package assist implements the editor features built on the CBS core:
// completion, hover, and signature help.
package assist

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gocbs/pkg/funcs"
)

// Documentation renders a function as markdown: name, description,
// arguments, example, and aliases.
func Documentation(fn *funcs.Function) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "**%s**\n\n", fn.Name)
	sb.WriteString(fn.Description)
	sb.WriteString("\n\n")

	if len(fn.Arguments) > 0 {
		sb.WriteString("**Arguments**:\n")
		for _, arg := range fn.Arguments {
			fmt.Fprintf(&sb, "- `%s`\n", arg)
		}
		sb.WriteString("\n")
	}

	if fn.Example != "" {
		fmt.Fprintf(&sb, "**Example**: `%s`\n\n", fn.Example)
	}

	if len(fn.Aliases) > 0 {
		fmt.Fprintf(&sb, "**Aliases**: %s\n", strings.Join(fn.Aliases, ", "))
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

var parameterDocs = map[string]string{
	"name":        "Name of the variable or item",
	"value":       "Value to set",
	"string":      "String value",
	"target":      "String to find",
	"replacement": "Replacement string",
	"array":       "Array or list",
	"index":       "Array index, starting at 0",
	"condition":   "Condition; 1 or true is true",
	"expression":  "Math expression",
	"format":      "Date/time format string",
	"timestamp":   "Unix timestamp",
	"a":           "First value",
	"b":           "Second value",
	"delimiter":   "Delimiter string",
	"arg1":        "First argument",
	"arg2":        "Second argument",
	"arg3":        "Third argument",
	"number":      "Numeric value",
	"min":         "Minimum",
	"max":         "Maximum",
	"start":       "Start position",
	"end":         "End position",
	"key":         "Key name",
	"prefix":      "Prefix string",
	"suffix":      "Suffix string",
	"substring":   "Substring",
	"base":        "Base",
	"exponent":    "Exponent",
	"decimals":    "Number of decimal places",
	"NdM":         "Dice notation, for example 2d6",
	"hex":         "Hexadecimal value",
	"code":        "Unicode code point",
	"size":        "Size",
	"label":       "Label text",
	"action":      "Action to run",
	"text":        "Text content",
	"operator":    "Operator (and, or, is, not, ...)",
	"namespace":   "Namespace or module name",
	"type":        "Type or kind",
	"dict":        "Dictionary or object",
	"json":        "JSON data",
	"key1":        "First key",
	"key2":        "Second key",
}

// ParameterDoc returns a short description for a parameter name.
func ParameterDoc(param string) string {
	if doc, ok := parameterDocs[strings.TrimSuffix(param, "?")]; ok {
		return doc
	}
	return param + " argument"
}
