package configloader

import "github.com/yaklabco/gocbs/pkg/config"

// merge combines two configurations, with override taking precedence.
//   - Scalars: override wins when non-zero.
//   - Pointers: override wins when non-nil.
//   - Slices: override replaces base when non-nil.
//   - Rules: deep merged per rule.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	mergeFormat(&result.Format, override.Format)

	if override.Files.Extensions != nil {
		result.Files.Extensions = append([]string(nil), override.Files.Extensions...)
	}
	if override.Files.Ignore != nil {
		result.Files.Ignore = append([]string(nil), override.Files.Ignore...)
	}
	pick(&result.Files.Hidden, override.Files.Hidden)

	if override.Output.Format != "" {
		result.Output.Format = override.Output.Format
	}
	if override.Output.Color != "" {
		result.Output.Color = override.Output.Color
	}
	pick(&result.Output.ContextLines, override.Output.ContextLines)

	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	pick(&result.LSP.Completion, override.LSP.Completion)
	pick(&result.LSP.Hover, override.LSP.Hover)
	pick(&result.LSP.SignatureHelp, override.LSP.SignatureHelp)
	pick(&result.LSP.DiagnosticsOnChange, override.LSP.DiagnosticsOnChange)

	// CLI-only switches can only be turned on.
	result.Write = result.Write || override.Write
	result.Diff = result.Diff || override.Diff
	result.Check = result.Check || override.Check

	result.Rules = mergeRules(result.Rules, override.Rules)

	return result
}

func mergeFormat(dst *config.FormatConfig, override config.FormatConfig) {
	if override.IndentSize != 0 {
		dst.IndentSize = override.IndentSize
	}
	if override.IndentStyle != "" {
		dst.IndentStyle = override.IndentStyle
	}
	pick(&dst.PreserveMarkdown, override.PreserveMarkdown)
	pick(&dst.AlignArguments, override.AlignArguments)
	pick(&dst.TrimTrailingWhitespace, override.TrimTrailingWhitespace)
}

func pick[T any](dst **T, override *T) {
	if override != nil {
		v := *override
		*dst = &v
	}
}

// mergeRules deep merges rule configurations, override winning per field.
func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	result := make(map[string]config.RuleConfig, len(base)+len(override))
	for key, val := range base {
		result[key] = val
	}
	for key, val := range override {
		result[key] = mergeRuleConfig(result[key], val)
	}
	return result
}

func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := base
	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}
	if override.Severity != nil {
		result.Severity = override.Severity
	}
	return result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
