package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gocbs/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style
}

// NewHelpStyles derives help styles from the diagnostic palette so help
// and check output share colors.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	base := pretty.NewStyles(colorEnabled)
	if !colorEnabled {
		return &HelpStyles{
			Command:     base.Bold,
			Heading:     base.Bold,
			Subcommand:  base.Code,
			Flag:        base.Code,
			Description: base.Message,
			Example:     base.Dim,
			Dim:         base.Dim,
		}
	}
	return &HelpStyles{
		Command:     base.Code.Bold(true),
		Heading:     base.Warning,
		Subcommand:  base.Success.UnsetBold(),
		Flag:        base.Info.UnsetBold(),
		Description: base.Message,
		Example:     base.Dim,
		Dim:         base.Dim,
	}
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{
		styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer)),
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]
{{- end}}
{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ description .Short }}
{{- end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":     h.styles.Command.Render,
		"heading":     h.styles.Heading.Render,
		"subcommand":  h.styles.Subcommand.Render,
		"description": h.styles.Description.Render,
		"example":     h.styles.Example.Render,
		"dim":         h.styles.Dim.Render,
		"flags":       h.flagUsages,
		"rpad":        rpad,
		"join":        strings.Join,
		"trimRight":   trimTrailingWhitespace,
	}
}

// flagUsages renders one line per visible flag, aligning descriptions.
func (h *HelpFormatter) flagUsages(set *pflag.FlagSet) string {
	type row struct {
		plain  string
		styled string
		usage  string
	}

	var rows []row
	width := 0
	set.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		var plain, styled strings.Builder
		if f.Shorthand != "" && f.ShorthandDeprecated == "" {
			short := "-" + f.Shorthand + ","
			plain.WriteString(short + " ")
			styled.WriteString(h.styles.Flag.Render("-"+f.Shorthand) + ", ")
		} else {
			plain.WriteString("    ")
			styled.WriteString("    ")
		}
		plain.WriteString("--" + f.Name)
		styled.WriteString(h.styles.Flag.Render("--" + f.Name))

		varName, usage := pflag.UnquoteUsage(f)
		if varName != "" {
			plain.WriteString(" " + varName)
			styled.WriteString(" " + h.styles.Dim.Render(varName))
		}
		if def := defaultValue(f); def != "" {
			usage += " " + h.styles.Dim.Render("(default "+def+")")
		}

		width = max(width, plain.Len())
		rows = append(rows, row{plain: plain.String(), styled: styled.String(), usage: usage})
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		pad := strings.Repeat(" ", width-len(r.plain)+3)
		lines = append(lines, "  "+r.styled+pad+h.styles.Description.Render(r.usage))
	}
	return strings.Join(lines, "\n")
}

// defaultValue returns the flag default worth showing, or "".
func defaultValue(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "false", "0", "[]", "-1":
		return ""
	}
	if f.Value.Type() == "string" {
		return fmt.Sprintf("%q", f.DefValue)
	}
	return f.DefValue
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	usage := template.Must(template.New("usage").Funcs(h.funcs()).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(h.funcs()).Parse(helpTemplate))

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		if err := usage.Execute(command.OutOrStderr(), command); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := help.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
