package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocbs/internal/logging"
	"github.com/yaklabco/gocbs/pkg/lint"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Enabled     bool   `json:"enabled"`
}

func newRulesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List check rules",
		Long: `List the rules applied by "gocbs check" with their IDs, names, default
severity and whether they are enabled by default. Rules can be configured
by ID or name in the "rules" section of the configuration file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules := lint.DefaultRegistry.Rules()

			switch format {
			case formatJSON:
				return writeJSON(cmd.OutOrStdout(), ruleInfos(rules))
			case formatText:
			default:
				return fmt.Errorf("invalid format %q: must be text or json", format)
			}

			logger := logging.NewInteractive()
			logger.Info("available rules")

			for _, rule := range rules {
				enabled := "yes"
				if !rule.DefaultEnabled() {
					enabled = "no"
				}
				logger.Info(rule.ID()+"/"+rule.Name(),
					logging.FieldSeverity, rule.DefaultSeverity(),
					"enabled", enabled,
					logging.FieldDescription, rule.Description(),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json")

	return cmd
}

func ruleInfos(rules []lint.Rule) []ruleInfo {
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Severity:    string(rule.DefaultSeverity()),
			Enabled:     rule.DefaultEnabled(),
		})
	}
	return infos
}
