package cli

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocbs/internal/ui/pretty"
	"github.com/yaklabco/gocbs/pkg/assist"
	"github.com/yaklabco/gocbs/pkg/funcs"
)

// ErrUnknownFunction is returned by "functions show" for names that are
// not in the registry.
var ErrUnknownFunction = errors.New("unknown function")

type functionsFlags struct {
	format   string
	category string
}

func newFunctionsCommand(gflags *globalFlags) *cobra.Command {
	flags := &functionsFlags{}

	cmd := &cobra.Command{
		Use:     "functions",
		Aliases: []string{"funcs"},
		Short:   "Browse the CBS function registry",
		Long: `List the functions known to completion, hover and signature help, or
show the documentation for one of them.

Examples:
  gocbs functions                 # List every function by category
  gocbs functions --category Math # List one category
  gocbs functions show getvar     # Show documentation for getvar
  gocbs functions show else       # Names also find :else and #else`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunctionsList(cmd, gflags, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.category, "category", "", "only list functions in this category")

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunctionsList(cmd, gflags, flags)
		},
	}
	list.Flags().StringVar(&flags.category, "category", "", "only list functions in this category")

	show := &cobra.Command{
		Use:   "show NAME",
		Short: "Show documentation for a function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunctionsShow(cmd, gflags, flags, args[0])
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func runFunctionsList(cmd *cobra.Command, gflags *globalFlags, flags *functionsFlags) error {
	registry := funcs.Default()

	var selected []*funcs.Function
	for _, fn := range registry.List() {
		if flags.category == "" || strings.EqualFold(fn.Category, flags.category) {
			selected = append(selected, fn)
		}
	}

	out := cmd.OutOrStdout()
	switch flags.format {
	case formatJSON:
		return writeJSON(out, selected)
	case formatText:
	default:
		return fmt.Errorf("invalid format %q: must be text or json", flags.format)
	}

	slices.SortStableFunc(selected, func(a, b *funcs.Function) int {
		return cmp.Compare(a.Category, b.Category)
	})

	styles := pretty.NewStyles(pretty.IsColorEnabled(gflags.color, out))
	width := 0
	for _, fn := range selected {
		width = max(width, len(fn.Name))
	}

	category := ""
	for i, fn := range selected {
		if fn.Category != category {
			if i > 0 {
				fmt.Fprintln(out)
			}
			category = fn.Category
			fmt.Fprintln(out, styles.Bold.Render(category))
		}
		fmt.Fprintf(out, "  %s  %s\n",
			styles.Code.Render(rpad(fn.Name, width)),
			styles.Dim.Render(firstLine(fn.Description)))
	}
	return nil
}

func runFunctionsShow(cmd *cobra.Command, gflags *globalFlags, flags *functionsFlags, name string) error {
	fn, ok := funcs.Default().Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}

	out := cmd.OutOrStdout()
	switch flags.format {
	case formatJSON:
		return writeJSON(out, fn)
	case formatText:
	default:
		return fmt.Errorf("invalid format %q: must be text or json", flags.format)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(gflags.color, out))
	fmt.Fprint(out, styles.RenderMarkdown(assist.Documentation(fn)))
	if fn.Category != "" {
		fmt.Fprintf(out, "\n%s\n", styles.Dim.Render("Category: "+fn.Category))
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
