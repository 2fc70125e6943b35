package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocbs/pkg/assist"
	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/fsutil"
	"github.com/yaklabco/gocbs/pkg/funcs"
)

// ErrInvalidPosition is returned when the requested cursor lies outside
// the document.
var ErrInvalidPosition = errors.New("invalid position")

type contextFlags struct {
	offset    int
	line      int
	column    int
	signature bool
	hover     bool
	brackets  bool
}

// contextOutput is the JSON document printed by "gocbs context".
type contextOutput struct {
	File     string             `json:"file"`
	Position cbs.Position       `json:"position"`
	Cursor   *cbs.CursorContext `json:"cursor"`

	Call      *cbs.FunctionCallContext `json:"call,omitempty"`
	Signature *assist.SignatureHelp    `json:"signature,omitempty"`
	Hover     *assist.HoverResult      `json:"hover,omitempty"`
	Brackets  *cbs.BracketPair         `json:"brackets,omitempty"`
}

func newContextCommand() *cobra.Command {
	flags := &contextFlags{}

	cmd := &cobra.Command{
		Use:   "context FILE",
		Short: "Print the cursor context at a position as JSON",
		Long: `Resolve what an editor would see at a cursor position: whether the
cursor is inside an expression, the marker and function name being typed,
and optionally the active call, hover documentation and enclosing bracket
pair. Offsets, lines and columns are zero-based bytes. Use "-" to read
standard input.

Examples:
  gocbs context card.cbs --offset 42
  gocbs context card.cbs --line 3 --column 10 --signature --hover
  echo '{{getvar::x}}' | gocbs context - --offset 4 --brackets`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContext(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.offset, "offset", -1, "byte offset of the cursor")
	cmd.Flags().IntVar(&flags.line, "line", -1, "line of the cursor (with --column)")
	cmd.Flags().IntVar(&flags.column, "column", 0, "byte column of the cursor (with --line)")
	cmd.Flags().BoolVar(&flags.signature, "signature", false, "include the active function call and signature help")
	cmd.Flags().BoolVar(&flags.hover, "hover", false, "include hover documentation")
	cmd.Flags().BoolVar(&flags.brackets, "brackets", false, "include the innermost enclosing bracket pair")
	cmd.MarkFlagsMutuallyExclusive("offset", "line")
	cmd.MarkFlagsOneRequired("offset", "line")

	return cmd
}

func runContext(cmd *cobra.Command, path string, flags *contextFlags) error {
	content, _, err := fsutil.ReadInput(cmd.Context(), path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	text := string(content)
	lines := cbs.NewLineIndex(text)

	offset := flags.offset
	if flags.line >= 0 {
		var ok bool
		offset, ok = lines.Offset(flags.line, flags.column)
		if !ok {
			return fmt.Errorf("%w: line %d column %d", ErrInvalidPosition, flags.line, flags.column)
		}
	}
	if offset < 0 || offset > len(text) {
		return fmt.Errorf("%w: offset %d outside document of %d bytes", ErrInvalidPosition, offset, len(text))
	}

	name := path
	if path == fsutil.StdinPath {
		name = stdinName
	}

	out := contextOutput{
		File:     name,
		Position: lines.Position(offset),
		Cursor:   cbs.ResolveCursorContext(text, offset),
	}
	if out.Cursor == nil {
		out.Cursor = &cbs.CursorContext{}
	}

	registry := funcs.Default()
	if flags.signature {
		out.Call = cbs.ResolveFunctionCall(text, offset)
		out.Signature = assist.NewSigner(registry).SignatureHelp(text, offset)
	}
	if flags.hover {
		out.Hover = assist.NewHoverer(registry).Hover(text, offset)
	}
	if flags.brackets {
		if pair, ok := cbs.FindBrackets(text).PairAt(offset); ok {
			out.Brackets = &pair
		}
	}

	return writeJSON(cmd.OutOrStdout(), out)
}
