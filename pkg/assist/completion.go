package assist

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/funcs"
)

// ItemKind is the kind of a completion item.
type ItemKind int

const (
	ItemFunction ItemKind = iota
	ItemKeyword
)

// CompletionItem is one completion suggestion. InsertText uses snippet
// syntax ($1, ${1:arg}, $0).
type CompletionItem struct {
	Label         string   `json:"label"`
	Detail        string   `json:"detail"`
	Documentation string   `json:"documentation"`
	InsertText    string   `json:"insertText"`
	Kind          ItemKind `json:"kind"`
	SortText      string   `json:"sortText"`
}

// CompletionList is the result of a completion request.
type CompletionList struct {
	Items []CompletionItem `json:"items"`

	// Replace is the span of already typed input the insert text replaces.
	Replace cbs.Span `json:"replace"`
}

var (
	blockFunctions  = []string{"if", "if_pure", "when", "each", "pure", "puredisplay"}
	specialKeywords = []string{"else", "each"}

	highPriority = map[string]bool{
		"char": true, "user": true, "getvar": true, "setvar": true, "random": true,
		"if": true, "when": true, "equal": true, "greater": true, "less": true,
		"calc": true, "time": true, "date": true,
	}
)

// Completer produces completion items from a function registry.
type Completer struct {
	registry *funcs.Registry
}

// NewCompleter creates a completer backed by registry.
func NewCompleter(registry *funcs.Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns suggestions for the cursor at offset, or nil when the
// cursor is not inside an expression or the function name is finished.
func (c *Completer) Complete(text string, offset int) *CompletionList {
	ctx := cbs.ResolveCursorContext(text, offset)
	if ctx == nil || ctx.FunctionName != ctx.RawInput {
		return nil
	}

	var items []CompletionItem
	switch ctx.Marker {
	case cbs.MarkerBlockOpen:
		items = c.blockItems()
	case cbs.MarkerBlockClose:
		items = c.closingItems(text[:ctx.ExpressionStart])
	case cbs.MarkerSpecial:
		items = c.specialItems()
	case cbs.MarkerNone:
		items = c.functionItems()
	}

	items = rankByInput(items, ctx.RawInput)

	end := min(max(offset, 0), len(text))
	return &CompletionList{
		Items:   items,
		Replace: cbs.Span{Start: end - len(ctx.RawInput), End: end},
	}
}

func (c *Completer) functionItems() []CompletionItem {
	var items []CompletionItem
	for _, fn := range c.registry.List() {
		if fn.Kind() == funcs.KindBlock || fn.Kind() == funcs.KindSpecial {
			continue
		}
		items = append(items, functionItem(fn))
	}
	return items
}

func (c *Completer) blockItems() []CompletionItem {
	items := make([]CompletionItem, 0, len(blockFunctions))
	for _, name := range blockFunctions {
		if fn, ok := c.registry.Lookup("#" + name); ok {
			items = append(items, blockItem(fn))
		}
	}
	return items
}

func (c *Completer) specialItems() []CompletionItem {
	items := make([]CompletionItem, 0, len(specialKeywords))
	for _, keyword := range specialKeywords {
		fn, ok := c.registry.Lookup(":" + keyword)
		if !ok {
			continue
		}
		items = append(items, CompletionItem{
			Label:         keyword,
			Detail:        fn.Description,
			Documentation: Documentation(fn),
			InsertText:    keyword + "}}",
			Kind:          ItemKeyword,
			SortText:      "0",
		})
	}
	return items
}

// closingItems suggests a closer for every block still open in before,
// innermost first.
func (c *Completer) closingItems(before string) []CompletionItem {
	res := cbs.Parse(before)

	var open []string
	res.Tree.Walk(func(_ cbs.BlockID, b *cbs.Block, _ int) bool {
		if !b.Closed {
			open = append(open, b.Type)
		}
		return true
	})
	slices.Reverse(open)

	items := make([]CompletionItem, 0, len(open))
	seen := make(map[string]bool)
	for _, name := range open {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		items = append(items, CompletionItem{
			Label:         name,
			Detail:        fmt.Sprintf("Close %s block", name),
			Documentation: fmt.Sprintf("Closes the `{{#%s}}` block.", name),
			InsertText:    name + "}}",
			Kind:          ItemKeyword,
			SortText:      fmt.Sprintf("0_%03d", len(items)),
		})
	}
	return items
}

func functionItem(fn *funcs.Function) CompletionItem {
	label := fn.BaseName()

	insert := label
	if len(fn.Arguments) > 0 {
		insert += "::" + placeholders(fn.Arguments, "::")
	}
	insert += "}}$0"

	return CompletionItem{
		Label:         label,
		Detail:        fn.Description,
		Documentation: Documentation(fn),
		InsertText:    insert,
		Kind:          ItemFunction,
		SortText:      sortText(label),
	}
}

func blockItem(fn *funcs.Function) CompletionItem {
	label := fn.BaseName()

	insert := label
	content := 1
	if len(fn.Arguments) > 0 {
		insert += " " + placeholders(fn.Arguments, " ")
		content = len(fn.Arguments) + 1
	}
	insert += fmt.Sprintf("}}\n${%d:content}\n{{/%s}}$0", content, label)

	return CompletionItem{
		Label:         label,
		Detail:        fn.Description,
		Documentation: Documentation(fn),
		InsertText:    insert,
		Kind:          ItemKeyword,
		SortText:      sortText(label),
	}
}

func placeholders(args []string, sep string) string {
	parts := make([]string, len(args))
	for idx, arg := range args {
		parts[idx] = fmt.Sprintf("${%d:%s}", idx+1, arg)
	}
	return strings.Join(parts, sep)
}

func sortText(label string) string {
	if highPriority[strings.ToLower(label)] {
		return "0_" + label
	}
	return "1_" + label
}

// rankByInput keeps items whose label contains input or whose
// documentation mentions it. Label prefix matches come first, then other
// label matches, then documentation matches; ties fall back to SortText.
func rankByInput(items []CompletionItem, input string) []CompletionItem {
	needle := strings.ToLower(strings.TrimSpace(input))

	rank := func(item CompletionItem) int {
		label := strings.ToLower(item.Label)
		switch {
		case needle == "" || strings.HasPrefix(label, needle):
			return 0
		case strings.Contains(label, needle):
			return 1
		case strings.Contains(strings.ToLower(item.Documentation), needle):
			return 2
		default:
			return -1
		}
	}

	ranks := make(map[string]int, len(items))
	kept := items[:0]
	for _, item := range items {
		r := rank(item)
		if r < 0 {
			continue
		}
		ranks[item.Label] = r
		kept = append(kept, item)
	}

	slices.SortStableFunc(kept, func(a, b CompletionItem) int {
		return cmp.Or(
			cmp.Compare(ranks[a.Label], ranks[b.Label]),
			cmp.Compare(a.SortText, b.SortText),
			cmp.Compare(a.Label, b.Label),
		)
	})
	return kept
}
