package cbs

// BlockID indexes a Block within its Tree.
type BlockID int

// NoBlock is the parent of a top-level block.
const NoBlock BlockID = -1

// Block is a matched (or unclosed) {{#name}}...{{/name}} pair.
type Block struct {
	// Type is the name from the opening tag.
	Type string `json:"type"`

	// Span runs from the opener's "{{" to just after the closer's "}}",
	// or to the end of the document for an unclosed block.
	Span Span `json:"span"`

	// Line and Column locate the opener.
	Line   int `json:"line"`
	Column int `json:"column"`

	// EndLine is the line of the closer, or the last line for an
	// unclosed block.
	EndLine int `json:"endLine"`

	// Closed is false when the document ended before a closer.
	Closed bool `json:"closed"`

	// Children are owned by this block, in document order.
	Children []BlockID `json:"children,omitempty"`

	// Parent is a navigational back-reference; NoBlock for roots.
	Parent BlockID `json:"parent"`
}

// Tree is an arena of blocks. Blocks refer to each other by BlockID.
type Tree struct {
	Blocks []Block   `json:"blocks"`
	Roots  []BlockID `json:"roots"`
}

// Block returns the block with the given id.
func (t *Tree) Block(id BlockID) *Block {
	if t == nil || id < 0 || int(id) >= len(t.Blocks) {
		return nil
	}
	return &t.Blocks[id]
}

// Parent returns the enclosing block of id, or nil for a root.
func (t *Tree) Parent(id BlockID) *Block {
	b := t.Block(id)
	if b == nil {
		return nil
	}
	return t.Block(b.Parent)
}

// Depth returns the nesting depth of id; roots have depth 0.
func (t *Tree) Depth(id BlockID) int {
	depth := 0
	for b := t.Block(id); b != nil && b.Parent != NoBlock; b = t.Block(b.Parent) {
		depth++
	}
	return depth
}

// Walk visits every block depth-first in document order. Returning false
// from fn skips the block's children.
func (t *Tree) Walk(fn func(id BlockID, b *Block, depth int) bool) {
	if t == nil {
		return
	}
	var visit func(ids []BlockID, depth int)
	visit = func(ids []BlockID, depth int) {
		for _, id := range ids {
			b := &t.Blocks[id]
			if fn(id, b, depth) {
				visit(b.Children, depth+1)
			}
		}
	}
	visit(t.Roots, 0)
}

// Innermost returns the deepest block whose span contains offset.
func (t *Tree) Innermost(offset int) (BlockID, bool) {
	found := NoBlock
	t.Walk(func(id BlockID, b *Block, _ int) bool {
		if !b.Span.Contains(offset) {
			return false
		}
		found = id
		return true
	})
	return found, found != NoBlock
}

// BuildTree reconstructs block nesting from tokens using a stack of open
// blocks. Closers always pop the innermost open block; a name that
// disagrees is reported but does not change the structure. text is the
// source the tokens came from and is used for end-of-document spans.
func BuildTree(text string, tokens []Token) (*Tree, []ParseError) {
	tree := &Tree{}
	var (
		stack []BlockID
		errs  []ParseError
	)
	lines := NewLineIndex(text)

	for _, tok := range tokens {
		switch tok.Kind {
		case BlockOpen:
			id := BlockID(len(tree.Blocks))
			parent := NoBlock
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}

			tree.Blocks = append(tree.Blocks, Block{
				Type:   tok.Value,
				Span:   tok.Span,
				Line:   tok.Line,
				Column: tok.Column,
				Parent: parent,
			})

			if parent == NoBlock {
				tree.Roots = append(tree.Roots, id)
			} else {
				tree.Blocks[parent].Children = append(tree.Blocks[parent].Children, id)
			}
			stack = append(stack, id)

		case BlockClose:
			pos := Position{Offset: tok.Span.Start, Line: tok.Line, Column: tok.Column}
			if len(stack) == 0 {
				errs = append(errs, newParseError(ErrUnexpectedClose, tok.Span, pos,
					"Unexpected block close tag: {{/%s}}", tok.Value))
				continue
			}

			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			b := &tree.Blocks[id]
			b.Span.End = tok.Span.End
			b.EndLine = tok.Line
			b.Closed = true

			if tok.Value != "" && tok.Value != b.Type {
				errs = append(errs, newParseError(ErrBlockMismatch, tok.Span, pos,
					"Block mismatch: expected {{/%s}} but got {{/%s}}", b.Type, tok.Value))
			}

		case FunctionCall, MathExpression:
		}
	}

	endLine := lines.LineCount() - 1
	for _, id := range stack {
		b := &tree.Blocks[id]
		b.Span.End = len(text)
		b.EndLine = endLine
		errs = append(errs, newParseError(ErrUnclosedBlock, Span{Start: b.Span.Start, End: len(text)},
			Position{Offset: b.Span.Start, Line: b.Line, Column: b.Column},
			"Unclosed block: {{#%s}}", b.Type))
	}

	return tree, errs
}
