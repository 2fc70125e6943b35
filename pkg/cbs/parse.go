package cbs

// Result is the outcome of a full parse. It is always complete, even when
// Errors is non-empty.
type Result struct {
	Tokens []Token      `json:"tokens"`
	Errors []ParseError `json:"errors"`
	Tree   *Tree        `json:"tree"`
}

// Parse tokenizes text and builds its block tree. Tokenizer errors come
// before tree errors in Result.Errors.
func Parse(text string) *Result {
	tokens, tokErrs := Tokenize(text)
	tree, treeErrs := BuildTree(text, tokens)

	errs := make([]ParseError, 0, len(tokErrs)+len(treeErrs))
	errs = append(errs, tokErrs...)
	errs = append(errs, treeErrs...)

	return &Result{Tokens: tokens, Errors: errs, Tree: tree}
}

// HasErrors reports whether any error-severity problem was found.
func (r *Result) HasErrors() bool {
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Blocks returns the top-level blocks in document order.
func (r *Result) Blocks() []*Block {
	blocks := make([]*Block, 0, len(r.Tree.Roots))
	for _, id := range r.Tree.Roots {
		blocks = append(blocks, r.Tree.Block(id))
	}
	return blocks
}

// FoldingRange is a foldable region in zero-based lines.
type FoldingRange struct {
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Type      string `json:"type"`
}

// FoldingRanges returns one range per block whose opener and closer sit on
// different lines, in document order.
func (r *Result) FoldingRanges() []FoldingRange {
	var ranges []FoldingRange
	r.Tree.Walk(func(_ BlockID, b *Block, _ int) bool {
		if b.EndLine > b.Line {
			ranges = append(ranges, FoldingRange{StartLine: b.Line, EndLine: b.EndLine, Type: b.Type})
		}
		return true
	})
	return ranges
}
