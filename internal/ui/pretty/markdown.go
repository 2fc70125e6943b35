package pretty

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// markdown is shared; goldmark parsers are safe for concurrent use.
//
//nolint:gochecknoglobals // Stateless parser instance.
var markdown = goldmark.New()

// RenderMarkdown renders CommonMark source as terminal text: headings and
// strong emphasis in bold, code in the code style, lists as "- " items.
// Blocks are separated by blank lines.
func (s *Styles) RenderMarkdown(source string) string {
	src := []byte(source)
	doc := markdown.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	r := &mdRenderer{styles: s, src: src}
	blocks := r.blocks(doc, "")
	return strings.Join(blocks, "\n\n") + "\n"
}

type mdRenderer struct {
	styles *Styles
	src    []byte
}

// blocks renders each block child of parent, prefixing every line with
// indent.
func (r *mdRenderer) blocks(parent ast.Node, indent string) []string {
	var out []string
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if rendered := r.block(child, indent); rendered != "" {
			out = append(out, rendered)
		}
	}
	return out
}

func (r *mdRenderer) block(node ast.Node, indent string) string {
	switch n := node.(type) {
	case *ast.Heading:
		return indent + r.styles.Bold.Render(r.inline(n))
	case *ast.Paragraph, *ast.TextBlock:
		return indentLines(r.inline(n), indent)
	case *ast.List:
		return r.list(n, indent)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var lines []string
		segments := n.Lines()
		for i := range segments.Len() {
			seg := segments.At(i)
			line := strings.TrimRight(string(seg.Value(r.src)), "\r\n")
			lines = append(lines, indent+"    "+r.styles.Code.Render(line))
		}
		return strings.Join(lines, "\n")
	case *ast.ThematicBreak:
		return indent + r.styles.Dim.Render("---")
	case *ast.Blockquote:
		return strings.Join(r.blocks(n, indent+"| "), "\n")
	default:
		return strings.Join(r.blocks(n, indent), "\n\n")
	}
}

func (r *mdRenderer) list(list *ast.List, indent string) string {
	var items []string
	number := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if list.IsOrdered() {
			marker = strconv.Itoa(number) + ". "
			number++
		}

		body := strings.Join(r.blocks(item, ""), "\n")
		lines := strings.Split(body, "\n")
		pad := strings.Repeat(" ", len(marker))
		for i, line := range lines {
			if i == 0 {
				lines[i] = indent + marker + line
			} else {
				lines[i] = indent + pad + line
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	return strings.Join(items, "\n")
}

func (r *mdRenderer) inline(parent ast.Node) string {
	var sb strings.Builder
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(r.src))
			switch {
			case n.HardLineBreak():
				sb.WriteByte('\n')
			case n.SoftLineBreak():
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		case *ast.CodeSpan:
			sb.WriteString(r.styles.Code.Render(r.inline(n)))
		case *ast.Emphasis:
			if n.Level >= 2 {
				sb.WriteString(r.styles.Bold.Render(r.inline(n)))
			} else {
				sb.WriteString(r.inline(n))
			}
		case *ast.Link:
			label := r.inline(n)
			sb.WriteString(label)
			if dest := string(n.Destination); dest != "" && dest != label {
				sb.WriteString(r.styles.Dim.Render(" (" + dest + ")"))
			}
		case *ast.AutoLink:
			sb.Write(n.URL(r.src))
		case *ast.RawHTML:
			continue
		default:
			sb.WriteString(r.inline(n))
		}
	}
	return sb.String()
}

func indentLines(s, indent string) string {
	if indent == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
