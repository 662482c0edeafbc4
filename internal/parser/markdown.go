package parser

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/clausetree/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Heading markup is
// dropped: the numbering in the heading text carries the structure.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	b := newSourceBuilder(trimExt(filename, ".md", ".markdown"))
	// Ordered list markers are not part of the item text; clause numbers
	// written as "1. Scope" would otherwise be lost.
	var marker string
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindListItem:
			if list, ok := n.Parent().(*ast.List); ok && list.IsOrdered() {
				marker = fmt.Sprintf("%d%c ", list.Start+siblingIndex(n), list.Marker)
			}
		case ast.KindHeading, ast.KindParagraph, ast.KindTextBlock:
			b.add(marker+inlineText(n, src), 1)
			marker = ""
			return ast.WalkSkipChildren, nil
		case ast.KindCodeBlock, ast.KindFencedCodeBlock:
			b.add(blockLines(n, src), 1)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return b.build(), nil
}

// inlineText gets the text of a block's inline children, one output line
// per source line.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			// Emphasis, links and other nested inlines.
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

func siblingIndex(n ast.Node) int {
	i := 0
	for c := n.PreviousSibling(); c != nil; c = c.PreviousSibling() {
		i++
	}
	return i
}

// blockLines returns the raw lines of a code block.
func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}
