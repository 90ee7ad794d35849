package curriculum

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is one markdown heading found in the document.
type Heading struct {
	Level int
	Text  string

	// Line is 1-based.
	Line int
}

// Outline walks the markdown AST and returns every heading in order.
// It is used for diagnostics only; section and program detection stay
// line based.
func Outline(doc []byte) []Heading {
	root := goldmark.New().Parser().Parse(text.NewReader(doc))

	var headings []Heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		line := 0
		if h.Lines().Len() > 0 {
			line = bytes.Count(doc[:h.Lines().At(0).Start], []byte("\n")) + 1
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(inlineText(h, doc)),
			Line:  line,
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(inlineText(c, source))
		}
	}
	return b.String()
}
