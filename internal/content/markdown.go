package content

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// WordsPerMinute is the reading speed used by ReadingTime.
const WordsPerMinute = 200

var (
	engine = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	htmlTagRe = regexp.MustCompile(`<[^>]*>`)
)

// RenderHTML converts a post body to HTML. Raw HTML such as Callout blocks is
// passed through.
func RenderHTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("content: render: %w", err)
	}
	return buf.String(), nil
}

// WordCount counts the words a reader sees: link targets and markup are not
// words, code and callout text are.
func WordCount(body string) int {
	src := []byte(body)
	doc := engine.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})

	return len(strings.Fields(htmlTagRe.ReplaceAllString(buf.String(), " ")))
}

// ReadingTime estimates reading time, e.g. "3 min read".
func ReadingTime(body string) string {
	minutes := int(math.Ceil(float64(WordCount(body)) / WordsPerMinute))
	return fmt.Sprintf("%d min read", minutes)
}
