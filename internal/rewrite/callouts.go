package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultEmoji is used for callout types missing from the emoji table.
const DefaultEmoji = "📝"

var calloutEmojis = map[string]string{
	"note":      "📝",
	"tip":       "💡",
	"info":      "ℹ️",
	"warning":   "⚠️",
	"danger":    "🚨",
	"error":     "❌",
	"success":   "✅",
	"question":  "❓",
	"quote":     "💬",
	"example":   "📋",
	"bug":       "🐛",
	"abstract":  "📄",
	"todo":      "☑️",
	"important": "❗",
	"caution":   "⚠️",
}

var (
	calloutOpenRe = regexp.MustCompile(`^>\s*\[!(\w+)\]\s*(.*)$`)
	quotePrefixRe = regexp.MustCompile(`^>\s?`)
)

// CalloutEmoji returns the emoji for a callout type (case-insensitive).
func CalloutEmoji(kind string) string {
	if e, ok := calloutEmojis[strings.ToLower(kind)]; ok {
		return e
	}
	return DefaultEmoji
}

type lineClass int

const (
	lineOther lineClass = iota
	lineOpen
	lineContinue
)

// callout is the buffered state of an open block.
type callout struct {
	kind  string
	title string
	lines []string
}

func (c *callout) render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<Callout emoji=\"%s\">\n", CalloutEmoji(c.kind))
	if c.title != "" {
		fmt.Fprintf(&b, "**%s**\n", c.title)
	}
	b.WriteString(strings.TrimSpace(strings.Join(c.lines, "\n")))
	b.WriteString("\n</Callout>")
	return b.String()
}

// Callouts rewrites "> [!type] title" blockquotes into Callout blocks.
//
// The scanner has two states: outside a callout, and inside one with a
// buffered type, title and body. An open line always starts a new block
// (flushing any current one), a ">" line extends the current block, and any
// other line closes it. End of input flushes.
func Callouts(body string) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	var cur *callout

	flush := func() {
		if cur != nil {
			out = append(out, cur.render())
			cur = nil
		}
	}

	for _, line := range lines {
		class, m := classify(line)
		switch {
		case class == lineOpen:
			flush()
			cur = &callout{kind: strings.ToLower(m[1]), title: strings.TrimSpace(m[2])}
		case class == lineContinue && cur != nil:
			cur.lines = append(cur.lines, quotePrefixRe.ReplaceAllString(line, ""))
		default:
			flush()
			out = append(out, line)
		}
	}
	flush()

	return strings.Join(out, "\n")
}

func classify(line string) (lineClass, []string) {
	if m := calloutOpenRe.FindStringSubmatch(line); m != nil {
		return lineOpen, m
	}
	if strings.HasPrefix(line, ">") {
		return lineContinue, nil
	}
	return lineOther, nil
}
