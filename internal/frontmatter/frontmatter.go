// Package frontmatter reads the loose key:value header of vault notes and
// writes the normalized header of published posts.
package frontmatter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var headerRe = regexp.MustCompile(`^---\s*\n([\s\S]*?)\n---\s*\n`)

// Field is an unrecognized header entry kept verbatim.
type Field struct {
	Key   string
	Value string
}

// Frontmatter is the typed header record. Tags is always stored as a
// comma-joined string.
type Frontmatter struct {
	Title       string  `json:"title"`
	PublishedAt string  `json:"publishedAt"`
	Summary     string  `json:"summary"`
	Tags        string  `json:"tags"`
	Slug        string  `json:"slug,omitempty"`
	Image       string  `json:"image,omitempty"`
	Draft       bool    `json:"draft,omitempty"`
	Extra       []Field `json:"-"`
}

// WithSlug returns a copy of fm with Slug set.
func (fm Frontmatter) WithSlug(slug string) Frontmatter {
	fm.Slug = slug
	fm.Extra = append([]Field(nil), fm.Extra...)
	return fm
}

// TagList splits the comma-joined tags into trimmed, non-empty entries.
func (fm Frontmatter) TagList() []string {
	return SplitTags(fm.Tags)
}

// Parse splits raw into its header record and body. A missing or unterminated
// header is not an error: the record is empty and the whole input is body.
func Parse(raw string) (Frontmatter, string) {
	var fm Frontmatter
	loc := headerRe.FindStringSubmatchIndex(raw)
	if loc == nil {
		return fm, raw
	}
	return ParseHeader(raw[loc[2]:loc[3]]), raw[loc[1]:]
}

// ParseHeader decodes the lines between the fences. It never fails: lines
// without a colon are ignored.
func ParseHeader(block string) Frontmatter {
	var fm Frontmatter

	// Aliases resolve after the scan so that the canonical key wins
	// regardless of line order.
	var date, description string
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := splitLine(line)
		if !ok {
			continue
		}
		switch key {
		case "title":
			fm.Title = value
		case "publishedAt":
			fm.PublishedAt = value
		case "date":
			date = value
		case "summary":
			fm.Summary = value
		case "description":
			description = value
		case "tags":
			fm.Tags = ParseTags(value)
		case "slug":
			fm.Slug = value
		case "image":
			fm.Image = value
		case "draft":
			switch value {
			case "true":
				fm.Draft = true
			case "false":
				fm.Draft = false
			default:
				fm.Extra = append(fm.Extra, Field{Key: key, Value: value})
			}
		default:
			fm.Extra = append(fm.Extra, Field{Key: key, Value: value})
		}
	}
	if fm.PublishedAt == "" {
		fm.PublishedAt = date
	}
	if fm.Summary == "" {
		fm.Summary = description
	}
	return fm
}

func splitLine(line string) (string, string, bool) {
	line = strings.TrimRight(line, "\r")
	i := strings.Index(line, ":")
	if i < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:i])
	if key == "" {
		return "", "", false
	}
	return key, unquote(strings.TrimSpace(line[i+1:])), true
}

// unquote strips one pair of matching surrounding quotes.
func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// ParseTags normalizes a raw tags value to comma-joined text. Bracketed
// literals go through parseTagArray first and fall back to stripTagLiteral.
func ParseTags(value string) string {
	if !strings.HasPrefix(value, "[") {
		return value
	}
	if tags, ok := parseTagArray(value); ok {
		return strings.Join(tags, ", ")
	}
	return stripTagLiteral(value)
}

// parseTagArray decodes a JSON-like array literal; single quotes are accepted.
func parseTagArray(value string) ([]string, bool) {
	var items []any
	if err := json.Unmarshal([]byte(strings.ReplaceAll(value, "'", `"`)), &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case string:
			out = append(out, v)
		case nil:
			// null items are dropped rather than kept as empty entries.
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out, true
}

// stripTagLiteral drops bracket and quote characters, leaving comma text.
func stripTagLiteral(value string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '"', '\'':
			return -1
		}
		return r
	}, value)
}

// SplitTags splits comma-joined tags into trimmed, non-empty entries.
func SplitTags(tags string) []string {
	var out []string
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Serialize renders the normalized header. Only non-empty fields are written,
// in the order title, publishedAt, summary, tags, image, slug.
func Serialize(fm Frontmatter) string {
	fields := []Field{
		{"title", fm.Title},
		{"publishedAt", fm.PublishedAt},
		{"summary", fm.Summary},
		{"tags", fm.Tags},
		{"image", fm.Image},
		{"slug", fm.Slug},
	}
	var b strings.Builder
	b.WriteString("---\n")
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: \"%s\"\n", f.Key, f.Value)
	}
	b.WriteString("---")
	return b.String()
}
