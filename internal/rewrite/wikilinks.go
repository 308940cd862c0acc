package rewrite

import (
	"regexp"
	"strings"
)

var wikilinkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)

// Wikilinks rewrites [[Page]] and [[Page|Display]] into links under
// PostPrefix. Image embeds are masked first so a "![[...]]" that survived the
// image pass is never turned into a page link.
func Wikilinks(body string) string {
	var masked []span
	for _, m := range embedSpans(body) {
		masked = append(masked, m.span)
	}

	var keep []match
	for _, m := range findSpans(wikilinkRe, body) {
		if overlapsAny(m.span, masked) {
			continue
		}
		keep = append(keep, m)
	}

	return replaceSpans(body, keep, func(m []string) string {
		page := strings.TrimSpace(m[1])
		display := strings.TrimSpace(m[2])
		if display == "" {
			display = page
		}
		return "[" + display + "](" + PostPrefix + Slugify(page) + ")"
	})
}
