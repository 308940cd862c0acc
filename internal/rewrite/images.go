package rewrite

import (
	"path"
	"regexp"
	"strings"
)

var (
	embedRe     = regexp.MustCompile(`!\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)
	mdImageRe   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	extRe       = regexp.MustCompile(`\.[^.]+$`)
	urlSchemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)
	linkTitleRe = regexp.MustCompile(`\s+("[^"]*"|'[^']*'|\([^)]*\))$`)
)

// Images rewrites image embeds and relative markdown images to slug-scoped
// public paths. It returns the rewritten text and the referenced file names in
// encounter order, embeds first.
//
//	![[diagram.png]]          → ![diagram](/blog-images/{slug}-diagram.png)
//	![[diagram.png|Overview]] → ![Overview](/blog-images/{slug}-diagram.png)
//	![alt](img/shot.jpg)      → ![alt](/blog-images/{slug}-shot.jpg)
func Images(body, slug string) (string, []string) {
	var images []string

	out := replaceSpans(body, embedSpans(body), func(m []string) string {
		name := strings.TrimSpace(m[1])
		alt := strings.TrimSpace(m[2])
		if alt == "" {
			alt = extRe.ReplaceAllString(name, "")
		}
		images = append(images, name)
		return "![" + alt + "](" + imageURL(slug, name) + ")"
	})

	out = replaceSpans(out, findSpans(mdImageRe, out), func(m []string) string {
		dest, title := splitDestination(m[2])
		if !isLocalPath(dest) {
			return m[0]
		}
		name := path.Base(strings.ReplaceAll(dest, `\`, "/"))
		images = append(images, name)
		return "![" + m[1] + "](" + imageURL(slug, name) + title + ")"
	})

	return out, images
}

func imageURL(slug, name string) string {
	return ImagePrefix + slug + "-" + name
}

// isLocalPath reports whether dest is a bare relative file reference, i.e.
// neither an absolute URL nor rooted at "/".
func isLocalPath(dest string) bool {
	if dest == "" || strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "#") {
		return false
	}
	if strings.HasPrefix(dest, "http") || urlSchemeRe.MatchString(dest) {
		return false
	}
	return true
}

// splitDestination separates a link destination from an optional title.
// Only a quoted or parenthesised trailing title counts as one; otherwise the
// whole destination is the path, spaces included. <...> destinations are
// unwrapped.
func splitDestination(raw string) (dest, title string) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "<") {
		if i := strings.Index(raw, ">"); i > 0 {
			return raw[1:i], raw[i+1:]
		}
	}
	if loc := linkTitleRe.FindStringIndex(raw); loc != nil {
		return strings.TrimSpace(raw[:loc[0]]), raw[loc[0]:]
	}
	return raw, ""
}

type match struct {
	span
	groups []string
}

func embedSpans(s string) []match {
	return findSpans(embedRe, s)
}

func findSpans(re *regexp.Regexp, s string) []match {
	var out []match
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		out = append(out, match{span: span{loc[0], loc[1]}, groups: groups})
	}
	return out
}

// replaceSpans substitutes each match (ordered, non-overlapping) with repl.
func replaceSpans(s string, matches []match, repl func(groups []string) string) string {
	if len(matches) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(s[last:m.start])
		b.WriteString(repl(m.groups))
		last = m.end
	}
	b.WriteString(s[last:])
	return b.String()
}
