package rewrite

import (
	"reflect"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Project":           "my-project",
		"  Tabs\tand   spaces": "-tabs-and-spaces",
		"C++ & Rust!":          "c--rust",
		"already-a_slug":       "already-a_slug",
		"Ünïcode Nöte":         "ncode-nte",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCombinedExample(t *testing.T) {
	body := "Check out [[My Project]] and ![[diagram.png]]"
	out, images := Images(body, "hello")
	out = Wikilinks(out)

	want := "Check out [My Project](/blog/my-project) and ![diagram](/blog-images/hello-diagram.png)"
	if out != want {
		t.Errorf("got  %q\nwant %q", out, want)
	}
	if !reflect.DeepEqual(images, []string{"diagram.png"}) {
		t.Errorf("images = %v", images)
	}
}

func TestImages_AltAndOrder(t *testing.T) {
	body := "![[ first.png | The First ]] text ![[second.final.jpg]]"
	out, images := Images(body, "post")
	want := "![The First](/blog-images/post-first.png) text ![second.final](/blog-images/post-second.final.jpg)"
	if out != want {
		t.Errorf("got  %q\nwant %q", out, want)
	}
	if !reflect.DeepEqual(images, []string{"first.png", "second.final.jpg"}) {
		t.Errorf("images = %v", images)
	}
}

func TestImages_StandardMarkdown(t *testing.T) {
	body := strings.Join([]string{
		"![local](shot.png)",
		"![nested](assets/img/deep.jpg \"caption\")",
		"![remote](https://example.com/a.png)",
		"![rooted](/static/b.png)",
		"![inline](data:image/png;base64,AAAA)",
		"![pasted](Pasted image 1.png)",
		"![titled](my shot.png 'Single')",
		"![angled](<dir/with space.gif>)",
	}, "\n")
	out, images := Images(body, "s")

	wantLines := []string{
		"![local](/blog-images/s-shot.png)",
		"![nested](/blog-images/s-deep.jpg \"caption\")",
		"![remote](https://example.com/a.png)",
		"![rooted](/static/b.png)",
		"![inline](data:image/png;base64,AAAA)",
		"![pasted](/blog-images/s-Pasted image 1.png)",
		"![titled](/blog-images/s-my shot.png 'Single')",
		"![angled](/blog-images/s-with space.gif)",
	}
	if out != strings.Join(wantLines, "\n") {
		t.Errorf("got:\n%s", out)
	}
	if !reflect.DeepEqual(images, []string{"shot.png", "deep.jpg", "Pasted image 1.png", "my shot.png", "with space.gif"}) {
		t.Errorf("images = %v", images)
	}
}

func TestImages_EmbedsCollectedBeforeStandard(t *testing.T) {
	_, images := Images("![a](a.png) ![[b.png]]", "x")
	if !reflect.DeepEqual(images, []string{"b.png", "a.png"}) {
		t.Errorf("images = %v", images)
	}
}

func TestRewritersAreIdempotent(t *testing.T) {
	body := "See [[Other Post|this]] and ![[pic.png]] and ![x](local.gif)."
	once, _ := Images(body, "slug")
	once = Wikilinks(once)

	twice, images := Images(once, "slug")
	twice = Wikilinks(twice)

	if once != twice {
		t.Errorf("second pass changed text:\n%s\n%s", once, twice)
	}
	if len(images) != 0 {
		t.Errorf("second pass collected %v", images)
	}
	if strings.Count(twice, ImagePrefix) != 2 || strings.Contains(twice, "slug-slug-") {
		t.Errorf("double-prefixed output: %s", twice)
	}
}

func TestWikilinks(t *testing.T) {
	cases := map[string]string{
		"[[Page]]":                    "[Page](/blog/page)",
		"[[ Spaced Page | Shown ]]":   "[Shown](/blog/spaced-page)",
		"[[A]][[B]]":                  "[A](/blog/a)[B](/blog/b)",
		"plain [link](/blog/x) stays": "plain [link](/blog/x) stays",
		"[[]] is not a link":          "[[]] is not a link",
	}
	for in, want := range cases {
		if got := Wikilinks(in); got != want {
			t.Errorf("Wikilinks(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWikilinks_SkipsUnconvertedEmbeds(t *testing.T) {
	in := "![[raw.png]][[Next]]"
	want := "![[raw.png]][Next](/blog/next)"
	if got := Wikilinks(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCallouts_Example(t *testing.T) {
	got := Callouts("> [!warning] Careful\n> This breaks things")
	want := "<Callout emoji=\"⚠️\">\n**Careful**\nThis breaks things\n</Callout>"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCallouts_ClosedByPlainLine(t *testing.T) {
	in := "Intro\n> [!TIP]\n> line one\n>line two\n\nAfter"
	want := "Intro\n<Callout emoji=\"💡\">\nline one\nline two\n</Callout>\n\nAfter"
	if got := Callouts(in); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestCallouts_BackToBack(t *testing.T) {
	in := "> [!note] First\n> one\n> [!bug] Second\n> two"
	want := "<Callout emoji=\"📝\">\n**First**\none\n</Callout>\n<Callout emoji=\"🐛\">\n**Second**\ntwo\n</Callout>"
	if got := Callouts(in); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestCallouts_UnknownTypeUsesDefault(t *testing.T) {
	got := Callouts("> [!custom] Hi\n> body")
	if !strings.HasPrefix(got, "<Callout emoji=\""+DefaultEmoji+"\">") {
		t.Errorf("got %q", got)
	}
}

func TestCallouts_PlainQuoteUntouched(t *testing.T) {
	in := "> just a quote\n> second line"
	if got := Callouts(in); got != in {
		t.Errorf("got %q", got)
	}
}

func TestCallouts_Idempotent(t *testing.T) {
	once := Callouts("> [!info] Heads up\n> text\n")
	if twice := Callouts(once); twice != once {
		t.Errorf("second pass changed output:\n%q\n%q", once, twice)
	}
}

func TestCalloutEmoji(t *testing.T) {
	if CalloutEmoji("Danger") != "🚨" {
		t.Error("type lookup should be case-insensitive")
	}
	if CalloutEmoji("caution") != CalloutEmoji("warning") {
		t.Error("caution and warning share an emoji")
	}
}
