package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sowilo/internal/content"
	"github.com/starford/sowilo/internal/index"
	"github.com/starford/sowilo/internal/postservice"
	"github.com/starford/sowilo/internal/storage"
	"github.com/starford/sowilo/internal/testutil"
)

const postFmt = "---\ntitle: \"%s\"\npublishedAt: \"%s\"\nsummary: \"s\"\ntags: \"%s\"\n---\n\n%s\n"

type env struct {
	router    http.Handler
	publicDir string
	imagesDir string
}

// testEnv builds a content dir with two posts, syncs a temp index and mounts
// the API and static routes the way serve does.
func testEnv(t *testing.T) env {
	t.Helper()
	base := t.TempDir()
	contentDir := filepath.Join(base, "content")
	e := env{publicDir: filepath.Join(base, "public")}
	e.imagesDir = filepath.Join(e.publicDir, "blog-images")

	testutil.WriteFile(t, filepath.Join(contentDir, "alpha.mdx"),
		fmt.Sprintf(postFmt, "Alpha", "2024-03-01", "go, web", "Alpha links to [beta](/blog/beta)."))
	testutil.WriteFile(t, filepath.Join(contentDir, "beta.mdx"),
		fmt.Sprintf(postFmt, "Beta", "2024-04-01", "go", "Beta searchable body."))
	testutil.WriteFile(t, filepath.Join(e.imagesDir, "pic.png"), "PNG")
	testutil.WriteFile(t, filepath.Join(e.publicDir, "rss.xml"), "<rss></rss>")

	store, err := storage.NewFS(contentDir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reader := content.NewReader(store, logger)
	db := testutil.TestDB(t)
	if _, err := index.Sync(db, reader, logger); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	sseStub := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
	})

	r := chi.NewRouter()
	r.Mount("/api", NewRouter(postservice.NewService(reader, db), sseStub))
	NewSiteHandler(e.publicDir, e.imagesDir).Register(r)
	e.router = r
	return e
}

func (e env) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestListPosts(t *testing.T) {
	e := testEnv(t)
	w := e.get(t, "/api/posts")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp PostListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || resp.Posts[0].Slug != "beta" {
		t.Errorf("resp = %+v", resp)
	}

	w = e.get(t, "/api/posts?tag=web")
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 1 || resp.Posts[0].Slug != "alpha" {
		t.Errorf("tag filter = %+v", resp)
	}
}

func TestGetPost(t *testing.T) {
	e := testEnv(t)
	w := e.get(t, "/api/posts/beta")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var post PostDetail
	_ = json.Unmarshal(w.Body.Bytes(), &post)
	if post.Title != "Beta" || !strings.Contains(post.HTML, "<p>Beta searchable body.</p>") {
		t.Errorf("post = %+v", post)
	}
	if len(post.Backlinks) != 1 || post.Backlinks[0] != "alpha" {
		t.Errorf("backlinks = %v", post.Backlinks)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	e := testEnv(t)
	w := e.get(t, "/api/posts/missing")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if w = e.get(t, "/api/posts/missing/backlinks"); w.Code != http.StatusNotFound {
		t.Errorf("backlinks status = %d, want 404", w.Code)
	}
}

func TestBacklinks(t *testing.T) {
	e := testEnv(t)
	w := e.get(t, "/api/posts/beta/backlinks")
	var resp BacklinksResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || resp.Slug != "beta" || len(resp.Backlinks) != 1 {
		t.Errorf("status = %d resp = %+v", w.Code, resp)
	}
}

func TestSearch(t *testing.T) {
	e := testEnv(t)
	if w := e.get(t, "/api/search"); w.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", w.Code)
	}

	w := e.get(t, "/api/search?q=searchable")
	var resp SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || len(resp.Results) != 1 || resp.Results[0].Slug != "beta" {
		t.Errorf("status = %d resp = %+v", w.Code, resp)
	}
}

func TestTags(t *testing.T) {
	e := testEnv(t)
	w := e.get(t, "/api/tags")
	var resp TagsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Tags) != 2 || resp.Tags[0].Tag != "go" || resp.Tags[0].Count != 2 {
		t.Errorf("tags = %+v", resp.Tags)
	}
}

func TestEventsMounted(t *testing.T) {
	e := testEnv(t)
	w := e.get(t, "/api/events")
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
}

func TestServeImage(t *testing.T) {
	e := testEnv(t)
	w := e.get(t, "/blog-images/pic.png")
	if w.Code != http.StatusOK || w.Body.String() != "PNG" {
		t.Errorf("status = %d body = %q", w.Code, w.Body.String())
	}
	if w = e.get(t, "/blog-images/missing.png"); w.Code != http.StatusNotFound {
		t.Errorf("missing image status = %d", w.Code)
	}
	if w = e.get(t, "/blog-images/.."); w.Code != http.StatusBadRequest {
		t.Errorf("traversal status = %d, want 400", w.Code)
	}
}

func TestServeFeed(t *testing.T) {
	e := testEnv(t)
	w := e.get(t, "/rss.xml")
	if w.Code != http.StatusOK || w.Body.String() != "<rss></rss>" {
		t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("content type = %q", ct)
	}
	if w = e.get(t, "/atom.xml"); w.Code != http.StatusNotFound {
		t.Errorf("ungenerated feed status = %d, want 404", w.Code)
	}
}

func TestRedirectFeed(t *testing.T) {
	e := testEnv(t)
	for _, format := range []string{"rss.xml", "atom.xml", "feed.json"} {
		w := e.get(t, "/feed/"+format)
		if w.Code != http.StatusMovedPermanently || w.Header().Get("Location") != "/"+format {
			t.Errorf("%s: status = %d location = %q", format, w.Code, w.Header().Get("Location"))
		}
	}

	w := e.get(t, "/feed/feed.yaml")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var body errResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "Unsupported feed format" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestSafeName(t *testing.T) {
	dir := t.TempDir()
	if _, err := safeName(dir, "ok.png"); err != nil {
		t.Errorf("plain name rejected: %v", err)
	}
	for _, bad := range []string{"", "../x.png", "a/b.png", ".."} {
		if _, err := safeName(dir, bad); err == nil {
			t.Errorf("safeName(%q) accepted", bad)
		}
	}
}
