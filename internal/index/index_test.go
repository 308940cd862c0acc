package index

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/sowilo/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sowilo-test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func row(slug, date string, tags ...string) PostRow {
	return PostRow{
		Slug:        slug,
		Path:        slug + ".mdx",
		Title:       "Title " + slug,
		Summary:     "about " + slug,
		Tags:        tags,
		PublishedAt: date,
		Checksum:    "cs-" + slug,
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM posts`).Scan(&count); err != nil {
		t.Fatalf("posts table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
}

func TestReopenKeepsSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	for i := 0; i < 2; i++ {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i+1, err)
		}
		var version int
		if err := db.conn.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
			t.Fatal(err)
		}
		if version != len(migrations) {
			t.Errorf("user_version = %d, want %d", version, len(migrations))
		}
		db.Close()
	}
}

func TestUpsertAndGetPost(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertPost(row("hello", "2024-03-01", "go", "test"), "hello body", nil); err != nil {
		t.Fatalf("UpsertPost: %v", err)
	}

	p, err := db.GetPost("hello")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if p.Title != "Title hello" || p.PublishedAt != "2024-03-01" || p.Path != "hello.mdx" {
		t.Errorf("post = %+v", p)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "go" {
		t.Errorf("tags = %v", p.Tags)
	}
	cs, err := db.GetChecksum("hello")
	if err != nil || cs != "cs-hello" {
		t.Errorf("checksum = %q, %v", cs, err)
	}
}

func TestGetPost_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetPost("missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	cs, err := db.GetChecksum("missing")
	if err != nil || cs != "" {
		t.Errorf("checksum = %q, %v", cs, err)
	}
}

func TestBacklinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(row("c", "2024-01-01"), "body", []string{"b"})
	_ = db.UpsertPost(row("a", "2024-01-01"), "body", []string{"b"})

	bl, err := db.Backlinks("b")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 || bl[0] != "a" || bl[1] != "c" {
		t.Fatalf("backlinks = %v, want [a c]", bl)
	}
}

func TestDeletePost(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(row("del", "2024-01-01"), "body", []string{"target"})

	if err := db.DeletePost("del"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if _, err := db.GetPost("del"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("deleted post still present: %v", err)
	}
	bl, _ := db.Backlinks("target")
	if len(bl) != 0 {
		t.Errorf("expected 0 backlinks after delete, got %d", len(bl))
	}
}

func TestUpsertReplacesLinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(row("up", "2024-01-01"), "old body", []string{"x"})
	r := row("up", "2024-01-01")
	r.Checksum = "2"
	_ = db.UpsertPost(r, "new body", []string{"y"})

	cs, _ := db.GetChecksum("up")
	if cs != "2" {
		t.Errorf("checksum = %q, want 2", cs)
	}
	if bl, _ := db.Backlinks("x"); len(bl) != 0 {
		t.Error("old link should be removed on upsert")
	}
	if bl, _ := db.Backlinks("y"); len(bl) != 1 {
		t.Error("new link should exist")
	}
}

func TestListPosts(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(row("old", "2023-05-01", "go"), "b", nil)
	_ = db.UpsertPost(row("new", "2024-06-01", "go", "web"), "b", nil)
	_ = db.UpsertPost(row("mid", "2024-01-01", "golang"), "b", nil)

	posts, total, err := db.ListPosts(2, 0, "")
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if total != 3 || len(posts) != 2 {
		t.Fatalf("total=%d len=%d", total, len(posts))
	}
	if posts[0].Slug != "new" || posts[1].Slug != "mid" {
		t.Errorf("order = %s, %s", posts[0].Slug, posts[1].Slug)
	}

	posts, total, err = db.ListPosts(10, 0, "go")
	if err != nil {
		t.Fatalf("ListPosts tag: %v", err)
	}
	if total != 2 || len(posts) != 2 {
		t.Fatalf("tag go: total=%d len=%d, want exact tag matches only", total, len(posts))
	}

	posts, _, _ = db.ListPosts(10, 2, "")
	if len(posts) != 1 || posts[0].Slug != "old" {
		t.Errorf("offset page = %+v", posts)
	}
}

func TestTags(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(row("a", "2024-01-01", "go", "web"), "b", nil)
	_ = db.UpsertPost(row("b", "2024-01-02", "go"), "b", nil)
	_ = db.UpsertPost(row("c", "2024-01-03"), "b", nil)

	tags, err := db.Tags()
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("tags = %+v", tags)
	}
	if tags[0] != (TagCount{Tag: "go", Count: 2}) || tags[1] != (TagCount{Tag: "web", Count: 1}) {
		t.Errorf("tags = %+v", tags)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(row("s", "2024-01-01"), "uniqueword appears here", nil)
	_ = db.UpsertPost(row("other", "2024-01-01"), "nothing to see", nil)

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "s" {
		t.Errorf("search results = %+v, want 1 hit for s", results)
	}
}

func TestLinks(t *testing.T) {
	body := "See [A](/blog/alpha) and [B](/blog/beta#part), [A again](/blog/alpha), " +
		"[self](/blog/me), ![img](/blog-images/x.png) and [ext](https://x.dev/blog/no)."
	got := Links("me", body)
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("Links = %v, want [alpha beta]", got)
	}
}
