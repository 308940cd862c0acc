//go:build sqlite_fts5

package index

import "testing"

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM posts_fts`).Scan(&count); err != nil {
		t.Fatalf("posts_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertPost(row("fts", "2024-01-01", "search"), "Sowilo publishes remarkably tidy posts.", nil); err != nil {
		t.Fatalf("UpsertPost: %v", err)
	}

	results, err := db.Search("remarkably", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "fts" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(row("gone", "2024-01-01"), "vanishing content", nil)
	_ = db.DeletePost("gone")

	results, _ := db.Search("vanishing", 10)
	if len(results) != 0 {
		t.Errorf("deleted post still in FTS index: %+v", results)
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(row("evo", "2024-01-01"), "original text", nil)
	r := row("evo", "2024-01-01")
	r.Title = "New"
	_ = db.UpsertPost(r, "replacement text", nil)

	if results, _ := db.Search("original", 10); len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ := db.Search("replacement", 10)
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}

func TestFTS5_TitleOutranksBody(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(row("body", "2024-01-01"), "a long body that mentions gophers once", nil)
	titled := row("titled", "2023-01-01")
	titled.Title = "Gophers"
	_ = db.UpsertPost(titled, "unrelated", nil)

	results, err := db.Search("gophers", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Slug != "titled" {
		t.Errorf("results = %+v", results)
	}
}
