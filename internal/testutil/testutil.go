// Package testutil provides shared test helpers for building vaults, output
// trees and databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/sowilo/internal/index"
)

// Note is a convenient valid frontmatter header for fixtures.
const Note = "---\ntitle: %s\ndate: 2024-03-01\ndescription: A post\ntags: [\"go\"]\n---\n\n%s"

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "sowilo-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Vault is a temporary vault plus output tree laid out like the defaults.
type Vault struct {
	Root       string // vault root
	Blog       string // Root/Blog
	Assets     string // Root/Blog/assets
	ContentDir string
	ImagesDir  string
}

// NewVault creates an empty vault with a Blog folder and an assets folder.
func NewVault(t *testing.T) *Vault {
	t.Helper()
	base := t.TempDir()
	v := &Vault{
		Root:       filepath.Join(base, "obsidian-vault"),
		ContentDir: filepath.Join(base, "content"),
		ImagesDir:  filepath.Join(base, "public", "blog-images"),
	}
	v.Blog = filepath.Join(v.Root, "Blog")
	v.Assets = filepath.Join(v.Blog, "assets")
	if err := os.MkdirAll(v.Assets, 0o755); err != nil {
		t.Fatal(err)
	}
	return v
}

// WriteNote writes a note into the Blog folder.
func (v *Vault) WriteNote(t *testing.T, name, content string) {
	t.Helper()
	WriteFile(t, filepath.Join(v.Blog, name), content)
}

// WriteAsset writes an asset into the assets folder.
func (v *Vault) WriteAsset(t *testing.T, name, content string) {
	t.Helper()
	WriteFile(t, filepath.Join(v.Assets, name), content)
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
