package mcpserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/sowilo/internal/content"
	"github.com/starford/sowilo/internal/index"
	"github.com/starford/sowilo/internal/postservice"
	"github.com/starford/sowilo/internal/storage"
	"github.com/starford/sowilo/internal/testutil"
)

const postFmt = "---\ntitle: \"%s\"\npublishedAt: \"2024-03-01\"\nsummary: \"s\"\ntags: \"go\"\n---\n\n%s\n"

func testServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "alpha.mdx"), fmt.Sprintf(postFmt, "Alpha", "See [beta](/blog/beta)."))
	testutil.WriteFile(t, filepath.Join(dir, "beta.mdx"), fmt.Sprintf(postFmt, "Beta", "Findable words."))

	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reader := content.NewReader(store, logger)
	db := testutil.TestDB(t)
	if _, err := index.Sync(db, reader, logger); err != nil {
		t.Fatal(err)
	}
	return New(postservice.NewService(reader, db), "test")
}

// callTool invokes a tool handler directly; mcp-go has no in-process call
// helper.
func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"search_posts":      srv.searchPosts,
		"read_post":         srv.readPost,
		"list_posts":        srv.listPosts,
		"get_backlinks":     srv.getBacklinks,
		"check_note":        srv.checkNote,
		"get_note_contract": srv.getNoteContract,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestReadPost(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_post", map[string]any{"slug": "beta"})
	text := resultText(r)
	if r.IsError || !strings.Contains(text, `"title": "Beta"`) || !strings.Contains(text, `"alpha"`) {
		t.Errorf("read_post = %s", text)
	}
	if strings.Contains(text, "<p>") {
		t.Error("read_post should not include rendered HTML")
	}
}

func TestReadPostMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_post", map[string]any{"slug": "nope"})
	if !r.IsError || resultText(r) != "not found: nope" {
		t.Errorf("expected not found error, got %q", resultText(r))
	}
}

func TestSearchPosts(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "search_posts", map[string]any{"query": "Findable"})
	if r.IsError || !strings.Contains(resultText(r), `"slug": "beta"`) {
		t.Errorf("search_posts = %s", resultText(r))
	}

	r = callTool(t, srv, "search_posts", map[string]any{})
	if !r.IsError {
		t.Error("expected error for missing query")
	}
}

func TestListPosts(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_posts", map[string]any{"limit": 1})
	text := resultText(r)
	if !strings.Contains(text, `"total": 2`) || strings.Count(text, `"slug"`) != 1 {
		t.Errorf("list_posts = %s", text)
	}
}

func TestGetBacklinks(t *testing.T) {
	srv := testServer(t)
	if got := resultText(callTool(t, srv, "get_backlinks", map[string]any{"slug": "beta"})); got != "alpha" {
		t.Errorf("backlinks = %q", got)
	}
	if got := resultText(callTool(t, srv, "get_backlinks", map[string]any{"slug": "alpha"})); got != "no backlinks found" {
		t.Errorf("backlinks = %q", got)
	}
}

func TestCheckNote(t *testing.T) {
	srv := testServer(t)
	note := "---\ntitle: Hello\ndate: 2024-03-01\ndescription: d\ntags: [\"go\"]\nauthor: me\n---\n\n![[pic.png]] and [[Other Post]]"
	r := callTool(t, srv, "check_note", map[string]any{"filename": "Hello World.md", "content": note})
	text := resultText(r)
	for _, want := range []string{
		"output: hello-world.mdx",
		"images: pic.png",
		"dropped keys: author",
		"/blog-images/hello-world-pic.png",
		"[Other Post](/blog/other-post)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("check_note missing %q:\n%s", want, text)
		}
	}

	r = callTool(t, srv, "check_note", map[string]any{"filename": "d.md", "content": "---\ndraft: true\n---\n"})
	if resultText(r) != "skipped: Draft post" {
		t.Errorf("draft = %q", resultText(r))
	}

	r = callTool(t, srv, "check_note", map[string]any{"filename": "bad.md", "content": "no header"})
	if !r.IsError || !strings.Contains(resultText(r), "missing required field: title") {
		t.Errorf("invalid = %q", resultText(r))
	}
}

func TestNoteContract(t *testing.T) {
	srv := testServer(t)
	text := resultText(callTool(t, srv, "get_note_contract", nil))
	if !strings.Contains(text, "Blog Note Format") {
		t.Errorf("contract = %q", text)
	}

	res, err := srv.readNoteFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(res) != 1 {
		t.Fatalf("resource = %v, %v", res, err)
	}
	if tc, ok := res[0].(mcp.TextResourceContents); !ok || tc.URI != NoteFormatURI {
		t.Errorf("resource contents = %#v", res[0])
	}
}
