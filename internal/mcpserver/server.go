// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the published posts and the vault note format over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/sowilo/internal/apperr"
	"github.com/starford/sowilo/internal/post"
	"github.com/starford/sowilo/internal/postservice"
	"github.com/starford/sowilo/internal/vault"
)

// NoteFormatURI is the resource URI of the note format contract.
const NoteFormatURI = "sowilo://note-format"

// Server wraps the MCP server with the post tools.
type Server struct {
	mcp *server.MCPServer
	svc *postservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *postservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Sowilo",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_posts",
		mcp.WithDescription("Full-text search through published post titles, summaries, tags and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	), s.searchPosts)

	s.mcp.AddTool(mcp.NewTool("read_post",
		mcp.WithDescription("Read a published post: metadata, reading time, Markdown body and backlinks."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Post slug (e.g. my-first-post)")),
	), s.readPost)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List published posts, newest first."),
		mcp.WithString("tag", mcp.Description("Optional tag filter")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)")),
		mcp.WithNumber("offset", mcp.Description("Page offset")),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all published posts that link to the specified post."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Slug of the post to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("check_note",
		mcp.WithDescription("Run a vault note through the preprocessor without writing anything. "+
			"Returns the normalized post or the reason it would be skipped or rejected. "+
			"Read the contract first via get_note_contract or the "+NoteFormatURI+" resource."),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Note file name, e.g. My Post.md")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full note content including frontmatter")),
	), s.checkNote)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the vault note format the preprocessor accepts. "+
			"Call this before writing blog notes."),
	), s.getNoteContract)

	s.mcp.AddResource(
		mcp.NewResource(NoteFormatURI, "Note Format Contract",
			mcp.WithResourceDescription("Obsidian note format accepted by the blog preprocessor."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func lookupError(slug string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) searchPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) readPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.svc.GetPost(ctx, slug)
	if err != nil {
		return lookupError(slug, err), nil
	}
	p.HTML = ""
	return jsonResult(p)
}

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, total, err := s.svc.ListPosts(ctx,
		req.GetInt("limit", 50), req.GetInt("offset", 0), req.GetString("tag", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"posts": items, "total": total})
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, slug)
	if err != nil {
		return lookupError(slug, err), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}

func (s *Server) checkNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p, err := post.Process(filename, []byte(raw))
	switch {
	case errors.Is(err, apperr.ErrDraft):
		return mcp.NewToolResultText("skipped: " + vault.DraftReason), nil
	case err != nil:
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "output: %s\n", p.Filename)
	if len(p.Images) > 0 {
		fmt.Fprintf(&b, "images: %s\n", strings.Join(p.Images, ", "))
	}
	if len(p.DroppedKeys) > 0 {
		fmt.Fprintf(&b, "dropped keys: %s\n", strings.Join(p.DroppedKeys, ", "))
	}
	b.WriteString("\n")
	b.WriteString(p.Content)
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getNoteContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteFormatContract), nil
}

func (s *Server) readNoteFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      NoteFormatURI,
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}
