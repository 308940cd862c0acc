package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/sowilo/internal/feed"
)

var feedTypes = map[string]string{
	feed.RSSFile:     "application/rss+xml; charset=utf-8",
	feed.AtomFile:    "application/atom+xml; charset=utf-8",
	feed.JSONFile:    "application/feed+json; charset=utf-8",
	feed.SitemapFile: "application/xml; charset=utf-8",
}

// SiteHandler serves the generated public files: post images, feeds and the
// sitemap.
type SiteHandler struct {
	publicDir string
	imagesDir string
}

// NewSiteHandler creates a handler over the public and images directories.
func NewSiteHandler(publicDir, imagesDir string) *SiteHandler {
	return &SiteHandler{publicDir: publicDir, imagesDir: imagesDir}
}

// Register mounts the static routes on r.
func (h *SiteHandler) Register(r chi.Router) {
	r.Get("/blog-images/{filename}", h.ServeImage)
	r.Get("/feed/{format}", h.RedirectFeed)
	for name := range feedTypes {
		r.Get("/"+name, h.ServeFeed(name))
	}
}

// safeName validates that name is a plain file name (no separators, no
// traversal) and returns its absolute path under dir.
func safeName(dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	abs := filepath.Join(root, cleaned)
	if !strings.HasPrefix(abs, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes %s", dir)
	}
	return abs, nil
}

func serveRegular(w http.ResponseWriter, r *http.Request, abs string) {
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, abs)
}

// ServeImage handles GET /blog-images/{filename}.
func (h *SiteHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	abs, err := safeName(h.imagesDir, chi.URLParam(r, "filename"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	serveRegular(w, r, abs)
}

// ServeFeed returns a handler for one generated feed or sitemap file.
func (h *SiteHandler) ServeFeed(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", feedTypes[name])
		serveRegular(w, r, filepath.Join(h.publicDir, name))
	}
}

// RedirectFeed handles GET /feed/{format}: known formats are permanently
// redirected to the static file.
func (h *SiteHandler) RedirectFeed(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if !feed.IsFormat(format) {
		writeMessage(w, http.StatusNotFound, "Unsupported feed format")
		return
	}
	http.Redirect(w, r, "/"+format, http.StatusMovedPermanently)
}
