// Package api implements the preview server's JSON API and static routes
// using chi.
package api

import "net/http"

// NoCache marks every response as uncacheable. Preview content changes on
// each build.
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
