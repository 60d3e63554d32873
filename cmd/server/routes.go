package main

import "net/http"

// newRouter wires every endpoint behind the middleware chain:
// recovery -> cors -> logging -> mux.
func newRouter(h *handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /analyze-sentiment", h.handleAnalyze)
	mux.HandleFunc("POST /insights", h.handleInsights)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /projects", h.handleListProjects)
	mux.HandleFunc("POST /projects", h.handleCreateProject)
	mux.HandleFunc("GET /bookmarks/{user}", h.handleListBookmarks)
	mux.HandleFunc("GET /bookmarks/{user}/{item}", h.handleGetBookmark)
	mux.HandleFunc("PUT /bookmarks/{user}/{item}", h.handleSaveBookmark)
	mux.HandleFunc("DELETE /bookmarks/{user}/{item}", h.handleDeleteBookmark)
	mux.HandleFunc("POST /bookmarks/{user}/{item}/toggle", h.handleToggleBookmark)

	var routes http.Handler = mux
	routes = logMiddleware(routes)
	routes = corsMiddleware(routes)
	routes = recoveryMiddleware(routes)
	return routes
}
