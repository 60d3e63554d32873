package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vennlabs/pulseboard/internal/archive"
	"github.com/vennlabs/pulseboard/internal/bookmarks"
	"github.com/vennlabs/pulseboard/internal/classifier"
	"github.com/vennlabs/pulseboard/internal/db"
	"github.com/vennlabs/pulseboard/internal/insights"
	"github.com/vennlabs/pulseboard/internal/models"
	"github.com/vennlabs/pulseboard/internal/sentiment"
)

type handler struct {
	classifier *classifier.Classifier
	engine     string

	// archive and bookmarks stay nil when their backing services are not
	// configured; handlers degrade instead of failing at startup.
	archive        *archive.Publisher
	bookmarks      *bookmarks.Store
	scoringHealthy *atomic.Bool
}

func newHandler(scorer sentiment.Scorer) *handler {
	return &handler{
		classifier: classifier.New(scorer),
		engine:     scorer.Name(),
	}
}

// POST /analyze-sentiment
// Validation failures and unexpected failures share one envelope: 500 with
// an error string and an empty (never null) results array. Panics during
// analysis are recovered here and reported the same way.
func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("[Server] Panic during analysis",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			writeAnalyzeError(w, "internal error during analysis")
		}
	}()

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAnalyzeError(w, "invalid request body")
		return
	}

	results, err := h.classifier.Classify(r.Context(), req.Texts, req.Nodes)
	if err != nil {
		slog.Error("[Server] Analysis failed", slog.String("error", err.Error()))
		writeAnalyzeError(w, err.Error())
		return
	}

	if h.archive != nil {
		batchID := h.archive.Publish(h.engine, results)
		slog.Info("[Server] Queued batch for archiving",
			slog.String("batch_id", batchID),
			slog.Int("result_count", len(results)))
	}

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{Results: results})
}

// POST /insights
func (h *handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req models.InsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, models.InsightsResponse{
		Nodes: insights.Aggregate(req.Results),
	})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.scoringHealthy != nil && !h.scoringHealthy.Load() {
		status = "degraded"
	}

	archiveState := "disabled"
	if h.archive != nil {
		archiveState = "enabled"
	}
	bookmarkState := "disabled"
	if h.bookmarks != nil {
		bookmarkState = "enabled"
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":    status,
		"engine":    h.engine,
		"archive":   archiveState,
		"bookmarks": bookmarkState,
	})
}

// GET /projects
func (h *handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := db.GetAllProjects(r.Context())
	if err != nil {
		slog.Error("[Server] Failed to list projects", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	writeJSON(w, http.StatusOK, models.ProjectsResponse{Projects: projects})
}

// POST /projects
func (h *handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string        `json:"name"`
		Description string        `json:"description"`
		Nodes       []models.Node `json:"nodes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Nodes) == 0 {
		writeError(w, http.StatusBadRequest, "at least one node is required")
		return
	}
	seen := make(map[string]bool, len(req.Nodes))
	for _, n := range req.Nodes {
		if n.ID == "" {
			writeError(w, http.StatusBadRequest, "every node needs an id")
			return
		}
		if seen[n.ID] {
			writeError(w, http.StatusBadRequest, "node ids must be unique")
			return
		}
		seen[n.ID] = true
	}

	project := models.Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Nodes:       req.Nodes,
		CreatedAt:   time.Now().UTC(),
	}

	if err := db.PutProject(r.Context(), project); err != nil {
		slog.Error("[Server] Failed to store project", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to store project")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// GET /bookmarks/{user}
func (h *handler) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	store := h.bookmarkStore(w)
	if store == nil {
		return
	}

	items, err := store.List(r.Context(), r.PathValue("user"))
	if err != nil {
		slog.Error("[Server] Failed to list bookmarks", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list bookmarks")
		return
	}
	if items == nil {
		items = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"items": items})
}

// GET /bookmarks/{user}/{item}
func (h *handler) handleGetBookmark(w http.ResponseWriter, r *http.Request) {
	store := h.bookmarkStore(w)
	if store == nil {
		return
	}

	saved, err := store.IsSaved(r.Context(), r.PathValue("user"), r.PathValue("item"))
	if err != nil {
		slog.Error("[Server] Failed to check bookmark", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to check bookmark")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

// PUT /bookmarks/{user}/{item}
func (h *handler) handleSaveBookmark(w http.ResponseWriter, r *http.Request) {
	store := h.bookmarkStore(w)
	if store == nil {
		return
	}

	if err := store.Save(r.Context(), r.PathValue("user"), r.PathValue("item")); err != nil {
		slog.Error("[Server] Failed to save bookmark", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to save bookmark")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// DELETE /bookmarks/{user}/{item}
func (h *handler) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	store := h.bookmarkStore(w)
	if store == nil {
		return
	}

	if err := store.Unsave(r.Context(), r.PathValue("user"), r.PathValue("item")); err != nil {
		slog.Error("[Server] Failed to remove bookmark", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to remove bookmark")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"saved": false})
}

// POST /bookmarks/{user}/{item}/toggle
func (h *handler) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	store := h.bookmarkStore(w)
	if store == nil {
		return
	}

	saved, err := store.Toggle(r.Context(), r.PathValue("user"), r.PathValue("item"))
	if err != nil {
		slog.Error("[Server] Failed to toggle bookmark", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to toggle bookmark")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

// bookmarkStore answers 503 and returns nil when no store is configured.
func (h *handler) bookmarkStore(w http.ResponseWriter) *bookmarks.Store {
	if h.bookmarks == nil {
		writeError(w, http.StatusServiceUnavailable, "bookmark store is not configured")
		return nil
	}
	return h.bookmarks
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeAnalyzeError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, models.NewAnalyzeErrorResponse(msg))
}
