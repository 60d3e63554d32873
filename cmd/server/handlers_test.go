package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vennlabs/pulseboard/internal/models"
	"github.com/vennlabs/pulseboard/internal/sentiment"
)

func testRouter() http.Handler {
	return newRouter(newHandler(sentiment.PlaceholderScorer{}))
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeSentiment(t *testing.T) {
	router := testRouter()

	t.Run("returns one placeholder result per text", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/analyze-sentiment",
			`{"texts": ["great service", "bad support"], "nodes": [{"id": "n1", "name": "General", "keywords": []}]}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.AnalyzeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 2)

		assert.Equal(t, "great service", resp.Results[0].Text)
		assert.Equal(t, "bad support", resp.Results[1].Text)
		for _, result := range resp.Results {
			assert.Equal(t, "n1", result.NodeID)
			assert.Equal(t, "General", result.NodeName)
			assert.Equal(t, models.PolarityNeutral, result.Polarity)
			assert.Equal(t, 0.0, result.PolarityScore)
			assert.Equal(t, 0.5, result.Confidence)
			assert.Equal(t, models.KPIScores{
				Trust:       0.5,
				Optimism:    0.5,
				Frustration: 0.5,
				Clarity:     0.5,
				Access:      0.5,
				Fairness:    0.5,
			}, result.KPIScores)
		}
	})

	t.Run("routes texts by node keywords", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/analyze-sentiment",
			`{"texts": ["my shipping was late"], "nodes": [{"id": "a", "name": "A", "keywords": ["refund"]}, {"id": "b", "name": "B", "keywords": ["shipping"]}]}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.AnalyzeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "b", resp.Results[0].NodeID)
	})

	t.Run("empty texts fails with the error envelope", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/analyze-sentiment",
			`{"texts": [], "nodes": [{"id": "n1", "name": "General", "keywords": []}]}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error"`)
		assert.Contains(t, rec.Body.String(), `"results":[]`, "results must serialize as an empty array, not null")
	})

	t.Run("empty nodes fails with the error envelope", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/analyze-sentiment",
			`{"texts": ["some text"], "nodes": []}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"results":[]`)
	})

	t.Run("malformed json fails with the error envelope", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/analyze-sentiment", `{"texts": [`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"results":[]`)
	})
}

func TestCORS(t *testing.T) {
	router := testRouter()

	t.Run("preflight short-circuits with empty 200", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/analyze-sentiment", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "authorization, x-client-info, apikey, content-type",
			rec.Header().Get("Access-Control-Allow-Headers"))
	})

	t.Run("headers are present on regular responses", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/analyze-sentiment",
			`{"texts": ["hello"], "nodes": [{"id": "n1", "name": "General", "keywords": []}]}`)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("headers are present on error responses", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/analyze-sentiment", `{"texts": []}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("headers are present on unknown routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestInsights(t *testing.T) {
	router := testRouter()

	t.Run("aggregates results per node", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/insights",
			`{"results": [
				{"text": "a", "nodeId": "n1", "nodeName": "General", "polarity": "positive", "polarityScore": 0.8, "kpiScores": {"trust": 0.5, "optimism": 0.5, "frustration": 0.5, "clarity": 0.5, "access": 0.5, "fairness": 0.5}, "confidence": 0.9},
				{"text": "b", "nodeId": "n1", "nodeName": "General", "polarity": "negative", "polarityScore": -0.4, "kpiScores": {"trust": 0.1, "optimism": 0.1, "frustration": 0.1, "clarity": 0.1, "access": 0.1, "fairness": 0.1}, "confidence": 0.8}
			]}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp models.InsightsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Nodes, 1)

		node := resp.Nodes[0]
		assert.Equal(t, "n1", node.NodeID)
		assert.Equal(t, 2, node.TextCount)
		assert.InDelta(t, 0.2, node.AvgPolarityScore, 1e-9)
		assert.InDelta(t, 0.3, node.AvgKPIScores.Trust, 1e-9)
		assert.Equal(t, models.PolarityCounts{Positive: 1, Negative: 1}, node.PolarityCounts)
	})

	t.Run("empty results yield an empty node array", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/insights", `{"results": []}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"nodes":[]`)
	})

	t.Run("malformed json is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/insights", `{"results": [`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, sentiment.EnginePlaceholder, resp["engine"])
	assert.Equal(t, "disabled", resp["archive"])
	assert.Equal(t, "disabled", resp["bookmarks"])
}

func TestBookmarksUnconfigured(t *testing.T) {
	router := testRouter()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/bookmarks/u1"},
		{http.MethodGet, "/bookmarks/u1/item1"},
		{http.MethodPut, "/bookmarks/u1/item1"},
		{http.MethodDelete, "/bookmarks/u1/item1"},
		{http.MethodPost, "/bookmarks/u1/item1/toggle"},
	}

	for _, route := range routes {
		rec := doJSON(t, router, route.method, route.path, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "%s %s", route.method, route.path)
		assert.Contains(t, rec.Body.String(), "not configured")
	}
}

func TestCreateProjectValidation(t *testing.T) {
	router := testRouter()

	t.Run("rejects a missing name", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/projects",
			`{"nodes": [{"id": "a", "name": "A", "keywords": []}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects an empty node list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/projects", `{"name": "My Project", "nodes": []}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects duplicate node ids", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/projects",
			`{"name": "My Project", "nodes": [{"id": "a", "name": "A"}, {"id": "a", "name": "Also A"}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/projects", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
