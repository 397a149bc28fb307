package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, fixturesDir string) *server {
	t.Helper()
	return &server{
		fixturesDir: fixturesDir,
		logger:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
		calls:       make(map[string]int),
	}
}

func completionRequest(t *testing.T, srv *server, model, system, user string) map[string]any {
	t.Helper()

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.handleCompletions(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func responseContent(t *testing.T, resp map[string]any) string {
	t.Helper()
	choices := resp["choices"].([]any)
	require.Len(t, choices, 1)
	message := choices[0].(map[string]any)["message"].(map[string]any)
	assert.Equal(t, "assistant", message["role"])
	return message["content"].(string)
}

func TestCompletionsDefaultFixturesRouteBySystemPrompt(t *testing.T) {
	srv := newTestServer(t, "")

	tests := []struct {
		name    string
		system  string
		expects string
	}{
		{"transformer", "You are a Data Transformation Specialist.", `"needsTransformation": false`},
		{"analyst", "# Chart Analyst Agent", `"chartRecommendations"`},
		{"strategist", "# Visualization Strategist Agent", "Show all data labels"},
		{"design", "# Design Consultant Agent", "Color palette"},
		{"patch", "# Chart Configuration Patch Generator", `"editType": "simple"`},
		{"editor", "# Chart Editor Agent", "```json"},
		{"unknown", "You are a poet.", "OK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := completionRequest(t, srv, "any-model", tt.system, "go")
			assert.Contains(t, responseContent(t, resp), tt.expects)
		})
	}
}

func TestCompletionsNumberedFixtureSequence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fast-model_1.json"), []byte(`{"content": "first"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fast-model_2.json"), []byte(`{"content": "second"}`), 0o644))

	srv := newTestServer(t, dir)

	assert.Equal(t, "first", responseContent(t, completionRequest(t, srv, "fast-model", "s", "u")))
	assert.Equal(t, "second", responseContent(t, completionRequest(t, srv, "fast-model", "s", "u")))
	// Sequence exhausted, last fixture repeats.
	assert.Equal(t, "second", responseContent(t, completionRequest(t, srv, "fast-model", "s", "u")))
}

func TestCompletionsSingleFixtureFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "styling-model.json"), []byte(`{"content": "styled", "finishReason": "length"}`), 0o644))

	srv := newTestServer(t, dir)

	resp := completionRequest(t, srv, "styling-model", "s", "u")
	assert.Equal(t, "styled", responseContent(t, resp))
	choices := resp["choices"].([]any)
	assert.Equal(t, "length", choices[0].(map[string]any)["finish_reason"])
}

func TestCompletionsRawContentFixture(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "raw-model.json"), []byte("plain text answer"), 0o644))

	srv := newTestServer(t, dir)

	assert.Equal(t, "plain text answer", responseContent(t, completionRequest(t, srv, "raw-model", "s", "u")))
}

func TestCompletionsRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/completions", nil)
	rec := httptest.NewRecorder()
	srv.handleCompletions(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader("not json"))
	rec = httptest.NewRecorder()
	srv.handleCompletions(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(`{"messages": []}`))
	rec = httptest.NewRecorder()
	srv.handleCompletions(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsAndRequestsCapture(t *testing.T) {
	srv := newTestServer(t, "")

	completionRequest(t, srv, "model-a", "s", "first call")
	completionRequest(t, srv, "model-a", "s", "second call")
	completionRequest(t, srv, "model-b", "s", "other model")

	rec := httptest.NewRecorder()
	srv.handleStats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, float64(3), stats["totalRequests"])
	byModel := stats["byModel"].(map[string]any)
	assert.Equal(t, float64(2), byModel["model-a"])
	assert.Equal(t, float64(1), byModel["model-b"])

	rec = httptest.NewRecorder()
	srv.handleRequests(rec, httptest.NewRequest(http.MethodGet, "/requests", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var captured []capturedRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &captured))
	require.Len(t, captured, 3)
	assert.Equal(t, "model-a", captured[0].Model)
	assert.Equal(t, "second call", captured[1].Messages[1].Content)
}

func TestResetClearsState(t *testing.T) {
	srv := newTestServer(t, "")
	completionRequest(t, srv, "model-a", "s", "u")

	rec := httptest.NewRecorder()
	srv.handleReset(rec, httptest.NewRequest(http.MethodPost, "/reset", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	srv.handleStats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	var stats map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, float64(0), stats["totalRequests"])
}

func TestModelsListsFixtures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model-b.json"), []byte(`{"content": "x"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model-a_1.json"), []byte(`{"content": "x"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model-a_2.json"), []byte(`{"content": "x"}`), 0o644))

	srv := newTestServer(t, dir)

	rec := httptest.NewRecorder()
	srv.handleModels(rec, httptest.NewRequest(http.MethodGet, "/v1/models", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	models := resp["data"].([]any)
	require.Len(t, models, 2)
	assert.Equal(t, "model-a", models[0].(map[string]any)["id"])
	assert.Equal(t, "model-b", models[1].(map[string]any)["id"])
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "")

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
