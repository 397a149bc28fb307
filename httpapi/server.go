// Package httpapi exposes the chart pipeline over HTTP: streaming
// analysis, plan building, chart editing, health, and metrics.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iashutoshrawat/lumora/agents"
	"github.com/iashutoshrawat/lumora/edit"
	"github.com/iashutoshrawat/lumora/plansink"
)

// Handler serves the chart pipeline API.
type Handler struct {
	pipeline *agents.Pipeline
	editor   *edit.Editor
	sink     *plansink.Sink
	logger   *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithSink sets the plan publication sink.
func WithSink(sink *plansink.Sink) Option {
	return func(h *Handler) { h.sink = sink }
}

// NewHandler creates the API handler.
func NewHandler(pipeline *agents.Pipeline, editor *edit.Editor, opts ...Option) *Handler {
	h := &Handler{
		pipeline: pipeline,
		editor:   editor,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts all routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/chat/analyze-and-chart", h.handleAnalyze)
	mux.HandleFunc("/api/chart/plan", h.handlePlan)
	mux.HandleFunc("/api/chart/edit", h.handleEdit)
	mux.HandleFunc("/api/debug/chart-plan", h.handleDebugPlan)
	mux.HandleFunc("/healthz", h.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, errorMsg, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: errorMsg, Details: details})
}
