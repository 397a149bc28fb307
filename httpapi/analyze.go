package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/iashutoshrawat/lumora/agents"
	"github.com/iashutoshrawat/lumora/metrics"
	"github.com/iashutoshrawat/lumora/tabular"
)

// AnalyzeRequest is the body for POST /api/chat/analyze-and-chart.
type AnalyzeRequest struct {
	Data struct {
		Columns []string      `json:"columns"`
		Rows    []tabular.Row `json:"rows"`
	} `json:"data"`
	UserMessage string `json:"userMessage,omitempty"`
}

// handleAnalyze streams the multi-agent analysis as server-sent
// events. Each pipeline event becomes one "data:" frame; errors after
// the stream starts are reported as error events, not HTTP statuses.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(req.Data.Columns) == 0 || len(req.Data.Rows) == 0 {
		writeJSONError(w, http.StatusBadRequest, "Invalid data format", "")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "Streaming not supported", "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Pipeline goroutines emit concurrently; frames must not interleave.
	var mu sync.Mutex
	emit := func(eventType string, payload map[string]any) {
		mu.Lock()
		defer mu.Unlock()

		frame := make(map[string]any, len(payload)+1)
		frame["type"] = eventType
		for k, v := range payload {
			frame[k] = v
		}
		data, err := json.Marshal(frame)
		if err != nil {
			h.logger.Error("Failed to marshal event", "type", eventType, "error", err)
			return
		}
		w.Write([]byte("data: "))
		w.Write(data)
		w.Write([]byte("\n\n"))
		flusher.Flush()

		if name, ok := payload["agentName"].(string); ok && name != "" {
			metrics.AgentEvents.WithLabelValues(name, eventType).Inc()
		}
	}

	start := time.Now()
	result, err := h.pipeline.Run(r.Context(), agents.AnalyzeInput{
		Columns:     req.Data.Columns,
		Rows:        req.Data.Rows,
		UserMessage: req.UserMessage,
	}, emit)
	metrics.ObservePipeline(start, err)

	if err != nil {
		h.logger.Error("Multi-agent analysis failed", "error", err)
		emit(agents.EventError, map[string]any{
			"message": err.Error(),
			"details": "Multi-agent analysis failed",
		})
		return
	}

	outcome := "skipped"
	if result.Transformation.Applied {
		outcome = "applied"
	}
	metrics.Transformations.WithLabelValues(outcome).Inc()
}
