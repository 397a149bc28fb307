// mock-llm is an OpenAI-compatible fixture server for testing the
// chart pipeline without live model calls. Responses come from a
// fixtures directory keyed by model name, falling back to built-in
// canned outputs for each chart agent.
//
// Fixture layout:
//
//	fixtures/
//	  gpt-4o.json          single response, returned every call
//	  gpt-4o_1.json        numbered sequence, returned in call order
//	  gpt-4o_2.json        (last fixture repeats once exhausted)
//
// Each fixture file is either a raw string of assistant content or a
// JSON object {"content": "...", "finishReason": "stop"}.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fixture struct {
	Content      string `json:"content"`
	FinishReason string `json:"finishReason,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type capturedRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	ReceivedAt  time.Time     `json:"receivedAt"`
}

type server struct {
	fixturesDir string
	logger      *slog.Logger

	mu       sync.Mutex
	calls    map[string]int // per-model call counts
	captured []capturedRequest
}

func main() {
	addr := flag.String("addr", ":8089", "listen address")
	fixturesDir := flag.String("fixtures", "", "fixtures directory (optional)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv := &server{
		fixturesDir: *fixturesDir,
		logger:      logger,
		calls:       make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", srv.handleCompletions)
	mux.HandleFunc("/v1/models", srv.handleModels)
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/stats", srv.handleStats)
	mux.HandleFunc("/requests", srv.handleRequests)
	mux.HandleFunc("/reset", srv.handleReset)

	logger.Info("mock-llm listening", "addr", *addr, "fixtures", *fixturesDir)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func (s *server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Model == "" {
		http.Error(w, "Missing model", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls[req.Model]++
	callNum := s.calls[req.Model]
	s.captured = append(s.captured, capturedRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		ReceivedAt:  time.Now().UTC(),
	})
	s.mu.Unlock()

	fix := s.resolve(req, callNum)
	s.logger.Info("completion served", "model", req.Model, "call", callNum, "bytes", len(fix.Content))

	finish := fix.FinishReason
	if finish == "" {
		finish = "stop"
	}

	resp := map[string]any{
		"id":      "chatcmpl-" + uuid.NewString(),
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   req.Model,
		"choices": []map[string]any{{
			"index": 0,
			"message": map[string]any{
				"role":    "assistant",
				"content": fix.Content,
			},
			"finish_reason": finish,
		}},
		"usage": map[string]any{
			"prompt_tokens":     estimateTokens(req.Messages),
			"completion_tokens": len(fix.Content) / 4,
			"total_tokens":      estimateTokens(req.Messages) + len(fix.Content)/4,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// resolve picks a fixture: numbered sequence first, then a single
// fixture file, then the built-in agent defaults.
func (s *server) resolve(req chatRequest, callNum int) fixture {
	if s.fixturesDir != "" {
		if fix, ok := s.loadNumbered(req.Model, callNum); ok {
			return fix
		}
		if fix, ok := s.loadFile(filepath.Join(s.fixturesDir, req.Model+".json")); ok {
			return fix
		}
	}
	return defaultFixture(req)
}

// loadNumbered returns <model>_<n>.json, clamping past the highest
// existing number so a short sequence keeps answering.
func (s *server) loadNumbered(model string, callNum int) (fixture, bool) {
	for n := callNum; n >= 1; n-- {
		path := filepath.Join(s.fixturesDir, fmt.Sprintf("%s_%d.json", model, n))
		if fix, ok := s.loadFile(path); ok {
			return fix, true
		}
	}
	return fixture{}, false
}

func (s *server) loadFile(path string) (fixture, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, false
	}
	var fix fixture
	if err := json.Unmarshal(data, &fix); err == nil && fix.Content != "" {
		return fix, true
	}
	// Raw content file.
	return fixture{Content: string(data)}, true
}

// defaultFixture answers by sniffing the system prompt so each chart
// agent gets a plausible output without any fixture files.
func defaultFixture(req chatRequest) fixture {
	var system string
	if len(req.Messages) > 0 && req.Messages[0].Role == "system" {
		system = req.Messages[0].Content
	}

	switch {
	case strings.Contains(system, "Data Transformation Specialist"):
		return fixture{Content: defaultTransformerOutput}
	case strings.Contains(system, "Chart Analyst"):
		return fixture{Content: defaultAnalystOutput}
	case strings.Contains(system, "Visualization Strategist"):
		return fixture{Content: defaultVizOutput}
	case strings.Contains(system, "Design Consultant"):
		return fixture{Content: defaultDesignOutput}
	case strings.Contains(system, "Patch Generator"):
		return fixture{Content: defaultPatchOutput}
	case strings.Contains(system, "Chart Editor"):
		return fixture{Content: defaultEditorOutput}
	}
	return fixture{Content: "OK"}
}

func (s *server) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	models := []map[string]any{}
	if s.fixturesDir != "" {
		seen := map[string]bool{}
		entries, _ := os.ReadDir(s.fixturesDir)
		for _, e := range entries {
			name := strings.TrimSuffix(e.Name(), ".json")
			if i := strings.LastIndex(name, "_"); i > 0 {
				name = name[:i]
			}
			if !seen[name] {
				seen[name] = true
				models = append(models, map[string]any{"id": name, "object": "model"})
			}
		}
		sort.Slice(models, func(i, j int) bool {
			return models[i]["id"].(string) < models[j]["id"].(string)
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": models})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := make(map[string]int, len(s.calls))
	total := 0
	for model, n := range s.calls {
		stats[model] = n
		total += n
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"totalRequests": total,
		"byModel":       stats,
	})
}

func (s *server) handleRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	captured := make([]capturedRequest, len(s.captured))
	copy(captured, s.captured)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(captured)
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.Lock()
	s.calls = make(map[string]int)
	s.captured = nil
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func estimateTokens(messages []chatMessage) int {
	n := 0
	for _, m := range messages {
		n += len(m.Content) / 4
	}
	return n
}

const defaultTransformerOutput = `{
  "columns": [
    {"name": "Quarter", "type": "temporal", "role": "dimension"},
    {"name": "Sales", "type": "numeric", "role": "measure"}
  ],
  "dataFormat": "tall",
  "needsTransformation": false,
  "plotReadyStructure": {
    "dimensions": ["Quarter"],
    "measures": ["Sales"],
    "suggestedXAxis": "Quarter",
    "suggestedYAxis": ["Sales"]
  }
}`

const defaultAnalystOutput = `{
  "chartRecommendations": [
    {
      "priority": 1,
      "chartType": "Line Chart",
      "businessQuestion": "How are sales trending over time?",
      "insightType": "trend",
      "dataPreparation": {
        "groupBy": ["Quarter"],
        "aggregations": {"Sales": "sum"}
      },
      "chartMapping": {"xAxis": "Quarter", "yAxis": "Sales"}
    }
  ],
  "dashboardStrategy": "Lead with the trend view."
}`

const defaultVizOutput = `Chart specification for static export:
- Chart type: line with markers at each data point
- Show all data labels since the chart is exported as a static image
- Legend positioned top-right, horizontal layout
- Y-axis starts at zero with gridlines every major tick`

const defaultDesignOutput = `Design specification:
- Color palette: #2E5BFF primary, #8C54FF secondary, #00C1D4 accent
- Title: 20px semibold, left aligned
- Axis labels: 12px regular, #6B7A99
- Spacing: 24px chart margins, 16px between legend items`

const defaultPatchOutput = `{
  "editType": "simple",
  "operations": [
    {"op": "replace", "path": "title.text", "value": "Updated Chart"}
  ],
  "explanation": "Chart title updated"
}`

const defaultEditorOutput = "```json\n" + `{
  "chart": {"type": "line"},
  "title": {"text": "Updated Chart"},
  "series": [{"name": "Sales", "data": [100, 140, 120]}]
}` + "\n```"
