package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iashutoshrawat/lumora/agents"
	"github.com/iashutoshrawat/lumora/edit"
	"github.com/iashutoshrawat/lumora/llm"
)

// promptRouter answers by matching the system prompt so parallel
// agents get deterministic responses.
type promptRouter struct {
	mu        sync.Mutex
	responses map[string]string
}

func (c *promptRouter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, content := range c.responses {
		if strings.Contains(req.Messages[0].Content, key) {
			return &llm.Response{Content: content, Model: "test-model"}, nil
		}
	}
	return &llm.Response{Content: "", Model: "test-model"}, nil
}

const analystText = `{
	"chartRecommendations": [{
		"priority": 1,
		"chartType": "Line Chart",
		"insightType": "trend",
		"dataPreparation": {
			"groupBy": ["Quarter", "Product"],
			"aggregations": {"Sales": "sum"}
		},
		"chartMapping": {"xAxis": "Quarter", "yAxis": "Sales", "groupBy": "Product"}
	}]
}`

func testHandler(caller llm.Caller) *Handler {
	return NewHandler(
		agents.NewPipeline(caller),
		edit.NewEditor(caller),
	)
}

func analyzeBody() string {
	return `{
		"data": {
			"columns": ["Product", "Quarter", "Sales"],
			"rows": [
				{"Product": "Widgets", "Quarter": "Q1", "Sales": 100},
				{"Product": "Widgets", "Quarter": "Q2", "Sales": 140},
				{"Product": "Gadgets", "Quarter": "Q1", "Sales": 80},
				{"Product": "Gadgets", "Quarter": "Q2", "Sales": 95}
			]
		},
		"userMessage": "Show the sales trend"
	}`
}

func TestHandleAnalyzeStreamsEvents(t *testing.T) {
	caller := &promptRouter{responses: map[string]string{
		"Data Transformation Specialist": `{"columns": [{"name": "Product"}], "dataFormat": "tall", "needsTransformation": false}`,
		"Chart Analyst Agent":            analystText,
		"Visualization Strategist Agent": "- Show all data labels\n- Legend top-right",
		"Design Consultant Agent":        "- McKinsey palette\n- Chart title 20pt",
	}}

	mux := http.NewServeMux()
	testHandler(caller).Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/chat/analyze-and-chart", strings.NewReader(analyzeBody()))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	var types []string
	var complete map[string]any
	for _, line := range strings.Split(rec.Body.String(), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var frame map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame))
		eventType, _ := frame["type"].(string)
		types = append(types, eventType)
		if eventType == agents.EventComplete {
			complete = frame
		}
	}

	assert.Contains(t, types, agents.EventAgentStart)
	assert.Contains(t, types, agents.EventAgentComplete)
	require.NotNil(t, complete)
	assert.Equal(t, true, complete["success"])
	assert.Nil(t, complete["transformedData"])

	agentReports := complete["agents"].(map[string]any)
	assert.Contains(t, agentReports, "dataTransformer")
	assert.Contains(t, agentReports, "designConsultant")
}

func TestHandleAnalyzeRejectsInvalidData(t *testing.T) {
	mux := http.NewServeMux()
	testHandler(&promptRouter{}).Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/chat/analyze-and-chart", strings.NewReader(`{"data": {}}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePlan(t *testing.T) {
	mux := http.NewServeMux()
	testHandler(&promptRouter{}).Register(mux)

	body := map[string]any{
		"data": map[string]any{
			"columns": []string{"Product", "Quarter", "Sales"},
			"rows": []map[string]any{
				{"Product": "Widgets", "Quarter": "Q1", "Sales": 100},
				{"Product": "Widgets", "Quarter": "Q2", "Sales": 140},
				{"Product": "Gadgets", "Quarter": "Q1", "Sales": 80},
				{"Product": "Gadgets", "Quarter": "Q2", "Sales": 95},
			},
		},
		"agents": map[string]any{
			"chartAnalyst":  analystText,
			"vizStrategist": "Use a line chart with all labels shown.",
		},
		"design": map[string]any{
			"palette": map[string]any{"name": "house-style"},
		},
	}
	data, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/chart/plan", strings.NewReader(string(data)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Plan)

	assert.Equal(t, "line", resp.Plan.ChartType)
	assert.Equal(t, "Quarter", resp.Plan.XKey)

	// One pivoted series per product.
	keys := make([]string, 0, len(resp.Plan.Series))
	for _, s := range resp.Plan.Series {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"Widgets", "Gadgets"}, keys)

	// Caller override wins over the derived design; derived fields remain.
	require.NotNil(t, resp.Design)
	palette := resp.Design["palette"].(map[string]any)
	assert.Equal(t, "house-style", palette["name"])
	assert.Contains(t, resp.Design, "typography")
	require.NotNil(t, resp.VizStrategy)
	assert.Contains(t, resp.VizStrategy, "staticElements")
}

func TestHandlePlanFallsBackToDefaultPlan(t *testing.T) {
	mux := http.NewServeMux()
	testHandler(&promptRouter{}).Register(mux)

	body := `{
		"data": {
			"columns": ["Region", "Sales"],
			"rows": [{"Region": "North", "Sales": 10}, {"Region": "South", "Sales": 20}]
		},
		"agents": {"chartAnalyst": "no json here"}
	}`

	req := httptest.NewRequest(http.MethodPost, "/api/chart/plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "default", resp.Plan.RecommendationID)
	assert.Equal(t, "Region", resp.Plan.XKey)
}

func TestHandlePlanRejectsEmptyRows(t *testing.T) {
	mux := http.NewServeMux()
	testHandler(&promptRouter{}).Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/chart/plan", strings.NewReader(`{"data": {"columns": ["A"], "rows": []}}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleEditPatchPath(t *testing.T) {
	caller := &promptRouter{responses: map[string]string{
		"Patch Generator": `{"editType": "simple", "operations": [{"op": "replace", "path": "title.text", "value": "New"}], "explanation": "Title updated"}`,
	}}

	mux := http.NewServeMux()
	testHandler(caller).Register(mux)

	body := `{
		"currentConfig": {"title": {"text": "Old"}},
		"userRequest": "Rename the chart to New"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/chart/edit", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp edit.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, edit.MethodPatch, resp.EditMethod)
	assert.Equal(t, "New", resp.ModifiedConfig["title"].(map[string]any)["text"])
}

func TestHandleEditParseFailureReturnsRawOutput(t *testing.T) {
	caller := &promptRouter{responses: map[string]string{
		"Patch Generator":    `{"editType": "complex"}`,
		"Chart Editor Agent": "I refuse to emit JSON.",
	}}

	mux := http.NewServeMux()
	testHandler(caller).Register(mux)

	body := `{"currentConfig": {"title": {"text": "Old"}}, "userRequest": "Redesign"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chart/edit", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "I refuse to emit JSON.", resp["rawOutput"])
}

func TestHandleEditRejectsMissingFields(t *testing.T) {
	mux := http.NewServeMux()
	testHandler(&promptRouter{}).Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/chart/edit", strings.NewReader(`{"userRequest": "hi"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDebugPlanAcknowledges(t *testing.T) {
	mux := http.NewServeMux()
	testHandler(&promptRouter{}).Register(mux)

	body := `{
		"chartType": "line",
		"xKey": "Quarter",
		"data": {"columns": ["Quarter", "Widgets"], "rows": [{"Quarter": "Q1", "Widgets": 100}]},
		"series": [{"key": "Widgets", "color": "#2E5BFF"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/debug/chart-plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	// No sink configured, so nothing is published.
	assert.Equal(t, false, resp["published"])
}

func TestHealthz(t *testing.T) {
	mux := http.NewServeMux()
	testHandler(&promptRouter{}).Register(mux)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestMethodNotAllowed(t *testing.T) {
	mux := http.NewServeMux()
	testHandler(&promptRouter{}).Register(mux)

	for _, path := range []string{"/api/chat/analyze-and-chart", "/api/chart/plan", "/api/chart/edit", "/api/debug/chart-plan"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}
