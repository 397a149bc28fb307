package agents

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iashutoshrawat/lumora/llm"
	"github.com/iashutoshrawat/lumora/tabular"
)

// routingCaller answers by matching the system prompt, so the parallel
// agents get deterministic responses regardless of scheduling.
type routingCaller struct {
	mu        sync.Mutex
	responses map[string]string
	errors    map[string]error
	calls     []llm.Request
}

func (c *routingCaller) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, req)

	system := req.Messages[0].Content
	for key, err := range c.errors {
		if strings.Contains(system, key) {
			return nil, err
		}
	}
	for key, content := range c.responses {
		if strings.Contains(system, key) {
			return &llm.Response{Content: content, Model: "test-model"}, nil
		}
	}
	return &llm.Response{Content: "", Model: "test-model"}, nil
}

const transformerResponse = `{
	"columns": [
		{"name": "Product", "type": "dimension", "dataType": "string", "role": "categorical"},
		{"name": "Q1", "type": "measure", "dataType": "number", "role": "implicitDimension"},
		{"name": "Q2", "type": "measure", "dataType": "number", "role": "implicitDimension"}
	],
	"dataFormat": "wide",
	"needsTransformation": true,
	"transformationReason": "Quarters are spread across columns",
	"transformation": {
		"type": "unpivot",
		"idColumns": ["Product"],
		"valueColumns": ["Q1", "Q2"],
		"newDimensionColumn": "Quarter",
		"newMeasureColumn": "Sales"
	},
	"plotReadyStructure": {
		"dimensions": ["Product", "Quarter"],
		"measures": ["Sales"],
		"suggestedXAxis": "Quarter",
		"suggestedYAxis": "Sales",
		"groupBy": "Product"
	}
}`

const analystResponse = `{
	"chartRecommendations": [{
		"priority": 1,
		"chartType": "Line Chart",
		"chartTitle": "Sales grew 40% driven by Q2 promotions",
		"insightType": "trend",
		"dataPreparation": {
			"groupBy": ["Quarter", "Product"],
			"aggregations": {"Sales": "sum"}
		},
		"chartMapping": {"xAxis": "Quarter", "yAxis": "Sales", "groupBy": "Product"}
	}]
}`

const vizResponse = `Specification:
- Show all data labels formatted as $0.0a
- Add a target line at the 2026 goal
- Legend top-right with direct labeling preferred`

const designResponse = `Design:
- McKinsey palette with primary #004B87
- Chart title at 20pt weight 600
- Grid lines light gray dashed`

func pipelineInput() AnalyzeInput {
	return AnalyzeInput{
		Columns: []string{"Product", "Q1", "Q2"},
		Rows: []tabular.Row{
			{"Product": "Widgets", "Q1": 100.0, "Q2": 140.0},
			{"Product": "Gadgets", "Q1": 80.0, "Q2": 95.0},
		},
	}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) emit(eventType string, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, _ := payload["agentName"].(string)
	r.events = append(r.events, eventType+":"+name)
}

func TestPipelineRun(t *testing.T) {
	caller := &routingCaller{responses: map[string]string{
		"Data Transformation Specialist": transformerResponse,
		"Chart Analyst Agent":            analystResponse,
		"Visualization Strategist Agent": vizResponse,
		"Design Consultant Agent":        designResponse,
	}}
	recorder := &eventRecorder{}

	pipeline := NewPipeline(caller)
	result, err := pipeline.Run(context.Background(), pipelineInput(), recorder.emit)

	require.NoError(t, err)
	require.True(t, result.Success)

	// The unpivot turned 2 wide rows into 4 tall ones.
	require.NotNil(t, result.TransformedData)
	assert.Equal(t, []string{"Product", "Quarter", "Sales"}, result.TransformedData.Columns)
	assert.Len(t, result.TransformedData.Rows, 4)
	assert.True(t, result.Transformation.Applied)
	assert.Contains(t, result.Transformation.Details, "from 3 columns × 2 rows to 3 columns × 4 rows")

	require.NotNil(t, result.Analysis)
	require.Len(t, result.Analysis.ChartRecommendations, 1)
	assert.Equal(t, "trend", result.Analysis.ChartRecommendations[0].InsightType)

	assert.Equal(t, vizResponse, result.Agents.VizStrategist.Output)
	assert.Equal(t, designResponse, result.Agents.DesignConsultant.Output)
	assert.NotEmpty(t, result.Summary.ChartInsights)
	assert.NotEmpty(t, result.Summary.StyleGuide)

	for _, want := range []string{
		"agent-start:Data Transformer", "agent-complete:Data Transformer",
		"agent-start:Chart Analyst", "agent-complete:Chart Analyst",
		"agent-start:Visualization Strategist", "agent-complete:Visualization Strategist",
		"agent-start:Design Consultant", "agent-complete:Design Consultant",
		"complete:",
	} {
		assert.Contains(t, recorder.events, want)
	}
}

func TestPipelineRunKeepsOriginalDataOnParseFailure(t *testing.T) {
	caller := &routingCaller{responses: map[string]string{
		"Data Transformation Specialist": "I could not decide on a structure.",
		"Chart Analyst Agent":            analystResponse,
		"Visualization Strategist Agent": vizResponse,
		"Design Consultant Agent":        designResponse,
	}}

	pipeline := NewPipeline(caller)
	result, err := pipeline.Run(context.Background(), pipelineInput(), nil)

	require.NoError(t, err)
	assert.Nil(t, result.TransformedData)
	assert.False(t, result.Transformation.Applied)
	assert.Equal(t, "No transformation needed", result.Transformation.Details)
	assert.Equal(t, []string{"Data is already in optimal format"}, result.Summary.Transformation)
}

func TestPipelineRunParallelAgentFailure(t *testing.T) {
	caller := &routingCaller{
		responses: map[string]string{
			"Data Transformation Specialist": transformerResponse,
			"Chart Analyst Agent":            analystResponse,
			"Visualization Strategist Agent": vizResponse,
		},
		errors: map[string]error{
			"Design Consultant Agent": errors.New("rate limited"),
		},
	}
	recorder := &eventRecorder{}

	pipeline := NewPipeline(caller)
	_, err := pipeline.Run(context.Background(), pipelineInput(), recorder.emit)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Design Consultant")
	assert.Contains(t, recorder.events, "error:Design Consultant")
}

func TestPipelineRunRejectsEmptyInput(t *testing.T) {
	pipeline := NewPipeline(&routingCaller{})
	_, err := pipeline.Run(context.Background(), AnalyzeInput{}, nil)
	require.Error(t, err)
}

func TestPipelineRunUsesAgentCapabilities(t *testing.T) {
	caller := &routingCaller{responses: map[string]string{
		"Data Transformation Specialist": transformerResponse,
		"Chart Analyst Agent":            analystResponse,
		"Visualization Strategist Agent": vizResponse,
		"Design Consultant Agent":        designResponse,
	}}

	pipeline := NewPipeline(caller)
	_, err := pipeline.Run(context.Background(), pipelineInput(), nil)
	require.NoError(t, err)

	capabilities := map[string]string{}
	for _, req := range caller.calls {
		switch {
		case strings.Contains(req.Messages[0].Content, "Data Transformation Specialist"):
			capabilities["transformer"] = req.Capability
		case strings.Contains(req.Messages[0].Content, "Chart Analyst Agent"):
			capabilities["analyst"] = req.Capability
		case strings.Contains(req.Messages[0].Content, "Visualization Strategist Agent"):
			capabilities["strategist"] = req.Capability
		case strings.Contains(req.Messages[0].Content, "Design Consultant Agent"):
			capabilities["design"] = req.Capability
		}
	}

	assert.Equal(t, "fast", capabilities["transformer"])
	assert.Equal(t, "analysis", capabilities["analyst"])
	assert.Equal(t, "styling", capabilities["strategist"])
	assert.Equal(t, "styling", capabilities["design"])
}

func TestExtractKeyPoints(t *testing.T) {
	t.Run("bullets win", func(t *testing.T) {
		text := "Overview paragraph that is long enough to qualify as a sentence fallback.\n- First key insight about the trend\n- Second insight on composition\n• Third with a unicode bullet"
		points := ExtractKeyPoints(text)
		require.Len(t, points, 3)
		assert.Equal(t, "First key insight about the trend", points[0])
		assert.Equal(t, "Third with a unicode bullet", points[2])
	})

	t.Run("falls back to sentence-length lines", func(t *testing.T) {
		text := "Short.\nThis line is comfortably over fifty characters long and reads like a sentence.\nAnother line that also clears the fifty character minimum for the fallback path."
		points := ExtractKeyPoints(text)
		require.Len(t, points, 2)
	})

	t.Run("caps at five", func(t *testing.T) {
		text := "- point one is long enough\n- point two is long enough\n- point three is long enough\n- point four is long enough\n- point five is long enough\n- point six is long enough"
		assert.Len(t, ExtractKeyPoints(text), 5)
	})
}

func TestAnalystOutputCandidates(t *testing.T) {
	result := ParseAndValidate(analystResponse, "Chart Analyst", (*AnalystOutput).Validate)
	require.True(t, result.Success, result.Error)

	candidates := result.Data.Candidates()
	require.Len(t, candidates, 1)
	c := candidates[0]
	assert.True(t, c.HasPriority)
	assert.Equal(t, 1, c.Priority)
	assert.Equal(t, "Line Chart", c.ChartType)
	assert.Equal(t, []string{"Sales"}, c.ChartMapping.YAxis)
	assert.Equal(t, "Product", c.ChartMapping.GroupBy)
	assert.Equal(t, map[string]string{"Sales": "sum"}, c.DataPreparation.Aggregations)
}
