package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/iashutoshrawat/lumora/llm"
	"github.com/iashutoshrawat/lumora/model"
	"github.com/iashutoshrawat/lumora/tabular"
)

// Agent display names used in progress events.
const (
	NameDataTransformer  = "Data Transformer"
	NameChartAnalyst     = "Chart Analyst"
	NameVizStrategist    = "Visualization Strategist"
	NameDesignConsultant = "Design Consultant"
)

// Event types emitted while the pipeline runs.
const (
	EventAgentStart    = "agent-start"
	EventAgentComplete = "agent-complete"
	EventError         = "error"
	EventComplete      = "complete"
)

// EventFunc receives pipeline progress events. The payload is merged
// with the event type when serialized for streaming.
type EventFunc func(eventType string, payload map[string]any)

// AnalyzeInput is the tabular data and optional user request driving
// one pipeline run.
type AnalyzeInput struct {
	Columns     []string      `json:"columns"`
	Rows        []tabular.Row `json:"rows"`
	UserMessage string        `json:"userMessage,omitempty"`
}

// AgentReport pairs an agent's raw output with its role description.
type AgentReport struct {
	Output string `json:"output"`
	Role   string `json:"role"`
}

// TransformationReport summarizes what happened to the input data.
type TransformationReport struct {
	Applied        bool               `json:"applied"`
	Recommendation *TransformerOutput `json:"recommendation"`
	Details        string             `json:"details"`
}

// Dataset is columns plus rows, the unit the pipeline transforms.
type Dataset struct {
	Columns []string      `json:"columns"`
	Rows    []tabular.Row `json:"rows"`
}

// Summary holds the key points extracted from each agent's output.
type Summary struct {
	Transformation      []string `json:"transformation"`
	ChartInsights       []string `json:"chartInsights"`
	ChartRecommendation []string `json:"chartRecommendation"`
	StyleGuide          []string `json:"styleGuide"`
}

// Result is the full outcome of a pipeline run. TransformedData is
// nil when the input was already plot-ready.
type Result struct {
	Success         bool                 `json:"success"`
	TransformedData *Dataset             `json:"transformedData"`
	Transformation  TransformationReport `json:"transformation"`
	Agents          struct {
		DataTransformer  AgentReport `json:"dataTransformer"`
		ChartAnalyst     AgentReport `json:"chartAnalyst"`
		VizStrategist    AgentReport `json:"vizStrategist"`
		DesignConsultant AgentReport `json:"designConsultant"`
	} `json:"agents"`
	Summary Summary `json:"summary"`

	// Analysis is the parsed analyst output, ready for chart planning.
	Analysis *AnalystOutput `json:"-"`
}

// Pipeline orchestrates the four chart agents against an LLM caller.
type Pipeline struct {
	caller      llm.Caller
	logger      *slog.Logger
	maxRetries  int
	backoffBase time.Duration
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = logger }
}

// WithRetry sets the per-agent validation retry count and backoff.
func WithRetry(maxRetries int, backoffBase time.Duration) PipelineOption {
	return func(p *Pipeline) {
		p.maxRetries = maxRetries
		p.backoffBase = backoffBase
	}
}

// NewPipeline creates a pipeline backed by the given LLM caller.
func NewPipeline(caller llm.Caller, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		caller:      caller,
		logger:      slog.Default(),
		maxRetries:  2,
		backoffBase: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func temperature(v float64) *float64 { return &v }

// runAgent performs one LLM call wrapped in start/complete/error
// events. The agentKey resolves the model capability; displayName is
// what event consumers see.
func (p *Pipeline) runAgent(ctx context.Context, emit EventFunc, agentKey, displayName, system, prompt string, temp float64) (string, error) {
	emit(EventAgentStart, map[string]any{"agentName": displayName})

	resp, err := p.caller.Complete(ctx, llm.Request{
		Capability: string(model.CapabilityForAgent(agentKey)),
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature(temp),
	})
	if err != nil {
		p.logger.Error("Agent failed", "agent", displayName, "error", err)
		emit(EventError, map[string]any{"agentName": displayName, "message": err.Error()})
		return "", fmt.Errorf("%s: %w", displayName, err)
	}

	emit(EventAgentComplete, map[string]any{"agentName": displayName})
	return resp.Content, nil
}

// Run executes the full pipeline: transform, analyze, then strategist
// and design consultant in parallel. Events fire as each agent starts
// and finishes; the terminal complete event carries the Result.
func (p *Pipeline) Run(ctx context.Context, input AnalyzeInput, emit EventFunc) (*Result, error) {
	if emit == nil {
		emit = func(string, map[string]any) {}
	}
	if len(input.Columns) == 0 || len(input.Rows) == 0 {
		return nil, fmt.Errorf("data must include columns and rows")
	}

	dataContext := buildDataContext(input)

	p.logger.Info("Starting multi-agent analysis", "columns", len(input.Columns), "rows", len(input.Rows))

	transformerText, err := p.runAgent(ctx, emit, "data-transformer", NameDataTransformer, dataTransformerPrompt, dataContext, 0.2)
	if err != nil {
		return nil, err
	}

	// Parse failure here is not fatal: the remaining agents work on
	// the original data instead.
	var recommendation *TransformerOutput
	transformed := Dataset{Columns: input.Columns, Rows: input.Rows}
	applied := false

	parseResult := ParseAndValidate(transformerText, NameDataTransformer, (*TransformerOutput).Validate)
	if parseResult.Success {
		recommendation = parseResult.Data
		if recommendation.NeedsTransformation && recommendation.Transformation != nil {
			rows := tabular.ApplyTransformation(input.Rows, recommendation.Transformation)
			if len(rows) > 0 {
				transformed = Dataset{Columns: tabular.ColumnNames(rows), Rows: rows}
				applied = true
				p.logger.Info("Transformation applied", "type", recommendation.Transformation.Type)
			}
		} else {
			p.logger.Info("No transformation needed, data is already plot-ready")
		}
	} else {
		p.logger.Warn("Using original data due to parse failure", "error", parseResult.Error)
	}

	transformedContext := buildTransformedContext(input, transformed, recommendation, applied)

	var analysis *AnalystOutput
	var analystText string
	analystResult := RetryWithValidation(ctx, func(ctx context.Context) (string, error) {
		text, err := p.runAgent(ctx, emit, "chart-analyst", NameChartAnalyst, chartAnalystPrompt, transformedContext, 0.3)
		if err == nil {
			analystText = text
		}
		return text, err
	}, (*AnalystOutput).Validate, RetryOptions{
		MaxRetries:  p.maxRetries,
		AgentName:   NameChartAnalyst,
		BackoffBase: p.backoffBase,
		OnRetry: func(attempt int, errMsg string) {
			p.logger.Warn("Retrying chart analyst", "attempt", attempt, "error", errMsg)
		},
	})
	if !analystResult.Success {
		emit(EventError, map[string]any{"agentName": NameChartAnalyst, "message": analystResult.Error})
		return nil, fmt.Errorf("chart analyst: %s", analystResult.Error)
	}
	analysis = analystResult.Data

	vizText, designText, err := p.runParallelAgents(ctx, emit, transformedContext, recommendation, analystText)
	if err != nil {
		return nil, err
	}

	result := &Result{Success: true, Analysis: analysis}
	if applied {
		result.TransformedData = &transformed
	}
	result.Transformation = TransformationReport{
		Applied:        applied,
		Recommendation: recommendation,
		Details:        transformationDetails(input, transformed, applied),
	}
	result.Agents.DataTransformer = AgentReport{Output: transformerText, Role: "Data structure analysis and transformation"}
	result.Agents.ChartAnalyst = AgentReport{Output: analystText, Role: "Strategic chart recommendations and data operations"}
	result.Agents.VizStrategist = AgentReport{Output: vizText, Role: "Static chart specifications for PowerPoint/PDF/PNG exports"}
	result.Agents.DesignConsultant = AgentReport{Output: designText, Role: "Pixel-perfect design specifications (colors, typography, spacing)"}

	result.Summary = Summary{
		Transformation:      transformationSummary(applied, transformerText),
		ChartInsights:       ExtractKeyPoints(analystText),
		ChartRecommendation: ExtractKeyPoints(vizText),
		StyleGuide:          ExtractKeyPoints(designText),
	}

	emit(EventComplete, completePayload(result))

	p.logger.Info("Multi-agent analysis complete", "transformationApplied", applied)
	return result, nil
}

// runParallelAgents runs the strategist and design consultant
// concurrently. Each failure gets its own error event before the
// first error wins.
func (p *Pipeline) runParallelAgents(ctx context.Context, emit EventFunc, transformedContext string, recommendation *TransformerOutput, analystText string) (string, string, error) {
	vizPrompt := buildVizPrompt(transformedContext, recommendation, analystText)
	designPrompt := buildDesignPrompt(transformedContext, analystText)

	var wg sync.WaitGroup
	var vizText, designText string
	var vizErr, designErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		vizText, vizErr = p.runAgent(ctx, emit, "viz-strategist", NameVizStrategist, vizStrategistPrompt, vizPrompt, 0.4)
	}()
	go func() {
		defer wg.Done()
		designText, designErr = p.runAgent(ctx, emit, "design-consultant", NameDesignConsultant, designConsultantPrompt, designPrompt, 0.5)
	}()
	wg.Wait()

	if vizErr != nil {
		return "", "", vizErr
	}
	if designErr != nil {
		return "", "", designErr
	}
	return vizText, designText, nil
}

func buildDataContext(input AnalyzeInput) string {
	details := make([]string, 0, len(input.Columns))
	for _, col := range input.Columns {
		stats := tabular.GetColumnStats(input.Rows, col)
		details = append(details, fmt.Sprintf("%s (%s, %d unique values)", col, stats.Type, stats.UniqueCount))
	}

	var b strings.Builder
	b.WriteString("DATA STRUCTURE:\n")
	fmt.Fprintf(&b, "- Columns: %s\n", strings.Join(input.Columns, ", "))
	fmt.Fprintf(&b, "- Column Details: %s\n", strings.Join(details, ", "))
	fmt.Fprintf(&b, "- Row Count: %d\n", len(input.Rows))
	fmt.Fprintf(&b, "- Sample Data (first 3 rows): %s\n", sampleJSON(input.Rows))
	b.WriteString("\n")
	b.WriteString(userRequestLine(input.UserMessage))
	return b.String()
}

func buildTransformedContext(input AnalyzeInput, transformed Dataset, recommendation *TransformerOutput, applied bool) string {
	label := "ORIGINAL"
	if applied {
		label = "TRANSFORMED"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DATA STRUCTURE (%s):\n", label)
	fmt.Fprintf(&b, "- Columns: %s\n", strings.Join(transformed.Columns, ", "))
	fmt.Fprintf(&b, "- Row Count: %d\n", len(transformed.Rows))
	fmt.Fprintf(&b, "- Sample Data (first 3 rows): %s\n", sampleJSON(transformed.Rows))
	if applied {
		reason := "Data reshaped for optimal plotting"
		if recommendation != nil && recommendation.TransformationReason != "" {
			reason = recommendation.TransformationReason
		}
		fmt.Fprintf(&b, "\n- Transformation Applied: %s\n", reason)
	}
	b.WriteString("\n")
	b.WriteString(userRequestLine(input.UserMessage))
	return b.String()
}

func buildVizPrompt(transformedContext string, recommendation *TransformerOutput, analystText string) string {
	structure := "No transformation needed"
	if recommendation != nil {
		if data, err := json.MarshalIndent(recommendation.PlotReadyStructure, "", "  "); err == nil {
			structure = string(data)
		}
	}
	return fmt.Sprintf(`%s

PREVIOUS AGENT OUTPUT (Data Transformer):
%s

PREVIOUS AGENT OUTPUT (Chart Analyst):
%s

Based on the chart analysis above, create detailed static chart specifications for PowerPoint/PDF/PNG export. Focus on comprehensive labeling, annotations, and consulting standards. Remember: no tooltips exist - all information must be visible on the chart.`,
		transformedContext, structure, analystText)
}

func buildDesignPrompt(transformedContext, analystText string) string {
	return fmt.Sprintf(`%s

CHART ANALYSIS:
%s

Create pixel-perfect design specifications following McKinsey/BCG/Bain consulting standards. Specify exact colors (hex codes), typography (sizes, weights), spacing (pixels), and all visual elements. Remember: you are the final agent before implementation - every visual decision must be explicit and precise.`,
		transformedContext, analystText)
}

func userRequestLine(userMessage string) string {
	if userMessage != "" {
		return fmt.Sprintf("USER REQUEST: %q\n", userMessage)
	}
	return "USER REQUEST: Analyze this data and create a professional visualization\n"
}

func sampleJSON(rows []tabular.Row) string {
	sample := rows
	if len(sample) > 3 {
		sample = sample[:3]
	}
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

func transformationDetails(input AnalyzeInput, transformed Dataset, applied bool) string {
	if !applied {
		return "No transformation needed"
	}
	return fmt.Sprintf("Data was reshaped from %d columns × %d rows to %d columns × %d rows",
		len(input.Columns), len(input.Rows), len(transformed.Columns), len(transformed.Rows))
}

func transformationSummary(applied bool, transformerText string) []string {
	if !applied {
		return []string{"Data is already in optimal format"}
	}
	return ExtractKeyPoints(transformerText)
}

// completePayload flattens a Result into the event payload shape.
func completePayload(r *Result) map[string]any {
	data, err := json.Marshal(r)
	if err != nil {
		return map[string]any{"success": r.Success}
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return map[string]any{"success": r.Success}
	}
	return payload
}

var (
	numberedLine = regexp.MustCompile(`^\d+\.`)
	bulletPrefix = regexp.MustCompile(`^[\s•\-*\d.]+`)
)

// ExtractKeyPoints pulls bullet points or numbered items out of free
// agent prose. With no bullets at all it falls back to the first few
// sentence-length lines.
func ExtractKeyPoints(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	var points []string
	for _, line := range lines {
		if strings.Contains(line, "•") || strings.Contains(line, "-") ||
			strings.Contains(line, "*") || numberedLine.MatchString(strings.TrimSpace(line)) {
			cleaned := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
			if len(cleaned) > 10 {
				points = append(points, cleaned)
			}
		}
	}

	if len(points) == 0 {
		for _, line := range lines {
			if len(line) > 50 && len(line) < 200 {
				points = append(points, line)
				if len(points) == 3 {
					break
				}
			}
		}
		return points
	}

	if len(points) > 5 {
		points = points[:5]
	}
	return points
}
