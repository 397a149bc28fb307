// Package edit modifies existing chart configurations from natural
// language requests. Edits run in two stages: a fast patch planner
// that emits minimal operations for simple changes, and a full
// regeneration fallback for everything else.
package edit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iashutoshrawat/lumora/agents"
	"github.com/iashutoshrawat/lumora/jsonpatch"
	"github.com/iashutoshrawat/lumora/llm"
	"github.com/iashutoshrawat/lumora/model"
)

// Edit methods reported in responses.
const (
	MethodPatch            = "patch"
	MethodFullRegeneration = "full-regeneration"
)

// ChatMessage is one turn of the edit conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Request describes one chart edit.
type Request struct {
	CurrentConfig map[string]any `json:"currentConfig"`
	UserRequest   string         `json:"userRequest"`
	ChatHistory   []ChatMessage  `json:"chatHistory,omitempty"`
}

// Response is the outcome of an edit.
type Response struct {
	RequestID        string         `json:"requestId"`
	Success          bool           `json:"success"`
	ModifiedConfig   map[string]any `json:"modifiedConfig"`
	ChangesSummary   []string       `json:"changesSummary"`
	AssistantMessage string         `json:"assistantMessage"`
	EditMethod       string         `json:"editMethod"`
	TimingMS         int64          `json:"timing"`
}

// ParseError is returned when the regenerated configuration cannot be
// parsed. RawOutput lets callers surface what the model produced.
type ParseError struct {
	Err       error
	RawOutput string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse modified configuration: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Editor runs two-stage chart edits against an LLM caller.
type Editor struct {
	caller       llm.Caller
	logger       *slog.Logger
	historyLimit int
	now          func() time.Time
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) EditorOption {
	return func(e *Editor) { e.logger = logger }
}

// WithHistoryLimit caps how many trailing chat messages are included
// as context.
func WithHistoryLimit(limit int) EditorOption {
	return func(e *Editor) { e.historyLimit = limit }
}

// NewEditor creates an editor backed by the given LLM caller.
func NewEditor(caller llm.Caller, opts ...EditorOption) *Editor {
	e := &Editor{
		caller:       caller,
		logger:       slog.Default(),
		historyLimit: 5,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Edit applies a natural-language modification to a chart config.
// Simple edits take the patch path; anything the planner cannot
// express as operations falls through to full regeneration.
func (e *Editor) Edit(ctx context.Context, req Request) (*Response, error) {
	if req.CurrentConfig == nil || req.UserRequest == "" {
		return nil, fmt.Errorf("currentConfig and userRequest are required")
	}

	requestID := uuid.NewString()
	conversation := e.conversationContext(req.ChatHistory)
	e.logger.Info("Editing chart", "requestId", requestID, "request", req.UserRequest)

	start := e.now()
	if resp := e.tryPatch(ctx, req, conversation, start); resp != nil {
		resp.RequestID = requestID
		return resp, nil
	}

	resp, err := e.regenerate(ctx, req, conversation)
	if err != nil {
		return nil, err
	}
	resp.RequestID = requestID
	return resp, nil
}

// tryPatch is stage 1. A nil return means fall through to full
// regeneration; patch failures are never terminal.
func (e *Editor) tryPatch(ctx context.Context, req Request, conversation string, start time.Time) *Response {
	prompt := fmt.Sprintf("Current chart configuration:\n```json\n%s\n```\n\nUser Request: %q%s\n\nIdentify the minimal JSON patch operations needed.",
		configJSON(req.CurrentConfig), req.UserRequest, conversation)

	resp, err := e.caller.Complete(ctx, llm.Request{
		Capability: string(model.CapabilityForAgent("patch-planner")),
		Messages: []llm.Message{
			{Role: "system", Content: chartPatchPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature(0.15),
		JSONMode:    true,
	})
	if err != nil {
		e.logger.Warn("Patch approach failed, falling back to full regeneration", "error", err)
		return nil
	}

	result := agents.ParseAndValidate(resp.Content, "Patch Planner", (*agents.PatchPlan).Validate)
	if !result.Success {
		e.logger.Warn("Patch plan unparseable, falling back to full regeneration", "error", result.Error)
		return nil
	}

	plan := result.Data
	e.logger.Info("Patch analysis", "editType", plan.EditType, "operations", len(plan.Operations))

	if plan.EditType != agents.EditSimple || len(plan.Operations) == 0 {
		return nil
	}

	modified, failures := jsonpatch.Apply(req.CurrentConfig, plan.Operations)
	for _, failure := range failures {
		e.logger.Warn("Patch operation failed", "op", failure.Operation.Op, "path", failure.Operation.Path, "error", failure.Err)
	}
	stripFixedDimensions(modified)

	explanation := []string{"Chart updated"}
	if plan.Explanation != "" {
		explanation = []string{plan.Explanation}
	}

	elapsed := e.now().Sub(start)
	e.logger.Info("Patch applied", "elapsed", elapsed)

	return &Response{
		Success:          true,
		ModifiedConfig:   modified,
		ChangesSummary:   explanation,
		AssistantMessage: assistantMessage(explanation),
		EditMethod:       MethodPatch,
		TimingMS:         elapsed.Milliseconds(),
	}
}

// regenerate is stage 2: ask for the complete modified configuration.
func (e *Editor) regenerate(ctx context.Context, req Request, conversation string) (*Response, error) {
	e.logger.Info("Full regeneration for complex edit")
	start := e.now()

	prompt := fmt.Sprintf("Current Chart Configuration:\n```json\n%s\n```\n\nUser Request: %q%s\n\nGenerate the COMPLETE modified chart configuration:",
		configJSON(req.CurrentConfig), req.UserRequest, conversation)

	resp, err := e.caller.Complete(ctx, llm.Request{
		Capability: string(model.CapabilityForAgent("chart-editor")),
		Messages: []llm.Message{
			{Role: "system", Content: chartEditorPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature(0.3),
	})
	if err != nil {
		return nil, fmt.Errorf("chart editor: %w", err)
	}

	modified, err := parseRegeneratedConfig(resp.Content)
	if err != nil {
		e.logger.Error("Failed to parse modified config", "error", err)
		return nil, &ParseError{Err: err, RawOutput: resp.Content}
	}

	changes := extractChanges(req.CurrentConfig, modified)
	elapsed := e.now().Sub(start)
	e.logger.Info("Full regeneration complete", "elapsed", elapsed)

	return &Response{
		Success:          true,
		ModifiedConfig:   modified,
		ChangesSummary:   changes,
		AssistantMessage: assistantMessage(changes),
		EditMethod:       MethodFullRegeneration,
		TimingMS:         elapsed.Milliseconds(),
	}, nil
}

// conversationContext formats the trailing chat history the way the
// editor prompt expects.
func (e *Editor) conversationContext(history []ChatMessage) string {
	if len(history) == 0 {
		return ""
	}
	recent := history
	if e.historyLimit > 0 && len(recent) > e.historyLimit {
		recent = recent[len(recent)-e.historyLimit:]
	}

	var b strings.Builder
	b.WriteString("\n\nPrevious conversation:\n")
	for i, msg := range recent {
		if i > 0 {
			b.WriteString("\n")
		}
		role := "Assistant"
		if msg.Role == "user" {
			role = "User"
		}
		fmt.Fprintf(&b, "%s: %s", role, msg.Content)
	}
	return b.String()
}

var fencedConfigPattern = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")

// parseRegeneratedConfig extracts the fenced JSON block, or falls back
// to the whole response, sanitizes it, and decodes. Fixed export
// dimensions are stripped so browser rendering stays responsive.
func parseRegeneratedConfig(text string) (map[string]any, error) {
	candidate := text
	if match := fencedConfigPattern.FindStringSubmatch(text); match != nil {
		candidate = match[1]
	}

	var config map[string]any
	if err := json.Unmarshal([]byte(SanitizeChartJSON(candidate)), &config); err != nil {
		return nil, err
	}

	stripFixedDimensions(config)
	return config, nil
}

// stripFixedDimensions removes fixed chart dimensions so browser
// rendering stays responsive.
func stripFixedDimensions(config map[string]any) {
	if chart, ok := config["chart"].(map[string]any); ok {
		delete(chart, "width")
		delete(chart, "height")
	}
}

func configJSON(config map[string]any) string {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func temperature(v float64) *float64 { return &v }

func assistantMessage(changes []string) string {
	suffix := "Let me know if you need any other adjustments!"
	if len(changes) > 1 {
		suffix = "The changes should be visible now."
	}
	return fmt.Sprintf("I've updated the chart: %s. %s", strings.Join(changes, ", "), suffix)
}
