package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/iashutoshrawat/lumora/agents"
	"github.com/iashutoshrawat/lumora/chartplan"
	"github.com/iashutoshrawat/lumora/chartspec"
	"github.com/iashutoshrawat/lumora/metrics"
	"github.com/iashutoshrawat/lumora/tabular"
)

// PlanRequest is the body for POST /api/chart/plan. The agent outputs
// are the raw texts from a previous analysis run.
type PlanRequest struct {
	Data struct {
		Columns []string      `json:"columns"`
		Rows    []tabular.Row `json:"rows"`
	} `json:"data"`
	Agents struct {
		ChartAnalyst     string `json:"chartAnalyst"`
		VizStrategist    string `json:"vizStrategist,omitempty"`
		DesignConsultant string `json:"designConsultant,omitempty"`
	} `json:"agents"`
	SelectedRecommendationID string `json:"selectedRecommendationId,omitempty"`

	// Partial overrides merged on top of the spec-derived specs.
	Design      map[string]any `json:"design,omitempty"`
	VizStrategy map[string]any `json:"vizStrategy,omitempty"`
}

// PlanResponse carries the built plan and the resolved design and
// strategy specs (defaults, spec-derived values, caller overrides, in
// that order).
type PlanResponse struct {
	Success     bool            `json:"success"`
	Plan        *chartplan.Plan `json:"plan"`
	Design      map[string]any  `json:"design"`
	VizStrategy map[string]any  `json:"vizStrategy"`
}

// handlePlan turns agent outputs plus prepared data into a chart plan
// and publishes it. An unparseable analyst output still yields a
// default plan; only empty data is rejected.
func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(req.Data.Rows) == 0 {
		writeJSONError(w, http.StatusBadRequest, "Invalid data format", "rows must not be empty")
		return
	}

	var candidates []chartplan.RecommendationCandidate
	if req.Agents.ChartAnalyst != "" {
		parsed := agents.ParseAndValidate(req.Agents.ChartAnalyst, agents.NameChartAnalyst, (*agents.AnalystOutput).Validate)
		if parsed.Success {
			candidates = parsed.Data.Candidates()
		} else {
			h.logger.Warn("Analyst output unparseable, building default plan", "error", parsed.Error)
		}
	}

	spec := chartspec.Parse(chartspec.AgentOutputs{
		VizStrategist:    req.Agents.VizStrategist,
		DesignConsultant: req.Agents.DesignConsultant,
		ChartAnalyst:     req.Agents.ChartAnalyst,
	})

	plan := chartplan.BuildChartPlan(
		chartplan.Dataset{Columns: req.Data.Columns, Rows: req.Data.Rows},
		candidates,
		spec,
		&chartplan.Options{SelectedRecommendationID: req.SelectedRecommendationID},
	)
	if plan == nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "Failed to build chart plan", "")
		return
	}

	metrics.PlansBuilt.WithLabelValues(plan.ChartType).Inc()

	if h.sink != nil {
		if err := h.sink.Publish(plan); err != nil {
			h.logger.Warn("Plan publication failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, PlanResponse{
		Success:     true,
		Plan:        plan,
		Design:      chartspec.ResolveDesign(spec, req.Design),
		VizStrategy: chartspec.ResolveVizStrategy(spec, req.VizStrategy),
	})
}

// handleDebugPlan accepts an externally built plan, logs it, and
// forwards it to the sink. Acknowledgment only.
func (h *Handler) handleDebugPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var plan chartplan.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	h.logger.Info("Debug plan received",
		"chartType", plan.ChartType,
		"xKey", plan.XKey,
		"series", len(plan.Series),
		"rows", len(plan.Data.Rows),
	)

	published := false
	if h.sink != nil {
		if err := h.sink.Publish(&plan); err != nil {
			h.logger.Warn("Plan publication failed", "error", err)
		} else {
			published = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "published": published})
}
