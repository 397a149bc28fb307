package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iashutoshrawat/lumora/jsonpatch"
	"github.com/iashutoshrawat/lumora/tabular"
)

// StringList accepts either a JSON string or an array of strings.
// Agents frequently emit "yAxis": "Sales" where the contract allows
// a list.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*s = nil
		} else {
			*s = StringList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or string array, got %s", data)
	}
	*s = StringList(many)
	return nil
}

// ColumnAnalysis is the transformer's classification of one column.
type ColumnAnalysis struct {
	Name        string `json:"name"`
	Type        string `json:"type"`     // dimension, measure, temporal, identifier
	DataType    string `json:"dataType"` // string, number, date, boolean
	Role        string `json:"role"`     // categorical, numerical, temporal, implicitDimension, identifier, measure
	Description string `json:"description,omitempty"`
}

// PlotReadyStructure describes the ideal shape of the data for plotting.
type PlotReadyStructure struct {
	Dimensions       []string `json:"dimensions"`
	Measures         []string `json:"measures"`
	Temporal         string   `json:"temporal,omitempty"`
	PrimaryDimension string   `json:"primaryDimension,omitempty"`
	SuggestedXAxis   string   `json:"suggestedXAxis,omitempty"`
	SuggestedYAxis   string   `json:"suggestedYAxis,omitempty"`
	GroupBy          string   `json:"groupBy,omitempty"`
}

// TransformerOutput is the data-transformer agent's structured response.
type TransformerOutput struct {
	Columns              []ColumnAnalysis        `json:"columns"`
	DataFormat           string                  `json:"dataFormat"` // wide, tall, long, normalized
	NeedsTransformation  bool                    `json:"needsTransformation"`
	TransformationReason string                  `json:"transformationReason,omitempty"`
	Transformation       *tabular.Transformation `json:"transformation,omitempty"`
	PlotReadyStructure   PlotReadyStructure      `json:"plotReadyStructure"`
	ExpectedOutcome      string                  `json:"expectedOutcome,omitempty"`
}

// Validate checks required fields and the transformation contract:
// when the agent asks for an unpivot it must name the columns to melt.
func (o *TransformerOutput) Validate() error {
	if len(o.Columns) == 0 {
		return fmt.Errorf("columns must not be empty")
	}
	for i, col := range o.Columns {
		if col.Name == "" {
			return fmt.Errorf("columns[%d]: name must not be empty", i)
		}
	}
	if o.NeedsTransformation && o.Transformation != nil {
		t := o.Transformation
		switch t.Type {
		case tabular.TransformUnpivot, tabular.TransformMelt:
			if len(t.ValueColumns) == 0 {
				return fmt.Errorf("transformation %q requires valueColumns", t.Type)
			}
		}
	}
	return nil
}

// insightTypes is the closed set accepted for a recommendation.
var insightTypes = map[string]bool{
	"trend":        true,
	"comparison":   true,
	"composition":  true,
	"distribution": true,
	"relationship": true,
	"performance":  true,
}

// Filter narrows prepared rows before charting.
type Filter struct {
	Column    string `json:"column"`
	Condition string `json:"condition"`
	Reason    string `json:"reason,omitempty"`
}

// Sorting orders prepared rows before charting.
type Sorting struct {
	Column string `json:"column"`
	Order  string `json:"order"` // ascending, descending
}

// DataPreparation captures the analyst's grouping, aggregation,
// filtering, and sorting instructions.
type DataPreparation struct {
	UseTransformedStructure bool              `json:"useTransformedStructure,omitempty"`
	GroupBy                 []string          `json:"groupBy,omitempty"`
	Aggregations            map[string]string `json:"aggregations,omitempty"`
	CalculatedFields        []map[string]any  `json:"calculatedFields,omitempty"`
	Filters                 []Filter          `json:"filters,omitempty"`
	Sorting                 *Sorting          `json:"sorting,omitempty"`
}

// ChartMapping binds prepared columns to chart axes.
type ChartMapping struct {
	XAxis               string            `json:"xAxis"`
	YAxis               StringList        `json:"yAxis"`
	GroupBy             string            `json:"groupBy,omitempty"`
	AdditionalEncodings map[string]string `json:"additionalEncodings,omitempty"`
}

// ChartRecommendation is one prioritized chart proposal from the
// analyst. Priority is a pointer so a missing priority can be told
// apart from an explicit zero.
type ChartRecommendation struct {
	Priority         *int            `json:"priority,omitempty"`
	ChartType        string          `json:"chartType"`
	ChartVariant     string          `json:"chartVariant,omitempty"`
	BusinessQuestion string          `json:"businessQuestion,omitempty"`
	ChartTitle       string          `json:"chartTitle,omitempty"`
	InsightType      string          `json:"insightType,omitempty"`
	DataPreparation  DataPreparation `json:"dataPreparation,omitempty"`
	ChartMapping     ChartMapping    `json:"chartMapping"`
	ExpectedInsight  string          `json:"expectedInsight,omitempty"`
	ExecutiveSummary string          `json:"executiveSummary,omitempty"`
	DashboardRole    string          `json:"dashboardRole,omitempty"`
	TargetAudience   string          `json:"targetAudience,omitempty"`
}

// AnalystOutput is the chart-analyst agent's structured response.
type AnalystOutput struct {
	DataAnalysis         map[string]any        `json:"dataAnalysis,omitempty"`
	ChartRecommendations []ChartRecommendation `json:"chartRecommendations"`
	DashboardStrategy    map[string]any        `json:"dashboardStrategy,omitempty"`
	AdditionalAnalytics  map[string]any        `json:"additionalAnalytics,omitempty"`
	Warnings             []string              `json:"warnings,omitempty"`
}

// Validate requires at least one recommendation with a chart mapping
// and normalizes insightType in place: agents sometimes echo the whole
// enum ("trend | comparison | ..."), so the first segment is taken,
// trimmed, and lowercased before the membership check.
func (o *AnalystOutput) Validate() error {
	if len(o.ChartRecommendations) == 0 {
		return fmt.Errorf("chartRecommendations must not be empty")
	}
	for i := range o.ChartRecommendations {
		rec := &o.ChartRecommendations[i]
		if rec.ChartType == "" && rec.ChartVariant == "" {
			return fmt.Errorf("chartRecommendations[%d]: chartType must not be empty", i)
		}
		if rec.ChartMapping.XAxis == "" {
			return fmt.Errorf("chartRecommendations[%d]: chartMapping.xAxis must not be empty", i)
		}
		if rec.InsightType != "" {
			normalized := strings.ToLower(strings.TrimSpace(strings.SplitN(rec.InsightType, "|", 2)[0]))
			if !insightTypes[normalized] {
				return fmt.Errorf("chartRecommendations[%d]: unknown insightType %q", i, rec.InsightType)
			}
			rec.InsightType = normalized
		}
	}
	return nil
}

// Patch edit classifications for PatchPlan.EditType.
const (
	EditSimple  = "simple"
	EditComplex = "complex"
)

// PatchPlan is the patch-planner agent's classification of a chart
// edit request. Simple edits carry the operations to apply; complex
// edits defer to full regeneration.
type PatchPlan struct {
	EditType    string                `json:"editType"`
	Operations  []jsonpatch.Operation `json:"operations,omitempty"`
	Explanation string                `json:"explanation,omitempty"`
}

// Validate defaults an unrecognized editType to complex so a confused
// planner degrades to the safe path, and checks each operation.
func (p *PatchPlan) Validate() error {
	if p.EditType != EditSimple && p.EditType != EditComplex {
		p.EditType = EditComplex
		p.Operations = nil
		return nil
	}
	for i, op := range p.Operations {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("operations[%d]: %w", i, err)
		}
	}
	return nil
}
