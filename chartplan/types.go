// Package chartplan turns analyst recommendations and prepared rows into
// a render-ready chart plan: grouped and aggregated data, pivoted series,
// palette colors, and a normalized chart type.
package chartplan

import (
	"github.com/iashutoshrawat/lumora/chartspec"
	"github.com/iashutoshrawat/lumora/tabular"
)

// Dataset is a column-ordered table handed through the planning pipeline.
type Dataset struct {
	Columns []string      `json:"columns"`
	Rows    []tabular.Row `json:"rows"`
}

// Series describes one renderable series in the plan.
type Series struct {
	Key      string `json:"key"`
	Label    string `json:"label,omitempty"`
	Color    string `json:"color,omitempty"`
	YAxisKey string `json:"yAxisKey,omitempty"`
}

// Plan is the final chart plan returned to renderers.
type Plan struct {
	ChartType        string                  `json:"chartType"`
	XKey             string                  `json:"xKey"`
	Data             Dataset                 `json:"data"`
	Series           []Series                `json:"series"`
	RecommendationID string                  `json:"recommendationId"`
	Recommendation   *Recommendation         `json:"recommendation,omitempty"`
	Spec             *chartspec.Specification `json:"chartSpec"`
}

// Recommendation is a normalized analyst recommendation.
type Recommendation struct {
	ID               string           `json:"id"`
	Priority         int              `json:"priority"`
	ChartType        string           `json:"chartType"`
	ChartVariant     string           `json:"chartVariant,omitempty"`
	BusinessQuestion string           `json:"businessQuestion,omitempty"`
	DataPreparation  *DataPreparation `json:"dataPreparation,omitempty"`
	ChartMapping     *ChartMapping    `json:"chartMapping,omitempty"`
	InsightType      string           `json:"insightType,omitempty"`
}

// DataPreparation describes grouping, aggregation, filtering, and
// sorting to apply before charting.
type DataPreparation struct {
	UseTransformedStructure bool              `json:"useTransformedStructure,omitempty"`
	GroupBy                 []string          `json:"groupBy,omitempty"`
	Aggregations            map[string]string `json:"aggregations,omitempty"`
	Filters                 []Filter          `json:"filters,omitempty"`
	Sorting                 *Sorting          `json:"sorting,omitempty"`
}

// Filter is a free-text filter condition on a column. Only "top N" and
// "last N" conditions are executable; anything else is advisory.
type Filter struct {
	Column    string `json:"column"`
	Condition string `json:"condition"`
}

// Sorting orders prepared rows by a column.
type Sorting struct {
	Column string `json:"column"`
	Order  string `json:"order,omitempty"` // "ascending" or "descending"
}

// ChartMapping assigns prepared columns to chart axes.
type ChartMapping struct {
	XAxis   string   `json:"xAxis,omitempty"`
	YAxis   []string `json:"yAxis,omitempty"`
	GroupBy string   `json:"groupBy,omitempty"`
}

// RecommendationCandidate is a raw recommendation as emitted by the
// analyst, before normalization fills defaults.
type RecommendationCandidate struct {
	ID               string
	Priority         int
	HasPriority      bool
	ChartType        string
	ChartVariant     string
	BusinessQuestion string
	DataPreparation  *DataPreparation
	ChartMapping     *ChartMapping
	InsightType      string
}
