package chartplan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iashutoshrawat/lumora/chartspec"
	"github.com/iashutoshrawat/lumora/tabular"
)

// chartTypeAliases maps substrings of analyst chart type labels to the
// renderable types. Longer aliases are checked first so "stacked bar"
// does not resolve through "bar".
var chartTypeAliases = []struct {
	match  string
	result string
}{
	{"stacked bar", "bar"},
	{"grouped bar", "bar"},
	{"line chart", "line"},
	{"area chart", "area"},
	{"column", "bar"},
	{"scatter", "scatter"},
	{"donut", "pie"},
	{"line", "line"},
	{"area", "area"},
	{"bar", "bar"},
	{"pie", "pie"},
}

// defaultColors is the fallback palette when no specification supplies one.
var defaultColors = []string{"#00BFFF", "#001F3F", "#FF6B6B", "#4ECDC4", "#45B7D1"}

// Options tunes plan construction.
type Options struct {
	// SelectedRecommendationID pins a specific recommendation instead of
	// taking the highest-priority one.
	SelectedRecommendationID string
}

// BuildChartPlan assembles a renderable plan from prepared data, the
// analyst's recommendations, and an optional design specification.
// Returns nil only when there are no rows to chart; with rows but no
// usable recommendation it degrades to a default column plan so the
// caller always has something to render.
func BuildChartPlan(data Dataset, candidates []RecommendationCandidate, spec *chartspec.Specification, opts *Options) *Plan {
	if len(data.Rows) == 0 {
		return nil
	}

	recommendations := NormalizeRecommendations(candidates)
	if len(recommendations) == 0 {
		return defaultPlan(data, spec)
	}

	var selectedID string
	if opts != nil {
		selectedID = opts.SelectedRecommendationID
	}
	selected := selectRecommendation(recommendations, selectedID)

	prepared := ApplyRecommendationData(data, selected)
	chartType := normalizeChartType(selected.ChartType, spec)
	shaped, series, xKey := shapeDataForChart(prepared, selected, spec)

	return &Plan{
		ChartType:        chartType,
		XKey:             xKey,
		Data:             shaped,
		Series:           series,
		RecommendationID: selected.ID,
		Recommendation:   selected,
		Spec:             spec,
	}
}

// NormalizeRecommendations fills defaults, drops candidates without a
// chart type, and sorts the survivors by ascending priority. The sort is
// stable so equal priorities keep analyst order.
func NormalizeRecommendations(candidates []RecommendationCandidate) []*Recommendation {
	recs := make([]*Recommendation, 0, len(candidates))
	for i, c := range candidates {
		priority := c.Priority
		if !c.HasPriority {
			priority = i + 1
		}

		chartType := c.ChartType
		if chartType == "" {
			chartType = c.ChartVariant
		}
		chartType = strings.ToLower(chartType)
		if chartType == "" {
			continue
		}

		id := c.ID
		if id == "" {
			id = fmt.Sprintf("%d-%s-%d", priority, chartType, i)
		}

		recs = append(recs, &Recommendation{
			ID:               id,
			Priority:         priority,
			ChartType:        chartType,
			ChartVariant:     c.ChartVariant,
			BusinessQuestion: c.BusinessQuestion,
			DataPreparation:  c.DataPreparation,
			ChartMapping:     c.ChartMapping,
			InsightType:      c.InsightType,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})
	return recs
}

func selectRecommendation(recs []*Recommendation, selectedID string) *Recommendation {
	if selectedID != "" {
		for _, rec := range recs {
			if rec.ID == selectedID {
				return rec
			}
		}
	}
	return recs[0]
}

// normalizeChartType maps an analyst label to a renderable chart type by
// substring match, falling back to the specification's type, then "bar".
func normalizeChartType(candidate string, spec *chartspec.Specification) string {
	lower := strings.ToLower(candidate)
	for _, alias := range chartTypeAliases {
		if strings.Contains(lower, alias.match) {
			return alias.result
		}
	}
	if spec != nil && spec.ChartType != "" {
		return spec.ChartType
	}
	return "bar"
}

// shapeDataForChart resolves the x axis, derives series, pivots grouped
// data, and reorders month axes chronologically.
func shapeDataForChart(prepared Dataset, rec *Recommendation, spec *chartspec.Specification) (Dataset, []Series, string) {
	mapping := rec.ChartMapping
	if mapping == nil {
		mapping = &ChartMapping{}
	}

	xKey := mapping.XAxis
	if xKey == "" && rec.DataPreparation != nil {
		for _, col := range rec.DataPreparation.GroupBy {
			if col != "" {
				xKey = col
				break
			}
		}
	}
	if xKey == "" {
		for _, col := range prepared.Columns {
			if col != "" {
				xKey = col
				break
			}
		}
	}

	yAxes := mapping.YAxis
	if len(yAxes) == 0 && rec.DataPreparation != nil {
		aggKeys := make([]string, 0, len(rec.DataPreparation.Aggregations))
		for k := range rec.DataPreparation.Aggregations {
			if k != xKey {
				aggKeys = append(aggKeys, k)
			}
		}
		sort.Strings(aggKeys)
		yAxes = aggKeys
	}

	rows := prepared.Rows
	var series []Series

	switch {
	case mapping.GroupBy != "" && len(yAxes) == 1:
		rows, series = PivotSeries(rows, xKey, mapping.GroupBy, yAxes[0])
		for i := range series {
			series[i].Color = paletteColor(spec, i)
		}
	case len(yAxes) > 0:
		i := 0
		for _, key := range yAxes {
			if key == "" {
				continue
			}
			series = append(series, Series{Key: key, Label: key, Color: paletteColor(spec, i)})
			i++
		}
	default:
		i := 0
		for _, col := range prepared.Columns {
			if col == "" || col == xKey {
				continue
			}
			series = append(series, Series{Key: col, Label: col, Color: paletteColor(spec, i)})
			i++
		}
	}

	// A mapping that names columns absent from the prepared rows would
	// produce an empty chart. Fall back to plain column series instead.
	if !keysResolvable(rows, xKey, series) {
		rows = prepared.Rows
		series = series[:0]
		i := 0
		for _, col := range prepared.Columns {
			if col == "" || col == xKey {
				continue
			}
			series = append(series, Series{Key: col, Label: col, Color: paletteColor(spec, i)})
			i++
		}
	}

	rows = sortRowsByChronologicalMonth(rows, xKey)

	seen := map[string]bool{xKey: true}
	columns := []string{xKey}
	for _, s := range series {
		if s.Key != "" && !seen[s.Key] {
			seen[s.Key] = true
			columns = append(columns, s.Key)
		}
	}

	return Dataset{Columns: columns, Rows: rows}, series, xKey
}

// keysResolvable reports whether the x key and every series key appear
// in at least one row.
func keysResolvable(rows []tabular.Row, xKey string, series []Series) bool {
	if len(rows) == 0 {
		return true
	}
	present := func(key string) bool {
		for _, row := range rows {
			if _, ok := row[key]; ok {
				return true
			}
		}
		return false
	}
	if xKey != "" && !present(xKey) {
		return false
	}
	for _, s := range series {
		if s.Key != "" && !present(s.Key) {
			return false
		}
	}
	return true
}

// defaultPlan charts the data as-is: first column on the x axis, one
// series per remaining column.
func defaultPlan(data Dataset, spec *chartspec.Specification) *Plan {
	chartType := "bar"
	if spec != nil && spec.ChartType != "" {
		chartType = spec.ChartType
	}

	xKey := ""
	if len(data.Columns) > 0 {
		xKey = data.Columns[0]
	}

	var series []Series
	for i, col := range data.Columns {
		if i == 0 {
			continue
		}
		series = append(series, Series{Key: col, Label: col, Color: paletteColor(spec, i-1)})
	}

	return &Plan{
		ChartType:        chartType,
		XKey:             xKey,
		Data:             data,
		Series:           series,
		RecommendationID: "default",
		Spec:             spec,
	}
}

func paletteColor(spec *chartspec.Specification, index int) string {
	palette := defaultColors
	if spec != nil && len(spec.Colors.Primary) > 0 {
		palette = spec.Colors.Primary
	}
	return palette[index%len(palette)]
}
