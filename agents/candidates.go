package agents

import "github.com/iashutoshrawat/lumora/chartplan"

// Candidates converts parsed analyst recommendations into the raw
// candidates the chart planner normalizes.
func (o *AnalystOutput) Candidates() []chartplan.RecommendationCandidate {
	if o == nil {
		return nil
	}
	candidates := make([]chartplan.RecommendationCandidate, 0, len(o.ChartRecommendations))
	for _, rec := range o.ChartRecommendations {
		c := chartplan.RecommendationCandidate{
			ChartType:        rec.ChartType,
			ChartVariant:     rec.ChartVariant,
			BusinessQuestion: rec.BusinessQuestion,
			InsightType:      rec.InsightType,
		}
		if rec.Priority != nil {
			c.Priority = *rec.Priority
			c.HasPriority = true
		}

		prep := &chartplan.DataPreparation{
			UseTransformedStructure: rec.DataPreparation.UseTransformedStructure,
			GroupBy:                 rec.DataPreparation.GroupBy,
			Aggregations:            rec.DataPreparation.Aggregations,
			Sorting:                 (*chartplan.Sorting)(rec.DataPreparation.Sorting),
		}
		for _, f := range rec.DataPreparation.Filters {
			prep.Filters = append(prep.Filters, chartplan.Filter{Column: f.Column, Condition: f.Condition})
		}
		c.DataPreparation = prep

		c.ChartMapping = &chartplan.ChartMapping{
			XAxis:   rec.ChartMapping.XAxis,
			YAxis:   []string(rec.ChartMapping.YAxis),
			GroupBy: rec.ChartMapping.GroupBy,
		}

		candidates = append(candidates, c)
	}
	return candidates
}
