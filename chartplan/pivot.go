package chartplan

import (
	"github.com/iashutoshrawat/lumora/tabular"
)

// PivotSeries reshapes tall rows into one row per x value with one
// column per group value. Series keys are collected in first-seen order;
// when the same (x, group) pair appears twice the later value wins.
func PivotSeries(rows []tabular.Row, xKey, groupKey, valueKey string) ([]tabular.Row, []Series) {
	var xOrder []string
	pivot := make(map[string]tabular.Row)

	var seriesOrder []string
	seriesSeen := make(map[string]bool)

	for _, row := range rows {
		xValue := row[xKey]
		groupLabel := tabular.Stringify(row[groupKey])
		measureValue := row[valueKey]

		if !seriesSeen[groupLabel] {
			seriesSeen[groupLabel] = true
			seriesOrder = append(seriesOrder, groupLabel)
		}

		// Pivot buckets are keyed by the rendered x value, matching how
		// the x axis will display it.
		xID := tabular.Stringify(xValue)
		existing, ok := pivot[xID]
		if !ok {
			existing = tabular.Row{xKey: xValue}
			pivot[xID] = existing
			xOrder = append(xOrder, xID)
		}
		existing[groupLabel] = measureValue
	}

	outRows := make([]tabular.Row, 0, len(xOrder))
	for _, xID := range xOrder {
		outRows = append(outRows, pivot[xID])
	}

	series := make([]Series, 0, len(seriesOrder))
	for _, key := range seriesOrder {
		series = append(series, Series{Key: key, Label: key})
	}

	return outRows, series
}
