package chartplan

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/iashutoshrawat/lumora/tabular"
)

// Supported aggregation operations. Unknown operations fall back to sum
// so a creative analyst cannot break the pipeline.
const (
	AggSum           = "sum"
	AggAvg           = "avg"
	AggAverage       = "average"
	AggMean          = "mean"
	AggCount         = "count"
	AggCountDistinct = "countDistinct"
	AggMax           = "max"
	AggMin           = "min"
)

// GroupAndAggregate buckets rows by the groupBy tuple and computes one
// aggregated row per bucket. The output row carries the group columns
// plus one value per aggregation key. An empty groupBy yields an empty
// result. First-seen group order is preserved.
func GroupAndAggregate(rows []tabular.Row, groupBy []string, aggregations map[string]string) []tabular.Row {
	if len(groupBy) == 0 {
		return []tabular.Row{}
	}

	type bucket struct {
		keyValues []any
		rows      []tabular.Row
	}

	var order []string
	buckets := make(map[string]*bucket)

	for _, row := range rows {
		keyValues := make([]any, len(groupBy))
		for i, col := range groupBy {
			keyValues[i] = row[col]
		}
		keyBytes, err := json.Marshal(keyValues)
		if err != nil {
			continue
		}
		key := string(keyBytes)
		b := buckets[key]
		if b == nil {
			b = &bucket{keyValues: keyValues}
			buckets[key] = b
			order = append(order, key)
		}
		b.rows = append(b.rows, row)
	}

	// Aggregation keys are iterated in sorted order for determinism;
	// each lands in its own cell so order does not affect results.
	aggKeys := make([]string, 0, len(aggregations))
	for k := range aggregations {
		aggKeys = append(aggKeys, k)
	}
	sort.Strings(aggKeys)

	result := make([]tabular.Row, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		out := make(tabular.Row, len(groupBy)+len(aggKeys))
		for i, col := range groupBy {
			out[col] = b.keyValues[i]
		}
		for _, measure := range aggKeys {
			out[measure] = applyAggregation(b.rows, measure, aggregations[measure])
		}
		result = append(result, out)
	}
	return result
}

// applyAggregation computes one aggregate over a bucket. Non-numeric
// values are excluded before aggregating; a bucket with no numeric
// values aggregates to 0. count ignores coercion and counts raw rows.
func applyAggregation(rows []tabular.Row, measure, aggregation string) float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if n, ok := tabular.ToNumber(row[measure]); ok {
			values = append(values, n)
		}
	}

	if len(values) == 0 {
		return 0
	}

	switch aggregation {
	case AggAvg, AggAverage, AggMean:
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	case AggCount:
		return float64(len(rows))
	case AggCountDistinct:
		distinct := make(map[float64]bool, len(values))
		for _, v := range values {
			distinct[v] = true
		}
		return float64(len(distinct))
	case AggMax:
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	case AggMin:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	default: // sum and anything unrecognized
		var sum float64
		for _, v := range values {
			sum += v
		}
		return sum
	}
}

var sliceFilterPattern = regexp.MustCompile(`(?i)\b(top|last)\s+(\d+)\b`)

// ApplyRecommendationData applies a recommendation's data preparation to
// the dataset: group and aggregate, apply any executable row filters,
// then sort. Preparation without both groupBy and aggregations returns
// the dataset unchanged.
func ApplyRecommendationData(data Dataset, rec *Recommendation) Dataset {
	prep := rec.DataPreparation
	if prep == nil || len(prep.GroupBy) == 0 || len(prep.Aggregations) == 0 {
		return data
	}

	rows := GroupAndAggregate(data.Rows, prep.GroupBy, prep.Aggregations)

	rows = applyFilters(rows, prep.Filters)

	if prep.Sorting != nil && prep.Sorting.Column != "" {
		rows = sortRows(rows, prep.Sorting.Column, prep.Sorting.Order)
	}

	seen := make(map[string]bool)
	var columns []string
	for _, col := range prep.GroupBy {
		if col != "" && !seen[col] {
			seen[col] = true
			columns = append(columns, col)
		}
	}
	aggKeys := make([]string, 0, len(prep.Aggregations))
	for k := range prep.Aggregations {
		aggKeys = append(aggKeys, k)
	}
	sort.Strings(aggKeys)
	for _, col := range aggKeys {
		if col != "" && !seen[col] {
			seen[col] = true
			columns = append(columns, col)
		}
	}

	return Dataset{Columns: columns, Rows: rows}
}

// sortRows orders rows by a column. Missing values sort last regardless
// of direction; numbers compare numerically, everything else as strings.
// The sort is stable.
func sortRows(rows []tabular.Row, column, order string) []tabular.Row {
	dir := 1
	if order == "descending" {
		dir = -1
	}

	sorted := make([]tabular.Row, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		return compareCells(sorted[i][column], sorted[j][column], dir) < 0
	})
	return sorted
}

func compareCells(a, b any, dir int) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}

	an, aok := numericCell(a)
	bn, bok := numericCell(b)
	if aok && bok {
		switch {
		case an == bn:
			return 0
		case an < bn:
			return -dir
		default:
			return dir
		}
	}

	as, bs := tabular.Stringify(a), tabular.Stringify(b)
	return strings.Compare(as, bs) * dir
}

// numericCell matches only values that are already numbers, not numeric
// strings, so mixed columns keep lexicographic ordering.
func numericCell(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// applyFilters executes "top N" and "last N" row slices. Any other
// condition text is advisory and leaves the rows untouched.
func applyFilters(rows []tabular.Row, filters []Filter) []tabular.Row {
	for _, f := range filters {
		m := sliceFilterPattern.FindStringSubmatch(f.Condition)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 0 {
			continue
		}
		if n > len(rows) {
			n = len(rows)
		}
		if strings.EqualFold(m[1], "top") {
			rows = rows[:n]
		} else {
			rows = rows[len(rows)-n:]
		}
	}
	return rows
}
