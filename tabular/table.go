// Package tabular provides row-oriented table primitives for the chart
// pipeline: numeric coercion, column type detection, and the reshaping
// operations agents request before charting.
package tabular

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Row is a single record keyed by column name. Values come from parsed
// JSON, so they are strings, float64s, bools, or nil.
type Row = map[string]any

// ToNumber coerces a cell value to a float64.
// Returns false for nil, empty strings, and non-numeric values.
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
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
	case bool:
		// Booleans are not numbers in this pipeline.
		return 0, false
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Stringify renders a cell value the way JavaScript's String() would,
// so grouping keys and labels stay stable across the pipeline.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case json.Number:
		return s.String()
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ColumnNames returns the union of keys across rows, ordered by first
// appearance. Map iteration order is not stable, so within a single row
// keys are sorted to keep output deterministic.
func ColumnNames(rows []Row) []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	return names
}

// ColumnValues extracts all values for a column, preserving row order.
func ColumnValues(rows []Row, column string) []any {
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, row[column])
	}
	return values
}
