package tabular

import (
	"regexp"
	"time"
)

// ColumnType is the detected data type of a column.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
)

// ColumnRole is the semantic role a column plays when charting.
type ColumnRole string

const (
	RoleDimension  ColumnRole = "dimension"
	RoleMeasure    ColumnRole = "measure"
	RoleTemporal   ColumnRole = "temporal"
	RoleIdentifier ColumnRole = "identifier"
)

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	usDatePattern  = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{4}$`)

	temporalNamePattern   = regexp.MustCompile(`(?i)date|time|year|month|quarter|day|week`)
	identifierNamePattern = regexp.MustCompile(`(?i)id|key|code|uuid|guid`)
)

// DetectColumnType infers a column's data type from its values.
// Nil values are ignored. A column is numeric only when every non-nil
// value coerces to a number and none are empty strings.
func DetectColumnType(values []any) ColumnType {
	nonNull := make([]any, 0, len(values))
	for _, v := range values {
		if v != nil {
			nonNull = append(nonNull, v)
		}
	}
	if len(nonNull) == 0 {
		return TypeString
	}

	allNumbers := true
	for _, v := range nonNull {
		if s, ok := v.(string); ok && s == "" {
			allNumbers = false
			break
		}
		if _, ok := ToNumber(v); !ok {
			allNumbers = false
			break
		}
	}
	if allNumbers {
		return TypeNumber
	}

	allDates := true
	for _, v := range nonNull {
		if !looksLikeDate(v) {
			allDates = false
			break
		}
	}
	if allDates {
		return TypeDate
	}

	allBooleans := true
	for _, v := range nonNull {
		if !looksLikeBoolean(v) {
			allBooleans = false
			break
		}
	}
	if allBooleans {
		return TypeBoolean
	}

	return TypeString
}

func looksLikeDate(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	if isoDatePattern.MatchString(s) || usDatePattern.MatchString(s) {
		return true
	}
	// Loose fallback for formats like "Jan 2, 2024".
	for _, layout := range []string{time.RFC3339, "Jan 2, 2006", "January 2, 2006", "2 Jan 2006"} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func looksLikeBoolean(v any) bool {
	switch b := v.(type) {
	case bool:
		return true
	case string:
		return b == "true" || b == "false" || b == "TRUE" || b == "FALSE"
	default:
		return false
	}
}

// ClassifyColumn assigns a semantic role based on name, detected type,
// and uniqueness ratio (distinct values / rows).
//
// Temporal wins on type or name. Identifier requires both a matching
// name and near-total uniqueness so columns like "Region code" with
// repeats stay dimensions.
func ClassifyColumn(name string, colType ColumnType, uniqueness float64) ColumnRole {
	if colType == TypeDate || temporalNamePattern.MatchString(name) {
		return RoleTemporal
	}
	if identifierNamePattern.MatchString(name) && uniqueness > 0.9 {
		return RoleIdentifier
	}
	if colType == TypeNumber {
		return RoleMeasure
	}
	return RoleDimension
}

// ColumnStats summarizes a column for the data context handed to agents.
type ColumnStats struct {
	Type         ColumnType `json:"type"`
	UniqueCount  int        `json:"uniqueCount"`
	NullCount    int        `json:"nullCount"`
	SampleValues []any      `json:"sampleValues"`
}

// GetColumnStats computes per-column statistics over the rows.
func GetColumnStats(rows []Row, column string) ColumnStats {
	values := ColumnValues(rows, column)

	unique := make(map[string]bool)
	nullCount := 0
	var samples []any
	for _, v := range values {
		if v == nil {
			nullCount++
			continue
		}
		unique[Stringify(v)] = true
		if len(samples) < 5 {
			samples = append(samples, v)
		}
	}

	return ColumnStats{
		Type:         DetectColumnType(values),
		UniqueCount:  len(unique),
		NullCount:    nullCount,
		SampleValues: samples,
	}
}

// Uniqueness returns the ratio of distinct non-nil values to total rows.
func Uniqueness(rows []Row, column string) float64 {
	if len(rows) == 0 {
		return 0
	}
	unique := make(map[string]bool)
	for _, row := range rows {
		if v := row[column]; v != nil {
			unique[Stringify(v)] = true
		}
	}
	return float64(len(unique)) / float64(len(rows))
}
