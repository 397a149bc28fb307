package tabular

// Transformation describes a reshaping step an agent has requested
// before the data can be charted.
type Transformation struct {
	Type               string   `json:"type"`
	IDColumns          []string `json:"idColumns,omitempty"`
	ValueColumns       []string `json:"valueColumns,omitempty"`
	NewDimensionColumn string   `json:"newDimensionColumn,omitempty"`
	NewMeasureColumn   string   `json:"newMeasureColumn,omitempty"`
	Description        string   `json:"description,omitempty"`
}

// Transformation types. Only unpivot reshapes today; the rest pass
// through untouched so an over-eager agent cannot corrupt the data.
const (
	TransformNone           = "none"
	TransformUnpivot        = "unpivot"
	TransformPivot          = "pivot"
	TransformMelt           = "melt"
	TransformAggregate      = "aggregate"
	TransformDateExtraction = "dateExtraction"
)

// Unpivot converts wide data to tall. Each input row produces one output
// row per value column: the id columns are copied, the value column's
// name lands in newDimensionColumn, and its cell in newMeasureColumn.
//
//	{Product: "A", Q1: 100, Q2: 150} with ids [Product], values [Q1 Q2]
//	→ {Product: "A", Quarter: "Q1", Value: 100}
//	  {Product: "A", Quarter: "Q2", Value: 150}
func Unpivot(rows []Row, idColumns, valueColumns []string, newDimensionColumn, newMeasureColumn string) []Row {
	out := make([]Row, 0, len(rows)*len(valueColumns))
	for _, row := range rows {
		for _, col := range valueColumns {
			newRow := make(Row, len(idColumns)+2)
			for _, id := range idColumns {
				newRow[id] = row[id]
			}
			newRow[newDimensionColumn] = col
			newRow[newMeasureColumn] = row[col]
			out = append(out, newRow)
		}
	}
	return out
}

// ApplyTransformation applies the requested transformation to the rows.
// A nil transformation, type "none", and any type this package does not
// implement all return the rows unchanged.
func ApplyTransformation(rows []Row, t *Transformation) []Row {
	if t == nil || t.Type == TransformNone {
		return rows
	}

	switch t.Type {
	case TransformUnpivot, TransformMelt:
		dim := t.NewDimensionColumn
		if dim == "" {
			dim = "Variable"
		}
		measure := t.NewMeasureColumn
		if measure == "" {
			measure = "Value"
		}
		return Unpivot(rows, t.IDColumns, t.ValueColumns, dim, measure)
	default:
		return rows
	}
}
