package tabular

import (
	"reflect"
	"testing"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"float", 42.5, 42.5, true},
		{"int", 7, 7, true},
		{"numeric string", "123.4", 123.4, true},
		{"padded numeric string", "  88 ", 88, true},
		{"nil", nil, 0, false},
		{"empty string", "", 0, false},
		{"word", "revenue", 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ToNumber(%v) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"North", "North"},
		{float64(100), "100"},
		{float64(1.5), "1.5"},
		{true, "true"},
		{nil, "null"},
	}

	for _, tt := range tests {
		if got := Stringify(tt.input); got != tt.want {
			t.Errorf("Stringify(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestColumnNames(t *testing.T) {
	rows := []Row{
		{"Region": "North", "Revenue": 100.0},
		{"Region": "South", "Revenue": 200.0, "Units": 5.0},
	}

	got := ColumnNames(rows)
	want := []string{"Region", "Revenue", "Units"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ColumnNames() = %v, want %v", got, want)
	}
}

func TestDetectColumnType(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   ColumnType
	}{
		{"numbers", []any{1.0, 2.0, 3.0}, TypeNumber},
		{"numeric strings", []any{"1", "2.5", "3"}, TypeNumber},
		{"mixed with empty string", []any{"1", "", "3"}, TypeString},
		{"iso dates", []any{"2024-01-15", "2024-02-20"}, TypeDate},
		{"us dates", []any{"01/15/2024", "2/20/2024"}, TypeDate},
		{"booleans", []any{true, "false", "TRUE"}, TypeBoolean},
		{"strings", []any{"North", "South"}, TypeString},
		{"numbers with nils", []any{1.0, nil, 3.0}, TypeNumber},
		{"all nil", []any{nil, nil}, TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectColumnType(tt.values); got != tt.want {
				t.Errorf("DetectColumnType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyColumn(t *testing.T) {
	tests := []struct {
		name       string
		colType    ColumnType
		uniqueness float64
		want       ColumnRole
	}{
		{"order_date", TypeDate, 0.5, RoleTemporal},
		{"fiscal_year", TypeNumber, 0.1, RoleTemporal},
		{"customer_id", TypeString, 0.99, RoleIdentifier},
		{"customer_id", TypeString, 0.3, RoleDimension},
		{"revenue", TypeNumber, 0.8, RoleMeasure},
		{"region", TypeString, 0.1, RoleDimension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyColumn(tt.name, tt.colType, tt.uniqueness)
			if got != tt.want {
				t.Errorf("ClassifyColumn(%q, %q, %v) = %q, want %q", tt.name, tt.colType, tt.uniqueness, got, tt.want)
			}
		})
	}
}

func TestGetColumnStats(t *testing.T) {
	rows := []Row{
		{"Region": "North", "Revenue": 100.0},
		{"Region": "South", "Revenue": 200.0},
		{"Region": "North", "Revenue": nil},
		{"Region": "East", "Revenue": 150.0},
	}

	stats := GetColumnStats(rows, "Region")
	if stats.Type != TypeString {
		t.Errorf("expected string type, got %q", stats.Type)
	}
	if stats.UniqueCount != 3 {
		t.Errorf("expected 3 unique regions, got %d", stats.UniqueCount)
	}
	if stats.NullCount != 0 {
		t.Errorf("expected 0 nulls, got %d", stats.NullCount)
	}
	if len(stats.SampleValues) != 4 {
		t.Errorf("expected 4 samples, got %d", len(stats.SampleValues))
	}

	revStats := GetColumnStats(rows, "Revenue")
	if revStats.NullCount != 1 {
		t.Errorf("expected 1 null revenue, got %d", revStats.NullCount)
	}
	if revStats.UniqueCount != 3 {
		t.Errorf("expected 3 unique revenues, got %d", revStats.UniqueCount)
	}
}

func TestUnpivot(t *testing.T) {
	rows := []Row{
		{"Product": "A", "Q1": 100.0, "Q2": 150.0},
		{"Product": "B", "Q1": 80.0, "Q2": 120.0},
	}

	got := Unpivot(rows, []string{"Product"}, []string{"Q1", "Q2"}, "Quarter", "Sales")

	want := []Row{
		{"Product": "A", "Quarter": "Q1", "Sales": 100.0},
		{"Product": "A", "Quarter": "Q2", "Sales": 150.0},
		{"Product": "B", "Quarter": "Q1", "Sales": 80.0},
		{"Product": "B", "Quarter": "Q2", "Sales": 120.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unpivot() = %v, want %v", got, want)
	}
}

func TestApplyTransformation(t *testing.T) {
	rows := []Row{
		{"Product": "A", "Q1": 100.0, "Q2": 150.0},
	}

	t.Run("nil transformation passes through", func(t *testing.T) {
		if got := ApplyTransformation(rows, nil); !reflect.DeepEqual(got, rows) {
			t.Errorf("expected unchanged rows, got %v", got)
		}
	})

	t.Run("none passes through", func(t *testing.T) {
		got := ApplyTransformation(rows, &Transformation{Type: TransformNone})
		if !reflect.DeepEqual(got, rows) {
			t.Errorf("expected unchanged rows, got %v", got)
		}
	})

	t.Run("unknown type passes through", func(t *testing.T) {
		got := ApplyTransformation(rows, &Transformation{Type: TransformPivot})
		if !reflect.DeepEqual(got, rows) {
			t.Errorf("expected unchanged rows, got %v", got)
		}
	})

	t.Run("unpivot with default column names", func(t *testing.T) {
		got := ApplyTransformation(rows, &Transformation{
			Type:         TransformUnpivot,
			IDColumns:    []string{"Product"},
			ValueColumns: []string{"Q1", "Q2"},
		})
		want := []Row{
			{"Product": "A", "Variable": "Q1", "Value": 100.0},
			{"Product": "A", "Variable": "Q2", "Value": 150.0},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ApplyTransformation() = %v, want %v", got, want)
		}
	})
}
