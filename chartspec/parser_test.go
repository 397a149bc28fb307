package chartspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChartType(t *testing.T) {
	tests := []struct {
		name        string
		viz         string
		analyst     string
		wantType    string
		wantVariant string
	}{
		{
			name:     "fenced json wins over keywords",
			viz:      "I suggest a line chart.\n```json\n{\"charttype\": \"scatter\"}\n```",
			wantType: "scatter",
		},
		{
			name:        "stacked bar keyword",
			analyst:     "A stacked bar chart works best here.",
			wantType:    "bar",
			wantVariant: "stacked",
		},
		{
			name:        "clustered keyword",
			viz:         "Use a clustered layout for the quarters.",
			wantType:    "bar",
			wantVariant: "grouped",
		},
		{
			name:     "column chart maps to bar",
			viz:      "A column chart with one column per region.",
			wantType: "bar",
		},
		{
			name:     "waterfall",
			viz:      "This calls for a waterfall to show the bridge.",
			wantType: "waterfall",
		},
		{
			name:     "donut",
			viz:      "A donut showing share of wallet.",
			wantType: "donut",
		},
		{
			name:     "no signal defaults to bar",
			viz:      "The data shows interesting patterns.",
			wantType: "bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Parse(AgentOutputs{VizStrategist: tt.viz, ChartAnalyst: tt.analyst})
			assert.Equal(t, tt.wantType, spec.ChartType)
			assert.Equal(t, tt.wantVariant, spec.Variant)
		})
	}
}

func TestParsePaletteDetection(t *testing.T) {
	tests := []struct {
		name   string
		design string
		want   string
	}{
		{"bcg by name", "Apply BCG green accents throughout.", "bcg"},
		{"bcg by hex", "Primary color #0033A0 with white background.", "bcg"},
		{"bain by name", "Bain red for the headline series.", "bain"},
		{"banking", "Use an investment banking aesthetic.", "banking"},
		{"mckinsey by name", "Classic McKinsey deep blue.", "mckinsey"},
		{"default", "Keep it clean and professional.", "mckinsey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := Parse(AgentOutputs{DesignConsultant: tt.design})
			assert.Equal(t, tt.want, spec.Colors.Palette)
			assert.Equal(t, LookupPalette(tt.want).Primary, spec.Colors.Primary)
		})
	}
}

func TestParseTypographySizes(t *testing.T) {
	design := "Chart title at 24pt bold. Axis labels at 14pt. Data labels should be 10pt."
	spec := Parse(AgentOutputs{DesignConsultant: design})

	assert.Equal(t, 24, spec.Typography.ChartTitle.Size)
	assert.Equal(t, 14, spec.Typography.AxisLabels.Size)
	assert.Equal(t, 10, spec.Typography.DataLabels.Size)
	// Untouched entries keep defaults.
	assert.Equal(t, 9, spec.Typography.Footnotes.Size)
	assert.Equal(t, 400, spec.Typography.Footnotes.Weight)
}

func TestParseDataLabelsAndLegend(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		spec := Parse(AgentOutputs{})
		assert.True(t, spec.DataLabels.Show)
		assert.Equal(t, "top", spec.DataLabels.Position)
		assert.Equal(t, "$0.0a", spec.DataLabels.Format)
		assert.True(t, spec.Legend.Show)
		assert.Equal(t, "top-right", spec.Legend.Position)
	})

	t.Run("suppressed labels and legend", func(t *testing.T) {
		spec := Parse(AgentOutputs{VizStrategist: "Use no data labels and no legend for a minimal look."})
		assert.False(t, spec.DataLabels.Show)
		assert.False(t, spec.Legend.Show)
	})

	t.Run("inside position", func(t *testing.T) {
		spec := Parse(AgentOutputs{VizStrategist: "Place labels inside each bar. Show data labels."})
		assert.Equal(t, "inside", spec.DataLabels.Position)
	})

	t.Run("legend bottom", func(t *testing.T) {
		spec := Parse(AgentOutputs{VizStrategist: "Put the legend bottom so the chart area stays wide."})
		assert.Equal(t, "bottom", spec.Legend.Position)
	})
}

func TestParseReferenceLinesAndAnnotations(t *testing.T) {
	viz := `Add a target line at the 2024 goal and an average line for context.
Include an annotation "Q3 spike driven by promo" near the peak.`

	spec := Parse(AgentOutputs{VizStrategist: viz})

	require.Len(t, spec.ReferenceLines, 2)
	assert.Equal(t, "Target", spec.ReferenceLines[0].Label)
	assert.Equal(t, "#737373", spec.ReferenceLines[0].Color)
	assert.Equal(t, "Average", spec.ReferenceLines[1].Label)

	require.Len(t, spec.Annotations, 1)
	assert.Equal(t, "Q3 spike driven by promo", spec.Annotations[0].Text)
	assert.Equal(t, 10, spec.Annotations[0].FontSize)
}

func TestParseExportDimensions(t *testing.T) {
	spec := Parse(AgentOutputs{})
	assert.Equal(t, Dimensions{Width: 1600, Height: 800}, spec.Export.Dimensions)
	assert.Equal(t, 300, spec.Export.DPI)
	assert.Equal(t, "png", spec.Export.Format)

	spec = Parse(AgentOutputs{VizStrategist: "Export for a 4:3 slide."})
	assert.Equal(t, Dimensions{Width: 1200, Height: 900}, spec.Export.Dimensions)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value  any
		format string
		want   string
	}{
		{2_500_000_000.0, "$0.0a", "$2.5B"},
		{4_500_000.0, "$0.0a", "$4.5M"},
		{12_300.0, "$0.0a", "$12.3K"},
		{950.0, "$0.0a", "$950"},
		{"1500", "$0.0a", "$1.5K"},
		{"n/a", "$0.0a", "n/a"},
		{nil, "$0.0a", ""},
		{42.0, "", "42"},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.value, tt.format); got != tt.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.format, got, tt.want)
		}
	}
}
