package jsonpatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartConfig() map[string]any {
	return map[string]any{
		"chart": map[string]any{"type": "column", "height": 500.0},
		"title": map[string]any{"text": "Revenue by Region"},
		"colors": []any{"#004B87", "#0066B3"},
		"legend": map[string]any{"enabled": true},
		"series": []any{
			map[string]any{"name": "North", "data": []any{1.0, 2.0}},
			map[string]any{"name": "South", "data": []any{3.0, 4.0}},
		},
	}
}

func TestApplySetOperations(t *testing.T) {
	cfg := chartConfig()

	modified, failures := Apply(cfg, []Operation{
		{Op: OpReplace, Path: "title.text", Value: "Quarterly Revenue"},
		{Op: OpReplace, Path: "legend.enabled", Value: false},
		{Op: OpReplace, Path: "colors", Value: []any{"#FF0000"}},
		{Op: OpAdd, Path: "subtitle.text", Value: "FY2026"},
	})

	require.Empty(t, failures)
	assert.Equal(t, "Quarterly Revenue", modified["title"].(map[string]any)["text"])
	assert.Equal(t, false, modified["legend"].(map[string]any)["enabled"])
	assert.Equal(t, []any{"#FF0000"}, modified["colors"])
	assert.Equal(t, "FY2026", modified["subtitle"].(map[string]any)["text"])
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	cfg := chartConfig()

	_, failures := Apply(cfg, []Operation{
		{Op: OpReplace, Path: "title.text", Value: "Changed"},
		{Op: OpRemove, Path: "legend"},
		{Op: OpReplace, Path: "series.0.name", Value: "East"},
	})

	require.Empty(t, failures)
	assert.Equal(t, "Revenue by Region", cfg["title"].(map[string]any)["text"])
	assert.Contains(t, cfg, "legend")
	assert.Equal(t, "North", cfg["series"].([]any)[0].(map[string]any)["name"])
}

func TestApplyArrayPaths(t *testing.T) {
	cfg := chartConfig()

	t.Run("set element field", func(t *testing.T) {
		modified, failures := Apply(cfg, []Operation{
			{Op: OpReplace, Path: "series.1.name", Value: "West"},
		})
		require.Empty(t, failures)
		assert.Equal(t, "West", modified["series"].([]any)[1].(map[string]any)["name"])
	})

	t.Run("grow array on out-of-range index", func(t *testing.T) {
		modified, failures := Apply(cfg, []Operation{
			{Op: OpReplace, Path: "colors.4", Value: "#00FF00"},
		})
		require.Empty(t, failures)
		colors := modified["colors"].([]any)
		require.Len(t, colors, 5)
		assert.Nil(t, colors[2])
		assert.Equal(t, "#00FF00", colors[4])
	})

	t.Run("numeric segment into non-array fails", func(t *testing.T) {
		modified, failures := Apply(cfg, []Operation{
			{Op: OpReplace, Path: "title.0", Value: "oops"},
		})
		require.Len(t, failures, 1)
		assert.ErrorContains(t, failures[0].Err, "expected array")
		// The document survives the failed operation.
		assert.Equal(t, "Revenue by Region", modified["title"].(map[string]any)["text"])
	})
}

func TestApplySelfHealsIntermediates(t *testing.T) {
	modified, failures := Apply(map[string]any{}, []Operation{
		{Op: OpReplace, Path: "yAxis.plotLines.0.value", Value: 5000000.0},
	})

	require.Empty(t, failures)
	yAxis := modified["yAxis"].(map[string]any)
	plotLines := yAxis["plotLines"].([]any)
	require.Len(t, plotLines, 1)
	assert.Equal(t, 5000000.0, plotLines[0].(map[string]any)["value"])
}

func TestApplyScalarIntermediateReplaced(t *testing.T) {
	cfg := map[string]any{"legend": true}

	modified, failures := Apply(cfg, []Operation{
		{Op: OpReplace, Path: "legend.enabled", Value: false},
	})

	require.Empty(t, failures)
	assert.Equal(t, false, modified["legend"].(map[string]any)["enabled"])
}

func TestApplyRemove(t *testing.T) {
	t.Run("remove map key", func(t *testing.T) {
		modified, failures := Apply(chartConfig(), []Operation{
			{Op: OpRemove, Path: "title.text"},
		})
		require.Empty(t, failures)
		assert.NotContains(t, modified["title"].(map[string]any), "text")
	})

	t.Run("remove array element splices", func(t *testing.T) {
		modified, failures := Apply(chartConfig(), []Operation{
			{Op: OpRemove, Path: "series.0"},
		})
		require.Empty(t, failures)
		series := modified["series"].([]any)
		require.Len(t, series, 1)
		assert.Equal(t, "South", series[0].(map[string]any)["name"])
	})

	t.Run("remove missing path is a no-op", func(t *testing.T) {
		modified, failures := Apply(chartConfig(), []Operation{
			{Op: OpRemove, Path: "tooltip.formatter"},
			{Op: OpRemove, Path: "series.9"},
		})
		require.Empty(t, failures)
		assert.Len(t, modified["series"].([]any), 2)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		ops := []Operation{{Op: OpRemove, Path: "legend.enabled"}}
		once, _ := Apply(chartConfig(), ops)
		twice, _ := Apply(once, ops)
		assert.Equal(t, once, twice)
	})
}

func TestApplyOperationsAreIndependent(t *testing.T) {
	modified, failures := Apply(chartConfig(), []Operation{
		{Op: OpReplace, Path: "title.text", Value: "First"},
		{Op: OpReplace, Path: "title.0", Value: "bad"}, // fails
		{Op: OpReplace, Path: "legend.enabled", Value: false},
	})

	require.Len(t, failures, 1)
	assert.Equal(t, "First", modified["title"].(map[string]any)["text"])
	assert.Equal(t, false, modified["legend"].(map[string]any)["enabled"])
}

func TestOperationValidate(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		wantErr bool
	}{
		{"valid replace", Operation{Op: OpReplace, Path: "a.b", Value: 1.0}, false},
		{"valid remove without value", Operation{Op: OpRemove, Path: "a"}, false},
		{"replace without value", Operation{Op: OpReplace, Path: "a"}, true},
		{"empty path", Operation{Op: OpReplace, Value: 1.0}, true},
		{"unknown op", Operation{Op: "move", Path: "a", Value: 1.0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		seg    string
		want   int
		wantOK bool
	}{
		{"0", 0, true},
		{"12", 12, true},
		{"-1", 0, false},
		{"1.5", 0, false},
		{"0x1", 0, false},
		{"", 0, false},
		{"name", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseIndex(tt.seg)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseIndex(%q) = (%d, %v), want (%d, %v)", tt.seg, got, ok, tt.want, tt.wantOK)
		}
	}
}
